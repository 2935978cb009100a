package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/notification"
	"MediCare/util"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testFields = map[string]fieldKind{
	"patient":              objectIDField,
	"technician":           objectIDField,
	"testName":             stringField,
	"testType":             stringField,
	"description":          stringField,
	"scheduledDate":        timestampField,
	"status":               stringField,
	"results":              stringField,
	"price":                floatField,
	"lab":                  rawField,
	"sampleType":           stringField,
	"sampleCollected":      boolField,
	"sampleCollectionDate": timestampField,
	"reportReady":          boolField,
	"normalRange":          stringField,
	"units":                stringField,
	"notes":                stringField,
	"priority":             stringField,
}

type TestFilter struct {
	Status  string
	Patient string
}

func testKey(id primitive.ObjectID) string {
	return util.TestKey + id.Hex()
}

func validateTestSet(set bson.M) error {
	if price, ok := set["price"].(float64); ok && price < 0 {
		return util.NewValidationError(util.INVALID_PRICE)
	}
	if v, ok := set["lab"]; ok && v != nil {
		lab := &models.Lab{}
		if err := decodeInto(v, lab); err != nil {
			return err
		}
		set["lab"] = lab
	}
	if err := enumField(set, "status", models.TestStatuses, util.INVALID_STATUS); err != nil {
		return err
	}
	if err := enumField(set, "sampleType", models.SampleTypes, util.INVALID_SAMPLE_TYPE); err != nil {
		return err
	}
	return enumField(set, "priority", models.TestPriorities, util.INVALID_PRIORITY)
}

func decorateTests(items []models.Test) {
	now := timeNow()
	for i := range items {
		items[i].Decorate(now)
	}
}

// populateTests attaches patient summaries and the overdue flag.
func populateTests(ctx context.Context, items []models.Test) error {
	decorateTests(items)
	if len(items) == 0 {
		return nil
	}
	ids := bson.A{}
	seen := map[primitive.ObjectID]bool{}
	for _, t := range items {
		if !seen[t.Patient] {
			seen[t.Patient] = true
			ids = append(ids, t.Patient)
		}
	}
	patients, err := db.FindAll[models.PatientSummary](ctx, db.OpenCollections(util.PatientCollection),
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1}))
	if err != nil {
		return internalError("unable to populate tests", err)
	}
	byID := make(map[primitive.ObjectID]*models.PatientSummary, len(patients))
	for i := range patients {
		byID[patients[i].ID] = &patients[i]
	}
	for i := range items {
		items[i].PatientDetails = byID[items[i].Patient]
	}
	return nil
}

/*
* New tests start scheduled
* sampleType defaults to blood, priority to routine
 */
func CreateTest(ctx context.Context, data map[string]interface{}) (*models.Test, error) {
	if err := common.RequireFields(data, "patient", "testName", "testType", "scheduledDate"); err != nil {
		return nil, err
	}
	set, err := buildPatch(data, testFields)
	if err != nil {
		return nil, err
	}
	if err := validateTestSet(set); err != nil {
		return nil, err
	}
	patientID, ok := set["patient"].(primitive.ObjectID)
	if !ok {
		return nil, util.NewValidationError(util.INVALID_ID_FORMAT)
	}
	patient, err := getPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	test := &models.Test{
		ID:         primitive.NewObjectID(),
		Patient:    patientID,
		Status:     models.TestScheduled,
		SampleType: models.DefaultSampleType,
		Priority:   models.DefaultPriority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	test.TestName, _ = set["testName"].(string)
	test.TestType, _ = set["testType"].(string)
	test.Description, _ = set["description"].(string)
	test.ScheduledDate, _ = set["scheduledDate"].(time.Time)
	test.Price, _ = set["price"].(float64)
	test.Lab, _ = set["lab"].(*models.Lab)
	test.NormalRange, _ = set["normalRange"].(string)
	test.Units, _ = set["units"].(string)
	test.Notes, _ = set["notes"].(string)
	if v, ok := set["technician"].(primitive.ObjectID); ok {
		test.Technician = idPtr(v)
	}
	if v, ok := set["sampleType"].(string); ok && v != "" {
		test.SampleType = v
	}
	if v, ok := set["priority"].(string); ok && v != "" {
		test.Priority = v
	}

	if _, err := db.CreateOne(ctx, db.OpenCollections(util.TestCollection), test); err != nil {
		return nil, internalError("unable to insert test", err)
	}
	test.PatientDetails = summarizePatient(patient)
	test.Decorate(now)
	return test, nil
}

/*
* Apply the patch and stamp reportDate in one write
* reportDate is only set the first time the stored status is completed
* Values are wrapped in $literal so user text is never read as an expression
 */
func applyTestUpdate(ctx context.Context, oid primitive.ObjectID, set bson.M) error {
	now := timeNow()
	patch := bson.M{"updatedAt": now}
	for k, v := range set {
		patch[k] = bson.M{"$literal": v}
	}
	pipeline := bson.A{
		bson.M{"$set": patch},
		bson.M{"$set": bson.M{"reportDate": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", models.TestCompleted}},
			bson.M{"$ifNull": bson.A{"$reportDate", now}},
			"$reportDate",
		}}}},
	}
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.TestCollection), bson.M{"_id": oid}, pipeline)
	if err != nil {
		return internalError("unable to update test", err)
	}
	if res.MatchedCount == 0 {
		return util.NewNotFoundError(util.TEST_NOT_FOUND)
	}
	cacheDelete(ctx, testKey(oid))
	return nil
}

// notifyTestResults looks the patient up and queues the results email.
func notifyTestResults(ctx context.Context, test *models.Test) {
	patient, err := getPatientByID(ctx, test.Patient)
	if err != nil {
		log.Error().Err(err).Str("test", test.ID.Hex()).Msg("unable to notify test results")
		return
	}
	notification.SendTestResults(*patient, *test)
}

func reloadTest(ctx context.Context, oid primitive.ObjectID) (*models.Test, error) {
	test, err := findByID[models.Test](ctx, util.TestCollection, oid, util.TEST_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	test.Decorate(timeNow())
	return test, nil
}

func UpdateTest(ctx context.Context, id string, data map[string]interface{}) (*models.Test, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set, err := buildPatch(data, testFields)
	if err != nil {
		return nil, err
	}
	if err := validateTestSet(set); err != nil {
		return nil, err
	}
	if v, ok := set["patient"]; ok && v == nil {
		delete(set, "patient")
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	if err := applyTestUpdate(ctx, oid, set); err != nil {
		return nil, err
	}
	test, err := reloadTest(ctx, oid)
	if err != nil {
		return nil, err
	}
	if test.Status == models.TestCompleted && test.Results != "" {
		notifyTestResults(ctx, test)
	}
	return test, nil
}

// UpdateTestResults records results. The status defaults to completed and the patient is always notified.
func UpdateTestResults(ctx context.Context, id, results, status string) (*models.Test, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = models.TestCompleted
	}
	if !common.Contains(models.TestStatuses, status) {
		return nil, util.NewValidationError(util.INVALID_STATUS)
	}
	if err := applyTestUpdate(ctx, oid, bson.M{"results": results, "status": status}); err != nil {
		return nil, err
	}
	test, err := reloadTest(ctx, oid)
	if err != nil {
		return nil, err
	}
	notifyTestResults(ctx, test)
	return test, nil
}

func GetTest(ctx context.Context, id string) (*models.Test, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	test := &models.Test{}
	if !cacheGet(ctx, testKey(oid), test) {
		test, err = findByID[models.Test](ctx, util.TestCollection, oid, util.TEST_NOT_FOUND)
		if err != nil {
			return nil, err
		}
		cacheSet(ctx, testKey(oid), test)
	}
	one := []models.Test{*test}
	if err := populateTests(ctx, one); err != nil {
		return nil, err
	}
	test = &one[0]
	test.Decorate(timeNow())
	return test, nil
}

func DeleteTest(ctx context.Context, id string) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.TestCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete test", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.TEST_NOT_FOUND)
	}
	cacheDelete(ctx, testKey(oid))
	return nil
}

func ListTests(ctx context.Context, f TestFilter, page, limit int) (Page[models.Test], error) {
	filter := bson.M{}
	if f.Status != "" {
		if !common.Contains(models.TestStatuses, f.Status) {
			return Page[models.Test]{}, util.NewValidationError(util.INVALID_STATUS)
		}
		filter["status"] = f.Status
	}
	if f.Patient != "" {
		oid, err := common.ParseObjectID(f.Patient)
		if err != nil {
			return Page[models.Test]{}, err
		}
		filter["patient"] = oid
	}
	out, err := listPage[models.Test](ctx, util.TestCollection, filter, page, limit, bson.D{{Key: "scheduledDate", Value: -1}})
	if err != nil {
		return out, err
	}
	return out, populateTests(ctx, out.Items)
}

func ListPatientTests(ctx context.Context, patientID string, page, limit int) (Page[models.Test], error) {
	return ListTests(ctx, TestFilter{Patient: patientID}, page, limit)
}

// ListPendingTests returns scheduled and in-progress tests, oldest first.
func ListPendingTests(ctx context.Context) ([]models.Test, error) {
	items, err := db.FindAll[models.Test](ctx, db.OpenCollections(util.TestCollection),
		bson.M{"status": bson.M{"$in": bson.A{models.TestScheduled, models.TestInProgress}}},
		options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}}))
	if err != nil {
		return nil, internalError("unable to list pending tests", err)
	}
	return items, populateTests(ctx, items)
}

func ListOverdueTests(ctx context.Context) ([]models.Test, error) {
	items, err := db.FindAll[models.Test](ctx, db.OpenCollections(util.TestCollection),
		bson.M{"status": models.TestScheduled, "scheduledDate": bson.M{"$lt": timeNow()}},
		options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}}))
	if err != nil {
		return nil, internalError("unable to list overdue tests", err)
	}
	decorateTests(items)
	return items, nil
}
