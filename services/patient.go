package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/util"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var patientFields = map[string]fieldKind{
	"name":           stringField,
	"email":          stringField,
	"phone":          stringField,
	"gender":         stringField,
	"age":            intField,
	"dateOfBirth":    dateField,
	"address":        stringField,
	"bloodGroup":     stringField,
	"medicalHistory": stringListField,
	"allergies":      stringListField,
}

/*
* Build a patient from request fields
* Identity fields are checked by the caller
 */
func patientFromInput(data map[string]interface{}) (*models.Patient, error) {
	set, err := buildPatch(data, patientFields)
	if err != nil {
		return nil, err
	}
	if err := enumField(set, "bloodGroup", models.BloodGroups, "Invalid blood group"); err != nil {
		return nil, err
	}
	now := timeNow()
	p := &models.Patient{
		ID:             primitive.NewObjectID(),
		Email:          common.NormalizeEmail(common.StringField(data, "email")),
		MedicalHistory: []string{},
		Allergies:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.Name, _ = set["name"].(string)
	p.Phone, _ = set["phone"].(string)
	p.Gender, _ = set["gender"].(string)
	p.Age, _ = set["age"].(int)
	p.Address, _ = set["address"].(string)
	p.BloodGroup, _ = set["bloodGroup"].(string)
	if dob, ok := set["dateOfBirth"].(time.Time); ok {
		p.DateOfBirth = &dob
	}
	if v, ok := set["medicalHistory"].([]string); ok {
		p.MedicalHistory = v
	}
	if v, ok := set["allergies"].([]string); ok {
		p.Allergies = v
	}
	return p, nil
}

func patientKey(id primitive.ObjectID) string {
	return util.PatientKey + id.Hex()
}

func findDuplicatePatient(ctx context.Context, email, phone string, exclude *primitive.ObjectID) (*models.Patient, error) {
	or := bson.A{}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if len(or) == 0 {
		return nil, nil
	}
	filter := bson.M{"$or": or}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	existing := &models.Patient{}
	err := db.FindOne(ctx, db.OpenCollections(util.PatientCollection), filter, existing)
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, internalError("unable to check duplicate patient", err)
	}
	return existing, nil
}

/*
* Require name, email, phone and gender
* Reject a patient whose email or phone is already on file
 */
func CreatePatient(ctx context.Context, data map[string]interface{}) (*models.Patient, error) {
	if err := common.RequireFields(data, "name", "email", "phone", "gender"); err != nil {
		return nil, err
	}
	patient, err := patientFromInput(data)
	if err != nil {
		return nil, err
	}
	dup, err := findDuplicatePatient(ctx, patient.Email, patient.Phone, nil)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		log.Warn().Str("email", patient.Email).Msg("duplicate patient")
		return nil, util.NewConflictError(util.PATIENT_ALREADY_EXISTS)
	}
	if _, err := db.CreateOne(ctx, db.OpenCollections(util.PatientCollection), patient); err != nil {
		return nil, internalError("unable to insert patient", err)
	}
	return patient, nil
}

/*
* Fetch from cache first
* Fall back to mongo and fill the cache
 */
func GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return getPatientByID(ctx, oid)
}

func getPatientByID(ctx context.Context, oid primitive.ObjectID) (*models.Patient, error) {
	cached := &models.Patient{}
	if cacheGet(ctx, patientKey(oid), cached) {
		return cached, nil
	}
	patient, err := findByID[models.Patient](ctx, util.PatientCollection, oid, util.PATIENT_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, patientKey(oid), patient)
	return patient, nil
}

func ListPatients(ctx context.Context, search string, page, limit int) (Page[models.Patient], error) {
	filter := bson.M{}
	if search != "" {
		rx := common.ContainsFold(search)
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
			bson.M{"phone": rx},
		}
	}
	return listPage[models.Patient](ctx, util.PatientCollection, filter, page, limit, bson.D{{Key: "createdAt", Value: -1}})
}

func UpdatePatient(ctx context.Context, id string, data map[string]interface{}) (*models.Patient, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set, err := buildPatch(data, patientFields)
	if err != nil {
		return nil, err
	}
	if err := enumField(set, "bloodGroup", models.BloodGroups, "Invalid blood group"); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	if email, ok := set["email"].(string); ok {
		set["email"] = common.NormalizeEmail(email)
	}
	email, _ := set["email"].(string)
	phone, _ := set["phone"].(string)
	dup, err := findDuplicatePatient(ctx, email, phone, &oid)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, util.NewConflictError(util.PATIENT_ALREADY_EXISTS)
	}
	set["updatedAt"] = timeNow()
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.PatientCollection), bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, internalError("unable to update patient", err)
	}
	if res.MatchedCount == 0 {
		return nil, util.NewNotFoundError(util.PATIENT_NOT_FOUND)
	}
	cacheDelete(ctx, patientKey(oid))
	return findByID[models.Patient](ctx, util.PatientCollection, oid, util.PATIENT_NOT_FOUND)
}

func DeletePatient(ctx context.Context, id string) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.PatientCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete patient", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.PATIENT_NOT_FOUND)
	}
	cacheDelete(ctx, patientKey(oid))
	return nil
}

type PatientDashboard struct {
	Patient            *models.Patient      `json:"patient"`
	RecentAppointments []models.Appointment `json:"recentAppointments"`
	RecentTests        []models.Test        `json:"recentTests"`
	RecentReports      []models.Report      `json:"recentReports"`
}

/*
* Load the patient and the latest five of each record concurrently
* Reports are matched by patient name
 */
func GetPatientDashboard(ctx context.Context, id string) (*PatientDashboard, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	patient, err := getPatientByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	out := &PatientDashboard{Patient: patient}
	recent := func(sortKey string) *options.FindOptions {
		return options.Find().SetSort(bson.D{{Key: sortKey, Value: -1}}).SetLimit(5)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	g.Go(func() error {
		items, err := db.FindAll[models.Appointment](gctx, db.OpenCollections(util.AppointmentCollection), bson.M{"patient": oid}, recent("appointmentDate"))
		out.RecentAppointments = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Test](gctx, db.OpenCollections(util.TestCollection), bson.M{"patient": oid}, recent("scheduledDate"))
		out.RecentTests = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Report](gctx, db.OpenCollections(util.ReportCollection), bson.M{"patientName": patient.Name}, recent("reportDate"))
		out.RecentReports = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("unable to load patient dashboard", err)
	}
	decorateTests(out.RecentTests)
	return out, nil
}

/*
* Public booking looks a patient up by email or phone
* A known patient gets its contact details refreshed
 */
func findOrCreatePatient(ctx context.Context, data map[string]interface{}) (*models.Patient, error) {
	email := common.NormalizeEmail(common.StringField(data, "email"))
	phone := common.StringField(data, "phone")
	existing, err := findDuplicatePatient(ctx, email, phone, nil)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if common.StringField(data, "gender") == "" {
			data["gender"] = "other"
		}
		return CreatePatient(ctx, data)
	}

	set, err := buildPatch(data, map[string]fieldKind{
		"name":        stringField,
		"phone":       stringField,
		"age":         intField,
		"gender":      stringField,
		"address":     stringField,
		"bloodGroup":  stringField,
		"dateOfBirth": dateField,
	})
	if err != nil {
		return nil, err
	}
	if err := enumField(set, "bloodGroup", models.BloodGroups, "Invalid blood group"); err != nil {
		return nil, err
	}
	for k, v := range set {
		if s, ok := v.(string); ok && s == "" {
			delete(set, k)
		}
	}
	if email != "" {
		set["email"] = email
	}
	if len(set) > 0 {
		set["updatedAt"] = timeNow()
		if _, err := db.UpdateOne(ctx, db.OpenCollections(util.PatientCollection), bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
			return nil, internalError("unable to refresh patient details", err)
		}
		cacheDelete(ctx, patientKey(existing.ID))
		applyPatientRefresh(existing, set)
	}
	return existing, nil
}

func applyPatientRefresh(p *models.Patient, set bson.M) {
	if v, ok := set["name"].(string); ok {
		p.Name = v
	}
	if v, ok := set["email"].(string); ok {
		p.Email = v
	}
	if v, ok := set["phone"].(string); ok {
		p.Phone = v
	}
	if v, ok := set["age"].(int); ok {
		p.Age = v
	}
	if v, ok := set["gender"].(string); ok {
		p.Gender = v
	}
	if v, ok := set["address"].(string); ok {
		p.Address = v
	}
	if v, ok := set["bloodGroup"].(string); ok {
		p.BloodGroup = v
	}
	if v, ok := set["dateOfBirth"].(time.Time); ok {
		p.DateOfBirth = &v
	}
}

/*
* Count and page through a collection
* Both queries use the same filter
 */
func listPage[T any](ctx context.Context, collection string, filter bson.M, page, limit int, sort bson.D) (Page[T], error) {
	coll := db.OpenCollections(collection)
	items, err := db.FindAll[T](ctx, coll, filter, common.PageOptions(page, limit, sort))
	if err != nil {
		return Page[T]{}, internalError("unable to list "+collection, err)
	}
	total, err := db.Count(ctx, coll, filter)
	if err != nil {
		return Page[T]{}, internalError("unable to count "+collection, err)
	}
	return newPage(items, total, page, limit), nil
}

type PatientHistory struct {
	Appointments []models.Appointment `json:"appointments"`
	Tests        []models.Test        `json:"tests"`
	Reports      []models.Report      `json:"reports"`
}

// GetPatientHistory returns the full record of a patient, newest first.
func GetPatientHistory(ctx context.Context, id string) (*PatientHistory, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	patient, err := getPatientByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	out := &PatientHistory{}
	newest := func(key string) *options.FindOptions {
		return options.Find().SetSort(bson.D{{Key: key, Value: -1}})
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	g.Go(func() error {
		items, err := db.FindAll[models.Appointment](gctx, db.OpenCollections(util.AppointmentCollection), bson.M{"patient": oid}, newest("appointmentDate"))
		out.Appointments = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Test](gctx, db.OpenCollections(util.TestCollection), bson.M{"patient": oid}, newest("scheduledDate"))
		out.Tests = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Report](gctx, db.OpenCollections(util.ReportCollection), bson.M{"patientName": patient.Name}, newest("reportDate"))
		out.Reports = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("unable to load patient history", err)
	}
	decorateTests(out.Tests)
	return out, nil
}
