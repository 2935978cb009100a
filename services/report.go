package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/util"
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var reportFields = map[string]fieldKind{
	"patientName":     stringField,
	"doctorName":      stringField,
	"reportType":      stringField,
	"testType":        stringField,
	"findings":        stringField,
	"diagnosis":       stringField,
	"recommendations": stringField,
	"amount":          rawField,
	"reportDate":      timestampField,
	"status":          stringField,
	"isCritical":      boolField,
}

type ReportFilter struct {
	PatientName string
	DoctorName  string
	ReportType  string
	Status      string
}

var reportSort = bson.D{{Key: "reportDate", Value: -1}, {Key: "createdAt", Value: -1}}

// amountString keeps the amount as text whether the form sent a number or a string.
func amountString(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int, int32, int64:
		return fmt.Sprint(v), nil
	}
	return "", util.NewValidationError("Invalid value for amount")
}

func validateReportSet(set bson.M) error {
	if v, ok := set["amount"]; ok {
		amount, err := amountString(v)
		if err != nil {
			return err
		}
		set["amount"] = amount
	}
	return enumField(set, "status", models.ReportStatuses, util.INVALID_STATUS)
}

func CreateReport(ctx context.Context, data map[string]interface{}) (*models.Report, error) {
	set, err := buildPatch(data, reportFields)
	if err != nil {
		return nil, err
	}
	if err := validateReportSet(set); err != nil {
		return nil, err
	}
	for _, key := range []string{"patientName", "doctorName", "reportType", "findings", "amount"} {
		if s, _ := set[key].(string); s == "" {
			return nil, util.NewValidationError(util.REPORT_FIELDS_REQUIRED)
		}
	}

	now := timeNow()
	report := &models.Report{
		ID:         primitive.NewObjectID(),
		Status:     models.DefaultReportStatus,
		ReportDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	report.PatientName, _ = set["patientName"].(string)
	report.DoctorName, _ = set["doctorName"].(string)
	report.ReportType, _ = set["reportType"].(string)
	report.TestType, _ = set["testType"].(string)
	report.Findings, _ = set["findings"].(string)
	report.Diagnosis, _ = set["diagnosis"].(string)
	report.Recommendations, _ = set["recommendations"].(string)
	report.Amount, _ = set["amount"].(string)
	report.IsCritical, _ = set["isCritical"].(bool)
	if rd, ok := set["reportDate"].(time.Time); ok {
		report.ReportDate = rd
	}
	if s, ok := set["status"].(string); ok && s != "" {
		report.Status = s
	}

	if _, err := db.CreateOne(ctx, db.OpenCollections(util.ReportCollection), report); err != nil {
		return nil, internalError("unable to insert report", err)
	}
	return report, nil
}

func GetReport(ctx context.Context, id string) (*models.Report, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return findByID[models.Report](ctx, util.ReportCollection, oid, util.REPORT_NOT_FOUND)
}

func UpdateReport(ctx context.Context, id string, data map[string]interface{}) (*models.Report, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set, err := buildPatch(data, reportFields)
	if err != nil {
		return nil, err
	}
	if err := validateReportSet(set); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	set["updatedAt"] = timeNow()
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.ReportCollection), bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, internalError("unable to update report", err)
	}
	if res.MatchedCount == 0 {
		return nil, util.NewNotFoundError(util.REPORT_NOT_FOUND)
	}
	return findByID[models.Report](ctx, util.ReportCollection, oid, util.REPORT_NOT_FOUND)
}

func DeleteReport(ctx context.Context, id string) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.ReportCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete report", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.REPORT_NOT_FOUND)
	}
	return nil
}

// ListReports matches names and type as case-insensitive substrings.
func ListReports(ctx context.Context, f ReportFilter, page, limit int) (Page[models.Report], error) {
	filter := bson.M{}
	if f.PatientName != "" {
		filter["patientName"] = common.ContainsFold(f.PatientName)
	}
	if f.DoctorName != "" {
		filter["doctorName"] = common.ContainsFold(f.DoctorName)
	}
	if f.ReportType != "" {
		filter["reportType"] = common.ContainsFold(f.ReportType)
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return listPage[models.Report](ctx, util.ReportCollection, filter, page, limit, reportSort)
}

func findReports(ctx context.Context, filter bson.M) ([]models.Report, error) {
	items, err := db.FindAll[models.Report](ctx, db.OpenCollections(util.ReportCollection), filter,
		options.Find().SetSort(reportSort))
	if err != nil {
		return nil, internalError("unable to list reports", err)
	}
	return items, nil
}

func ListReportsByPatient(ctx context.Context, name string) ([]models.Report, error) {
	return findReports(ctx, bson.M{"patientName": common.ContainsFold(name)})
}

func ListReportsByDoctor(ctx context.Context, name string) ([]models.Report, error) {
	return findReports(ctx, bson.M{"doctorName": common.ContainsFold(name)})
}

func ListCriticalReports(ctx context.Context) ([]models.Report, error) {
	return findReports(ctx, bson.M{"isCritical": true})
}
