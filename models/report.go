package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultReportStatus = "generated"

var ReportStatuses = []string{"draft", "generated", "reviewed", "approved", "archived"}

// Report names its patient and doctor by string, not by reference.
type Report struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientName     string             `json:"patientName" bson:"patientName"`
	DoctorName      string             `json:"doctorName" bson:"doctorName"`
	ReportType      string             `json:"reportType" bson:"reportType"`
	TestType        string             `json:"testType,omitempty" bson:"testType,omitempty"`
	Findings        string             `json:"findings" bson:"findings"`
	Diagnosis       string             `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Recommendations string             `json:"recommendations,omitempty" bson:"recommendations,omitempty"`
	Amount          string             `json:"amount" bson:"amount"`
	ReportDate      time.Time          `json:"reportDate" bson:"reportDate"`
	Status          string             `json:"status" bson:"status"`
	IsCritical      bool               `json:"isCritical" bson:"isCritical"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
