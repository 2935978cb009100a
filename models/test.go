package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TestScheduled  = "scheduled"
	TestInProgress = "in-progress"
	TestCompleted  = "completed"
	TestCancelled  = "cancelled"
	TestPending    = "pending"
)

var (
	TestStatuses   = []string{TestScheduled, TestInProgress, TestCompleted, TestCancelled, TestPending}
	SampleTypes    = []string{"blood", "urine", "tissue", "saliva", "other"}
	TestPriorities = []string{"routine", "urgent", "stat"}
)

const (
	DefaultSampleType = "blood"
	DefaultPriority   = "routine"
)

type Lab struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	Contact string `json:"contact,omitempty" bson:"contact,omitempty"`
}

type Test struct {
	ID                   primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Patient              primitive.ObjectID  `json:"patient" bson:"patient"`
	Technician           *primitive.ObjectID `json:"technician,omitempty" bson:"technician,omitempty"`
	TestName             string              `json:"testName" bson:"testName"`
	TestType             string              `json:"testType" bson:"testType"`
	Description          string              `json:"description" bson:"description"`
	ScheduledDate        time.Time           `json:"scheduledDate" bson:"scheduledDate"`
	Status               string              `json:"status" bson:"status"`
	Results              string              `json:"results" bson:"results"`
	Price                float64             `json:"price" bson:"price"`
	Lab                  *Lab                `json:"lab,omitempty" bson:"lab,omitempty"`
	SampleType           string              `json:"sampleType" bson:"sampleType"`
	SampleCollected      bool                `json:"sampleCollected" bson:"sampleCollected"`
	SampleCollectionDate *time.Time          `json:"sampleCollectionDate,omitempty" bson:"sampleCollectionDate,omitempty"`
	ReportReady          bool                `json:"reportReady" bson:"reportReady"`
	ReportDate           *time.Time          `json:"reportDate,omitempty" bson:"reportDate,omitempty"`
	NormalRange          string              `json:"normalRange,omitempty" bson:"normalRange,omitempty"`
	Units                string              `json:"units,omitempty" bson:"units,omitempty"`
	Notes                string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Priority             string              `json:"priority" bson:"priority"`
	RequestedBy          *primitive.ObjectID `json:"requestedBy,omitempty" bson:"requestedBy,omitempty"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt" bson:"updatedAt"`

	Overdue        bool            `json:"isOverdue" bson:"-"`
	PatientDetails *PatientSummary `json:"patientDetails,omitempty" bson:"-"`
}

func (t *Test) IsOverdue(now time.Time) bool {
	return t.Status == TestScheduled && t.ScheduledDate.Before(now)
}

// Decorate fills the read-time fields.
func (t *Test) Decorate(now time.Time) {
	t.Overdue = t.IsOverdue(now)
}
