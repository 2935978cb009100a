package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var BloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-", ""}

type Patient struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	User           *primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	Name           string              `json:"name" bson:"name"`
	Email          string              `json:"email" bson:"email"`
	Phone          string              `json:"phone" bson:"phone"`
	Gender         string              `json:"gender" bson:"gender"`
	Age            int                 `json:"age,omitempty" bson:"age,omitempty"`
	DateOfBirth    *time.Time          `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Address        string              `json:"address,omitempty" bson:"address,omitempty"`
	BloodGroup     string              `json:"bloodGroup,omitempty" bson:"bloodGroup,omitempty"`
	MedicalHistory []string            `json:"medicalHistory" bson:"medicalHistory"`
	Allergies      []string            `json:"allergies" bson:"allergies"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// PatientSummary is the slice of a patient attached to appointments and tests.
type PatientSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Phone string             `json:"phone" bson:"phone"`
}
