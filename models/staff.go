package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	Shifts   = []string{"morning", "evening", "night", "general"}
)

type AvailableSlot struct {
	Day        string `json:"day" bson:"day"`
	StartTime  string `json:"startTime" bson:"startTime"`
	EndTime    string `json:"endTime" bson:"endTime"`
	BreakStart string `json:"breakStart,omitempty" bson:"breakStart,omitempty"`
	BreakEnd   string `json:"breakEnd,omitempty" bson:"breakEnd,omitempty"`
}

type StaffAddress struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Relation string `json:"relation,omitempty" bson:"relation,omitempty"`
}

type Staff struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	User             *primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	Name             string              `json:"name" bson:"name"`
	Email            string              `json:"email" bson:"email"`
	Phone            string              `json:"phone" bson:"phone"`
	Role             string              `json:"role" bson:"role"`
	Specialization   string              `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Department       string              `json:"department" bson:"department"`
	Qualification    interface{}         `json:"qualification,omitempty" bson:"qualification,omitempty"`
	Experience       int                 `json:"experience" bson:"experience"`
	LicenseNumber    string              `json:"licenseNumber,omitempty" bson:"licenseNumber,omitempty"`
	Address          *StaffAddress       `json:"address,omitempty" bson:"address,omitempty"`
	DateOfBirth      *time.Time          `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	DateOfJoining    time.Time           `json:"dateOfJoining" bson:"dateOfJoining"`
	Salary           float64             `json:"salary,omitempty" bson:"salary,omitempty"`
	Shift            string              `json:"shift" bson:"shift"`
	AvailableSlots   []AvailableSlot     `json:"availableSlots" bson:"availableSlots"`
	IsActive         bool                `json:"isActive" bson:"isActive"`
	EmergencyContact *EmergencyContact   `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type StaffSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Role           string             `json:"role" bson:"role"`
	Specialization string             `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Department     string             `json:"department" bson:"department"`
}
