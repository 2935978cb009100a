package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

var (
	AppointmentStatuses = []string{AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled}
	AppointmentTypes    = []string{"consultation", "follow-up", "checkup", "emergency", "surgery"}

	// ActiveAppointmentStatuses hold a doctor's slot.
	ActiveAppointmentStatuses = []string{AppointmentScheduled, AppointmentConfirmed}
)

const DefaultAppointmentDuration = 30

type Appointment struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Patient         primitive.ObjectID  `json:"patient" bson:"patient"`
	Doctor          *primitive.ObjectID `json:"doctor" bson:"doctor"`
	AppointmentDate time.Time           `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime string              `json:"appointmentTime" bson:"appointmentTime"`
	Reason          string              `json:"reason" bson:"reason"`
	Type            string              `json:"type" bson:"type"`
	Duration        int                 `json:"duration" bson:"duration"`
	Status          string              `json:"status" bson:"status"`
	Notes           string              `json:"notes" bson:"notes"`
	User            *primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	CreatedBy       *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`

	PatientDetails *PatientSummary `json:"patientDetails,omitempty" bson:"-"`
	DoctorDetails  *StaffSummary   `json:"doctorDetails,omitempty" bson:"-"`
}

var appointmentTransitions = map[string][]string{
	AppointmentScheduled: {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

/*
* Same status is always allowed
* completed and cancelled are terminal
 */
func CanTransitionAppointment(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
