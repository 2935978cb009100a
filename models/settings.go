package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkingHours struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

type LabSettings struct {
	ReportValidity      int  `json:"reportValidity" bson:"reportValidity"`
	CriticalResultAlert bool `json:"criticalResultAlert" bson:"criticalResultAlert"`
	AutoGenerateReports bool `json:"autoGenerateReports" bson:"autoGenerateReports"`
}

type BillingSettings struct {
	TaxRate             float64  `json:"taxRate" bson:"taxRate"`
	DiscountEligibility bool     `json:"discountEligibility" bson:"discountEligibility"`
	PaymentModes        []string `json:"paymentModes" bson:"paymentModes"`
}

// Settings is stored once under a fixed _id.
type Settings struct {
	ID                    string              `json:"id" bson:"_id"`
	HospitalName          string              `json:"hospitalName" bson:"hospitalName"`
	HospitalEmail         string              `json:"hospitalEmail" bson:"hospitalEmail"`
	HospitalPhone         string              `json:"hospitalPhone" bson:"hospitalPhone"`
	HospitalAddress       string              `json:"hospitalAddress" bson:"hospitalAddress"`
	AppointmentDuration   int                 `json:"appointmentDuration" bson:"appointmentDuration"`
	WorkingHours          WorkingHours        `json:"workingHours" bson:"workingHours"`
	SMSNotifications      bool                `json:"smsNotifications" bson:"smsNotifications"`
	EmailNotifications    bool                `json:"emailNotifications" bson:"emailNotifications"`
	AutoBackup            bool                `json:"autoBackup" bson:"autoBackup"`
	BackupFrequency       string              `json:"backupFrequency" bson:"backupFrequency"`
	Currency              string              `json:"currency" bson:"currency"`
	Timezone              string              `json:"timezone" bson:"timezone"`
	DateFormat            string              `json:"dateFormat" bson:"dateFormat"`
	MaxAppointmentsPerDay int                 `json:"maxAppointmentsPerDay" bson:"maxAppointmentsPerDay"`
	EmergencyContact      string              `json:"emergencyContact" bson:"emergencyContact"`
	LabSettings           LabSettings         `json:"labSettings" bson:"labSettings"`
	BillingSettings       BillingSettings     `json:"billingSettings" bson:"billingSettings"`
	LastUpdated           time.Time           `json:"lastUpdated" bson:"lastUpdated"`
	UpdatedBy             *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt             time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt" bson:"updatedAt"`
}

var (
	BackupFrequencies = []string{"daily", "weekly", "monthly"}
	Currencies        = []string{"INR", "USD", "EUR"}
	DateFormats       = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
	PaymentModes      = []string{"cash", "card", "upi", "netbanking"}
)

func DefaultSettings(id string) Settings {
	return Settings{
		ID:                    id,
		HospitalName:          "Advanced Lab Diagnostic Center",
		HospitalEmail:         "info@advancedlab.com",
		HospitalPhone:         "+91-6381095854",
		HospitalAddress:       "Madurai Rd, kadaiyanallur, Tamilnadu-627751",
		AppointmentDuration:   30,
		WorkingHours:          WorkingHours{Start: "08:00", End: "20:00"},
		SMSNotifications:      true,
		EmailNotifications:    true,
		AutoBackup:            true,
		BackupFrequency:       "daily",
		Currency:              "INR",
		Timezone:              "Asia/Kolkata",
		DateFormat:            "DD/MM/YYYY",
		MaxAppointmentsPerDay: 100,
		EmergencyContact:      "6381095854",
		LabSettings:           LabSettings{ReportValidity: 30, CriticalResultAlert: true},
		BillingSettings:       BillingSettings{TaxRate: 18, DiscountEligibility: true, PaymentModes: []string{}},
	}
}
