package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationPreferences struct {
	Email bool `json:"email" bson:"email"`
	SMS   bool `json:"sms" bson:"sms"`
	Push  bool `json:"push" bson:"push"`
}

type Preferences struct {
	Notifications NotificationPreferences `json:"notifications" bson:"notifications"`
	Language      string                  `json:"language" bson:"language"`
	Theme         string                  `json:"theme" bson:"theme"`
	Timezone      string                  `json:"timezone" bson:"timezone"`
}

type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Role                 string             `json:"role" bson:"role"`
	Phone                string             `json:"phone" bson:"phone"`
	Avatar               string             `json:"avatar" bson:"avatar"`
	Department           string             `json:"department" bson:"department"`
	Specialization       string             `json:"specialization" bson:"specialization"`
	Experience           int                `json:"experience" bson:"experience"`
	Qualification        string             `json:"qualification" bson:"qualification"`
	Address              string             `json:"address" bson:"address"`
	City                 string             `json:"city" bson:"city"`
	State                string             `json:"state" bson:"state"`
	Pincode              string             `json:"pincode" bson:"pincode"`
	DateOfBirth          *time.Time         `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender               string             `json:"gender" bson:"gender"`
	BloodGroup           string             `json:"bloodGroup" bson:"bloodGroup"`
	EmployeeID           string             `json:"employeeId" bson:"employeeId"`
	Designation          string             `json:"designation" bson:"designation"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
	LastLogin            *time.Time         `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	PasswordChangedAt    *time.Time         `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"passwordResetExpires,omitempty"`
	Preferences          Preferences        `json:"preferences" bson:"preferences"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPreferences{Email: true, SMS: true, Push: true},
		Language:      "en",
		Theme:         "light",
		Timezone:      "Asia/Kolkata",
	}
}

/*
* A token is stale when it was issued before the last password change
* Both sides are compared in whole seconds
 */
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
