package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangedPasswordAfter(t *testing.T) {
	changed := time.Date(2025, 3, 1, 10, 0, 0, 500_000_000, time.UTC)
	u := User{PasswordChangedAt: &changed}

	assert.True(t, u.ChangedPasswordAfter(changed.Add(-time.Second)))
	assert.False(t, u.ChangedPasswordAfter(changed.Truncate(time.Second)))
	assert.False(t, u.ChangedPasswordAfter(changed.Add(time.Second)))

	var fresh User
	assert.False(t, fresh.ChangedPasswordAfter(time.Unix(0, 0)))
}

func TestTestIsOverdue(t *testing.T) {
	now := time.Now()
	tt := Test{Status: TestScheduled, ScheduledDate: now.Add(-time.Hour)}
	assert.True(t, tt.IsOverdue(now))

	tt.Status = TestInProgress
	assert.False(t, tt.IsOverdue(now))

	tt = Test{Status: TestScheduled, ScheduledDate: now}
	assert.False(t, tt.IsOverdue(now))

	tt = Test{Status: TestScheduled, ScheduledDate: now.Add(-time.Minute)}
	tt.Decorate(now)
	assert.True(t, tt.Overdue)
}

func TestCanTransitionAppointment(t *testing.T) {
	assert.True(t, CanTransitionAppointment(AppointmentScheduled, AppointmentConfirmed))
	assert.True(t, CanTransitionAppointment(AppointmentConfirmed, AppointmentCompleted))
	assert.True(t, CanTransitionAppointment(AppointmentScheduled, AppointmentCancelled))
	assert.True(t, CanTransitionAppointment(AppointmentConfirmed, AppointmentCancelled))
	assert.True(t, CanTransitionAppointment(AppointmentCompleted, AppointmentCompleted))
	assert.False(t, CanTransitionAppointment(AppointmentCompleted, AppointmentScheduled))
	assert.False(t, CanTransitionAppointment(AppointmentCancelled, AppointmentConfirmed))
	assert.False(t, CanTransitionAppointment(AppointmentConfirmed, AppointmentScheduled))
	assert.False(t, CanTransitionAppointment(AppointmentScheduled, AppointmentCompleted))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("hospital-settings")
	assert.Equal(t, "hospital-settings", s.ID)
	assert.Equal(t, 30, s.AppointmentDuration)
	assert.Equal(t, "08:00", s.WorkingHours.Start)
	assert.Equal(t, float64(18), s.BillingSettings.TaxRate)
}
