package jobs

import (
	"MediCare/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reminderCall struct {
	email  string
	doctor string
}

func stubReminders(t *testing.T, appts []models.Appointment, err error) *[]reminderCall {
	t.Helper()
	calls := []reminderCall{}
	origList, origSend := listTodaysAppointments, sendReminder
	listTodaysAppointments = func(context.Context) ([]models.Appointment, error) { return appts, err }
	sendReminder = func(p models.PatientSummary, _ models.Appointment, doctor string) {
		calls = append(calls, reminderCall{email: p.Email, doctor: doctor})
	}
	t.Cleanup(func() { listTodaysAppointments, sendReminder = origList, origSend })
	return &calls
}

func TestRunTodayScheduler_SendsForActiveAppointments(t *testing.T) {
	patient := &models.PatientSummary{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}
	doctor := &models.StaffSummary{ID: primitive.NewObjectID(), Name: "Dr. Rao"}
	appts := []models.Appointment{
		{ID: primitive.NewObjectID(), Status: models.AppointmentScheduled, PatientDetails: patient, DoctorDetails: doctor},
		{ID: primitive.NewObjectID(), Status: models.AppointmentConfirmed, PatientDetails: patient},
		{ID: primitive.NewObjectID(), Status: models.AppointmentCancelled, PatientDetails: patient},
		{ID: primitive.NewObjectID(), Status: models.AppointmentScheduled},
	}
	calls := stubReminders(t, appts, nil)

	sent := RunTodayScheduler()

	assert.Equal(t, 2, sent)
	require.Len(t, *calls, 2)
	assert.Equal(t, reminderCall{email: "asha@example.com", doctor: "Dr. Rao"}, (*calls)[0])
	assert.Equal(t, "", (*calls)[1].doctor)
}

func TestRunTodayScheduler_ListError(t *testing.T) {
	calls := stubReminders(t, nil, errors.New("db down"))
	assert.Equal(t, 0, RunTodayScheduler())
	assert.Empty(t, *calls)
}

func TestRunOverdueTestsCheck(t *testing.T) {
	orig := listOverdueTests
	t.Cleanup(func() { listOverdueTests = orig })

	listOverdueTests = func(context.Context) ([]models.Test, error) {
		return []models.Test{
			{ID: primitive.NewObjectID(), TestName: "CBC", ScheduledDate: time.Now().Add(-48 * time.Hour)},
		}, nil
	}
	assert.Equal(t, 1, RunOverdueTestsCheck())

	listOverdueTests = func(context.Context) ([]models.Test, error) { return nil, errors.New("boom") }
	assert.Equal(t, 0, RunOverdueTestsCheck())
}

func TestStartDailyScheduler(t *testing.T) {
	c, err := StartDailyScheduler()
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 2)
}
