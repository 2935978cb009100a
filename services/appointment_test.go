package services

import (
	"MediCare/models"
	"MediCare/role"
	"MediCare/util"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func samplePatient() models.Patient {
	return models.Patient{
		ID:     primitive.NewObjectID(),
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Phone:  "9999",
		Gender: "female",
	}
}

func sampleDoctor(staffRole string) models.Staff {
	return models.Staff{
		ID:             primitive.NewObjectID(),
		Name:           "Dr. Mehta",
		Email:          "mehta@example.com",
		Role:           staffRole,
		Specialization: "Cardiology",
		Department:     "Cardiology",
		IsActive:       true,
	}
}

func appointmentInput(patient, doctor primitive.ObjectID) map[string]interface{} {
	return map[string]interface{}{
		"patient":         patient.Hex(),
		"doctor":          doctor.Hex(),
		"appointmentDate": "2025-06-12",
		"appointmentTime": "10:30",
		"reason":          "Chest pain",
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	_, err := CreateAppointment(context.Background(), map[string]interface{}{"patient": primitive.NewObjectID().Hex()}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	data := appointmentInput(primitive.NewObjectID(), primitive.NewObjectID())
	data["appointmentTime"] = "25:00"
	_, err = CreateAppointment(context.Background(), data, nil)
	require.Error(t, err)
	assert.Equal(t, util.INVALID_TIME, err.Error())
}

func TestCreateAppointment(t *testing.T) {
	mt := newMock(t)

	mt.Run("books a free slot", func(mt *mtest.T) {
		useMock(mt)
		mail := mockMail(mt.T)
		patient, doctor := samplePatient(), sampleDoctor(role.Doctor)
		requester := primitive.NewObjectID()
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt, mockDoc(t, doctor)),
			mockFound(mt),
			mockSuccess(),
		)

		appt, err := CreateAppointment(context.Background(), appointmentInput(patient.ID, doctor.ID), &requester)
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentScheduled, appt.Status)
		assert.Equal(t, "consultation", appt.Type)
		assert.Equal(t, models.DefaultAppointmentDuration, appt.Duration)
		assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local), appt.AppointmentDate)
		assert.Equal(t, &requester, appt.CreatedBy)
		require.NotNil(t, appt.DoctorDetails)
		assert.Equal(t, "Dr. Mehta", appt.DoctorDetails.Name)
		require.NotNil(t, appt.PatientDetails)
		assert.Equal(t, patient.Email, appt.PatientDetails.Email)

		notificationWait()
		calls := mail.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, patient.Email, calls[0].To)
		assert.Contains(t, calls[0].Body, "Dr. Mehta")
	})

	mt.Run("slot already held", func(mt *mtest.T) {
		useMock(mt)
		patient, doctor := samplePatient(), sampleDoctor(role.Doctor)
		held := models.Appointment{ID: primitive.NewObjectID(), Patient: primitive.NewObjectID(), Doctor: &doctor.ID, Status: models.AppointmentConfirmed}
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt, mockDoc(t, doctor)),
			mockFound(mt, mockDoc(t, held)),
		)

		_, err := CreateAppointment(context.Background(), appointmentInput(patient.ID, doctor.ID), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, util.StatusOf(err))
		assert.Equal(t, util.SLOT_ALREADY_BOOKED, err.Error())
	})

	mt.Run("lost race on the unique index", func(mt *mtest.T) {
		useMock(mt)
		patient, doctor := samplePatient(), sampleDoctor(role.Doctor)
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt, mockDoc(t, doctor)),
			mockFound(mt),
			mockDuplicate(),
		)

		_, err := CreateAppointment(context.Background(), appointmentInput(patient.ID, doctor.ID), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, util.StatusOf(err))
	})

	mt.Run("doctor must be clinical staff", func(mt *mtest.T) {
		useMock(mt)
		patient, clerk := samplePatient(), sampleDoctor(role.Receptionist)
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt, mockDoc(t, clerk)),
		)

		_, err := CreateAppointment(context.Background(), appointmentInput(patient.ID, clerk.ID), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
		assert.Equal(t, util.DOCTOR_NOT_FOUND, err.Error())
	})

	mt.Run("unknown patient", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt))

		_, err := CreateAppointment(context.Background(), appointmentInput(primitive.NewObjectID(), primitive.NewObjectID()), nil)
		require.Error(t, err)
		assert.Equal(t, util.PATIENT_NOT_FOUND, err.Error())
	})
}

func TestUpdateAppointment(t *testing.T) {
	mt := newMock(t)

	stored := func(status string) models.Appointment {
		return models.Appointment{
			ID:              primitive.NewObjectID(),
			Patient:         primitive.NewObjectID(),
			AppointmentDate: time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local),
			AppointmentTime: "10:30",
			Status:          status,
		}
	}

	mt.Run("completed is terminal", func(mt *mtest.T) {
		useMock(mt)
		current := stored(models.AppointmentCompleted)
		mt.AddMockResponses(mockFound(mt, mockDoc(t, current)))

		_, err := UpdateAppointment(context.Background(), current.ID.Hex(), map[string]interface{}{"status": "scheduled"})
		require.Error(t, err)
		assert.Equal(t, util.INVALID_STATUS_CHANGE, err.Error())
	})

	mt.Run("scheduled to confirmed", func(mt *mtest.T) {
		useMock(mt)
		current := stored(models.AppointmentScheduled)
		updated := current
		updated.Status = models.AppointmentConfirmed
		patient := models.PatientSummary{ID: current.Patient, Name: "Asha", Email: "asha@example.com"}
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, current)),
			mockModified(1),
			mockFound(mt, mockDoc(t, updated)),
			mockFound(mt, mockDoc(t, patient)),
		)

		appt, err := UpdateAppointment(context.Background(), current.ID.Hex(), map[string]interface{}{"status": "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentConfirmed, appt.Status)
		require.NotNil(t, appt.PatientDetails)
		assert.Equal(t, "Asha", appt.PatientDetails.Name)
	})

	mt.Run("missing appointment", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt))

		_, err := UpdateAppointment(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"notes": "x"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
	})

	mt.Run("empty patch", func(mt *mtest.T) {
		useMock(mt)
		_, err := UpdateAppointment(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"unknown": 1})
		require.Error(t, err)
		assert.Equal(t, util.NO_FIELDS_TO_UPDATE, err.Error())
	})
}

func TestDeleteAppointment(t *testing.T) {
	mt := newMock(t)

	mt.Run("not found", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockDeleted(0))
		err := DeleteAppointment(context.Background(), primitive.NewObjectID().Hex())
		assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
	})

	mt.Run("bad id", func(mt *mtest.T) {
		useMock(mt)
		err := DeleteAppointment(context.Background(), "123")
		assert.Equal(t, util.INVALID_ID_FORMAT, err.Error())
	})
}

func TestSlotTaken(t *testing.T) {
	mt := newMock(t)
	doctor := primitive.NewObjectID()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	mt.Run("only active bookings hold a slot", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt))

		taken, err := slotTaken(context.Background(), doctor, day, "09:00")
		require.NoError(t, err)
		assert.False(t, taken)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(t, doctor, filter.Lookup("doctor").ObjectID())
		assert.Equal(t, "09:00", filter.Lookup("appointmentTime").StringValue())
		statuses, err := filter.Lookup("status", "$in").Array().Values()
		require.NoError(t, err)
		var got []string
		for _, v := range statuses {
			got = append(got, v.StringValue())
		}
		assert.ElementsMatch(t, []string{models.AppointmentScheduled, models.AppointmentConfirmed}, got)
		assert.NotContains(t, got, models.AppointmentCancelled)
	})

	mt.Run("an active booking holds it", func(mt *mtest.T) {
		useMock(mt)
		held := models.Appointment{ID: primitive.NewObjectID(), Doctor: &doctor, Status: models.AppointmentScheduled}
		mt.AddMockResponses(mockFound(mt, mockDoc(t, held)))

		taken, err := slotTaken(context.Background(), doctor, day, "09:00")
		require.NoError(t, err)
		assert.True(t, taken)
	})
}

func TestBookAppointment(t *testing.T) {
	mt := newMock(t)

	mt.Run("new patient books without a doctor", func(mt *mtest.T) {
		useMock(mt)
		mail := mockMail(mt.T)
		mt.AddMockResponses(mockFound(mt), mockFound(mt), mockSuccess(), mockSuccess())

		appt, err := BookAppointment(context.Background(), map[string]interface{}{
			"patientName":     "Ravi Kumar",
			"patientEmail":    "Ravi@Example.com",
			"patientPhone":    "8888",
			"patientGender":   "male",
			"patientAge":      float64(40),
			"appointmentDate": "2025-06-15",
			"appointmentTime": "09:00",
			"reason":          "Fever",
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, appt.Doctor)
		assert.Nil(t, appt.CreatedBy)
		assert.Equal(t, models.AppointmentScheduled, appt.Status)
		require.NotNil(t, appt.PatientDetails)
		assert.Equal(t, "ravi@example.com", appt.PatientDetails.Email)

		notificationWait()
		require.Len(t, mail.Calls(), 1)
		assert.Contains(t, mail.Calls()[0].Body, "To be assigned")
	})

	mt.Run("existing patient is refreshed and the booker recorded", func(mt *mtest.T) {
		useMock(mt)
		mockMail(mt.T)
		patient := samplePatient()
		booker := primitive.NewObjectID()
		mt.AddMockResponses(mockFound(mt, mockDoc(t, patient)), mockModified(1), mockSuccess())

		appt, err := BookAppointment(context.Background(), map[string]interface{}{
			"patientName":       "Asha R",
			"patientEmail":      patient.Email,
			"patientPhone":      patient.Phone,
			"patientGender":     "female",
			"patientBloodGroup": "B+",
			"patientDOB":        "1990-04-02",
			"appointmentDate":   "2025-06-15",
			"appointmentTime":   "10:30",
			"reason":            "Checkup",
		}, &booker)
		require.NoError(t, err)
		assert.Equal(t, patient.ID, appt.Patient)
		assert.Equal(t, "Asha R", appt.PatientDetails.Name)
		require.NotNil(t, appt.User)
		assert.Equal(t, booker, *appt.User)
		assert.Equal(t, booker, *appt.CreatedBy)

		started := mt.GetAllStartedEvents()
		require.GreaterOrEqual(t, len(started), 2)
		assert.Equal(t, "update", started[1].CommandName)
		first, err := started[1].Command.Lookup("updates").Array().IndexErr(0)
		require.NoError(t, err)
		set := first.Value().Document().Lookup("u", "$set").Document()
		assert.Equal(t, "B+", set.Lookup("bloodGroup").StringValue())
		dob := set.Lookup("dateOfBirth").Time()
		assert.True(t, dob.Equal(time.Date(1990, 4, 2, 0, 0, 0, 0, time.Local)), dob)
	})

	mt.Run("missing contact details", func(mt *mtest.T) {
		useMock(mt)
		_, err := BookAppointment(context.Background(), map[string]interface{}{
			"patientName": "Ravi", "appointmentDate": "2025-06-15", "appointmentTime": "09:00", "reason": "Fever",
		}, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
	})
}

func TestAppointmentFilter(t *testing.T) {
	doctor := primitive.NewObjectID()
	filter, err := appointmentFilter(AppointmentFilter{Status: "confirmed", Date: "2025-06-12", Doctor: doctor.Hex()})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", filter["status"])
	assert.Equal(t, doctor, filter["doctor"])
	assert.Contains(t, filter, "appointmentDate")

	_, err = appointmentFilter(AppointmentFilter{Status: "lost"})
	assert.Error(t, err)
}
