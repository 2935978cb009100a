package services

import (
	"MediCare/models"
	"MediCare/util"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCreatePatient(t *testing.T) {
	mt := newMock(t)

	mt.Run("new patient", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt), mockSuccess())

		p, err := CreatePatient(context.Background(), map[string]interface{}{
			"name": "Asha Rao", "email": "ASHA@example.com", "phone": "9999", "gender": "female",
			"bloodGroup": "O+", "allergies": "penicillin, dust",
		})
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", p.Email)
		assert.Equal(t, []string{"penicillin", "dust"}, p.Allergies)
		assert.Equal(t, []string{}, p.MedicalHistory)
	})

	mt.Run("duplicate email or phone", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt, mockDoc(t, samplePatient())))

		_, err := CreatePatient(context.Background(), map[string]interface{}{
			"name": "Asha Rao", "email": "asha@example.com", "phone": "9999", "gender": "female",
		})
		require.Error(t, err)
		assert.Equal(t, util.PATIENT_ALREADY_EXISTS, err.Error())
	})

	mt.Run("bad blood group", func(mt *mtest.T) {
		useMock(mt)
		_, err := CreatePatient(context.Background(), map[string]interface{}{
			"name": "Asha Rao", "email": "asha@example.com", "phone": "9999", "gender": "female", "bloodGroup": "Z",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
	})
}

func TestGetPatient(t *testing.T) {
	mt := newMock(t)

	mt.Run("not found", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt))
		_, err := GetPatient(context.Background(), primitive.NewObjectID().Hex())
		assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		useMock(mt)
		_, err := GetPatient(context.Background(), "xyz")
		assert.Equal(t, util.INVALID_ID_FORMAT, err.Error())
	})
}

func TestGetPatientDashboard(t *testing.T) {
	mt := newMock(t)

	mt.Run("recent records", func(mt *mtest.T) {
		useMock(mt)
		patient := samplePatient()
		overdue := sampleTest(patient.ID, models.TestScheduled)
		report := models.Report{ID: primitive.NewObjectID(), PatientName: patient.Name}
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt),
			mockFound(mt, mockDoc(t, overdue)),
			mockFound(mt, mockDoc(t, report)),
		)

		dash, err := GetPatientDashboard(context.Background(), patient.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, patient.Name, dash.Patient.Name)
		assert.Empty(t, dash.RecentAppointments)
		require.Len(t, dash.RecentTests, 1)
		assert.True(t, dash.RecentTests[0].Overdue)
		assert.Len(t, dash.RecentReports, 1)
	})
}

func TestUpdatePatient_Empty(t *testing.T) {
	_, err := UpdatePatient(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"unknown": 1})
	require.Error(t, err)
	assert.Equal(t, util.NO_FIELDS_TO_UPDATE, err.Error())
}
