package services

import (
	"MediCare/config/redis"
	"MediCare/models"
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func useRedisMock(t *testing.T) redismock.ClientMock {
	rdb, mock := redismock.NewClientMock()
	redis.SetClient(rdb)
	t.Cleanup(func() { redis.SetClient(nil) })
	return mock
}

func cachedJSON(t *testing.T, v interface{}) string {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestGetAppointment_CachedEntryGetsFreshDetails(t *testing.T) {
	mt := newMock(t)

	mt.Run("renamed patient", func(mt *mtest.T) {
		useMock(mt)
		cache := useRedisMock(mt.T)
		patientID := primitive.NewObjectID()
		appt := models.Appointment{
			ID:              primitive.NewObjectID(),
			Patient:         patientID,
			AppointmentDate: fixedNow,
			AppointmentTime: "09:00",
			Status:          models.AppointmentScheduled,
			PatientDetails:  &models.PatientSummary{ID: patientID, Name: "Old Name"},
		}
		cache.ExpectGet(appointmentKey(appt.ID)).SetVal(cachedJSON(t, appt))
		mt.AddMockResponses(mockFound(mt, bson.D{
			{Key: "_id", Value: patientID},
			{Key: "name", Value: "New Name"},
		}))

		got, err := GetAppointment(context.Background(), appt.ID.Hex())
		require.NoError(t, err)
		require.NotNil(t, got.PatientDetails)
		assert.Equal(t, "New Name", got.PatientDetails.Name)
		assert.NoError(t, cache.ExpectationsWereMet())
	})
}

func TestGetTest_CachedEntryGetsFreshDetails(t *testing.T) {
	mt := newMock(t)

	mt.Run("renamed patient", func(mt *mtest.T) {
		useMock(mt)
		cache := useRedisMock(mt.T)
		patientID := primitive.NewObjectID()
		test := models.Test{
			ID:             primitive.NewObjectID(),
			Patient:        patientID,
			TestName:       "CBC",
			Status:         models.TestScheduled,
			ScheduledDate:  fixedNow.AddDate(0, 0, -1),
			PatientDetails: &models.PatientSummary{ID: patientID, Name: "Old Name"},
		}
		cache.ExpectGet(testKey(test.ID)).SetVal(cachedJSON(t, test))
		mt.AddMockResponses(mockFound(mt, bson.D{
			{Key: "_id", Value: patientID},
			{Key: "name", Value: "New Name"},
		}))

		got, err := GetTest(context.Background(), test.ID.Hex())
		require.NoError(t, err)
		require.NotNil(t, got.PatientDetails)
		assert.Equal(t, "New Name", got.PatientDetails.Name)
		assert.True(t, got.Overdue)
		assert.NoError(t, cache.ExpectationsWereMet())
	})
}
