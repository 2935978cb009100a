package services

import (
	"MediCare/models"
	"MediCare/util"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGetAdminDashboard(t *testing.T) {
	mt := newMock(t)

	mt.Run("counts and revenue", func(mt *mtest.T) {
		useMock(mt)
		patient := samplePatient()
		mt.AddMockResponses(
			mockCount(mt, 12),
			mockCount(mt, 5),
			mockCount(mt, 40),
			mockCount(mt, 3),
			mockCount(mt, 7),
			mockCount(mt, 20),
			mockFound(mt, bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: 12500.5}}),
			mockFound(mt),
			mockFound(mt, mockDoc(t, patient)),
			mockFound(mt),
		)

		dash, err := GetAdminDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DashboardStats{
			TotalPatients:     12,
			TotalStaff:        5,
			TotalAppointments: 40,
			TodayAppointments: 3,
			PendingTests:      7,
			CompletedTests:    20,
			TotalRevenue:      12500.5,
		}, dash.Stats)
		require.Len(t, dash.RecentPatients, 1)
		assert.Empty(t, dash.RecentAppointments)

		started := mt.GetAllStartedEvents()
		require.GreaterOrEqual(t, len(started), 6)
		pending, err := started[4].Command.Lookup("pipeline").Array().IndexErr(0)
		require.NoError(t, err)
		status := pending.Value().Document().Lookup("$match", "status")
		assert.Equal(t, models.TestPending, status.StringValue())
	})

	mt.Run("a failed count fails the dashboard", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom"}))

		_, err := GetAdminDashboard(context.Background())
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, util.StatusOf(err))
	})
}

func TestTodayWindow(t *testing.T) {
	w := todayWindow(fixedNow)
	start := w["$gte"].(time.Time)
	end := w["$lte"].(time.Time)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 6, 10, 23, 59, 59, int(999*time.Millisecond), time.Local), end)
}

func TestMonthsBack(t *testing.T) {
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local), monthsBack(fixedNow, 12))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), monthsBack(fixedNow, 1))
	assert.Equal(t, 12, clampMonths(0))
	assert.Equal(t, 60, clampMonths(100))
	assert.Equal(t, 6, clampMonths(6))
}

func TestMonthlyRevenue(t *testing.T) {
	mt := newMock(t)

	mt.Run("decodes rows", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt,
			bson.D{{Key: "year", Value: int32(2025)}, {Key: "month", Value: int32(5)}, {Key: "count", Value: int64(4)}, {Key: "revenue", Value: 3200.0}},
		))
		rows, err := MonthlyRevenue(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, []MonthlyStat{{Year: 2025, Month: 5, Count: 4, Revenue: 3200}}, rows)
	})
}

func TestSetUserActive(t *testing.T) {
	mt := newMock(t)
	admin := primitive.NewObjectID()

	mt.Run("cannot deactivate self", func(mt *mtest.T) {
		useMock(mt)
		_, err := SetUserActive(context.Background(), admin.Hex(), false, admin)
		require.Error(t, err)
		assert.Equal(t, util.CANNOT_CHANGE_SELF, err.Error())
	})

	mt.Run("deactivates another user", func(mt *mtest.T) {
		useMock(mt)
		user := models.User{ID: primitive.NewObjectID(), Email: "x@example.com", IsActive: false}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: mockDoc(t, user)}))

		out, err := SetUserActive(context.Background(), user.ID.Hex(), false, admin)
		require.NoError(t, err)
		assert.False(t, out.IsActive)
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := SetUserActive(context.Background(), primitive.NewObjectID().Hex(), true, admin)
		assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
	})
}

func TestDeleteUser(t *testing.T) {
	mt := newMock(t)
	admin := primitive.NewObjectID()

	mt.Run("cannot delete self", func(mt *mtest.T) {
		useMock(mt)
		err := DeleteUser(context.Background(), admin.Hex(), admin)
		assert.Equal(t, util.CANNOT_CHANGE_SELF, err.Error())
	})

	mt.Run("detaches profiles", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockDeleted(1), mockModified(1), mockModified(0))
		require.NoError(t, DeleteUser(context.Background(), primitive.NewObjectID().Hex(), admin))
	})
}
