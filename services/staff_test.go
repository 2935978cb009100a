package services

import (
	"MediCare/models"
	"MediCare/role"
	"MediCare/util"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func staffInput() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Dr. Mehta",
		"email":          "Mehta@Example.com",
		"phone":          "7777",
		"role":           "doctor",
		"department":     "Cardiology",
		"specialization": "Cardiology",
		"licenseNumber":  "LIC-1",
		"address":        map[string]interface{}{"city": "Madurai"},
		"availableSlots": []interface{}{
			map[string]interface{}{"day": "Monday", "startTime": "09:00", "endTime": "13:00"},
		},
	}
}

func TestParseSlots(t *testing.T) {
	slots, err := parseSlots([]interface{}{
		map[string]interface{}{"day": "Friday", "startTime": "10:00", "endTime": "12:00", "breakStart": "11:00", "breakEnd": "11:15"},
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "friday", slots[0].Day)
	assert.Equal(t, "11:15", slots[0].BreakEnd)

	_, err = parseSlots([]interface{}{map[string]interface{}{"day": "sunday"}})
	assert.Error(t, err)

	_, err = parseSlots([]interface{}{map[string]interface{}{"day": "Funday"}})
	assert.Error(t, err)

	_, err = parseSlots([]interface{}{map[string]interface{}{"day": "Monday", "startTime": "9am"}})
	assert.Error(t, err)

	_, err = parseSlots("Monday")
	assert.Error(t, err)

	empty, err := parseSlots(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateStaff(t *testing.T) {
	mt := newMock(t)

	mt.Run("normalizes nested input", func(mt *mtest.T) {
		useMock(mt)
		mt.AddMockResponses(mockFound(mt), mockFound(mt), mockSuccess())

		staff, err := CreateStaff(context.Background(), staffInput())
		require.NoError(t, err)
		assert.Equal(t, "mehta@example.com", staff.Email)
		assert.Equal(t, "general", staff.Shift)
		assert.True(t, staff.IsActive)
		require.NotNil(t, staff.Address)
		assert.Equal(t, "Madurai", staff.Address.City)
		require.Len(t, staff.AvailableSlots, 1)
		assert.Equal(t, "monday", staff.AvailableSlots[0].Day)
	})

	mt.Run("doctor needs a specialization", func(mt *mtest.T) {
		useMock(mt)
		data := staffInput()
		delete(data, "specialization")
		_, err := CreateStaff(context.Background(), data)
		require.Error(t, err)
		assert.Equal(t, util.SPECIALIZATION_NEEDED, err.Error())
	})

	mt.Run("email or phone taken", func(mt *mtest.T) {
		useMock(mt)
		existing := sampleDoctor(role.Doctor)
		mt.AddMockResponses(mockFound(mt, mockDoc(t, existing)))
		_, err := CreateStaff(context.Background(), staffInput())
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
		assert.Equal(t, util.STAFF_ALREADY_EXISTS, err.Error())
	})

	mt.Run("license taken", func(mt *mtest.T) {
		useMock(mt)
		existing := sampleDoctor(role.Doctor)
		mt.AddMockResponses(mockFound(mt), mockFound(mt, mockDoc(t, existing)))
		_, err := CreateStaff(context.Background(), staffInput())
		require.Error(t, err)
		assert.Equal(t, util.LICENSE_ALREADY_EXISTS, err.Error())
	})

	mt.Run("unknown role", func(mt *mtest.T) {
		useMock(mt)
		data := staffInput()
		data["role"] = "wizard"
		_, err := CreateStaff(context.Background(), data)
		require.Error(t, err)
		assert.Equal(t, util.INVALID_ROLE, err.Error())
	})
}

func TestUpdateStaff_DoctorRuleUsesStoredState(t *testing.T) {
	mt := newMock(t)

	mt.Run("clearing the specialization of a doctor", func(mt *mtest.T) {
		useMock(mt)
		current := sampleDoctor(role.Doctor)
		mt.AddMockResponses(mockFound(mt, mockDoc(t, current)))

		_, err := UpdateStaff(context.Background(), current.ID.Hex(), map[string]interface{}{"specialization": ""})
		require.Error(t, err)
		assert.Equal(t, util.SPECIALIZATION_NEEDED, err.Error())
	})
}

func TestGetStaffDashboard(t *testing.T) {
	mt := newMock(t)

	mt.Run("today and upcoming", func(mt *mtest.T) {
		useMock(mt)
		doctor := sampleDoctor(role.Doctor)
		today := models.Appointment{ID: primitive.NewObjectID(), Doctor: &doctor.ID, AppointmentTime: "10:00", Status: models.AppointmentScheduled}
		mt.AddMockResponses(
			mockFound(mt, mockDoc(t, doctor)),
			mockFound(mt, mockDoc(t, today)),
			mockFound(mt),
		)
		dash, err := GetStaffDashboard(context.Background(), doctor.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, doctor.Name, dash.Staff.Name)
		assert.Len(t, dash.TodayAppointments, 1)
		assert.Empty(t, dash.UpcomingAppointments)
	})
}

func TestListStaffByRole_RejectsUnknownRole(t *testing.T) {
	_, err := ListStaffByRole(context.Background(), "wizard", "")
	require.Error(t, err)
	assert.Equal(t, util.INVALID_ROLE, err.Error())
}
