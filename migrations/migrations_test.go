package migrations

import (
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSlotIndex(t *testing.T) {
	idx := slotIndex()
	keys, ok := idx.Keys.(bson.D)
	require.True(t, ok)
	assert.Equal(t, []string{"doctor", "appointmentDate", "appointmentTime"},
		[]string{keys[0].Key, keys[1].Key, keys[2].Key})

	require.NotNil(t, idx.Options)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, "uniq_doctor_slot", *idx.Options.Name)

	filter, ok := idx.Options.PartialFilterExpression.(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$type": "objectId"}, filter["doctor"])
	assert.Equal(t, bson.M{"$in": models.ActiveAppointmentStatuses}, filter["status"])
}

func TestIndexPlan_UniqueEmails(t *testing.T) {
	plan := indexPlan()
	for _, coll := range []string{util.UserCollection, util.StaffCollection} {
		first := plan[coll][0]
		require.NotNil(t, first.Options, coll)
		assert.True(t, *first.Options.Unique, coll)
	}
	assert.Len(t, plan, 6)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	saved := All
	t.Cleanup(func() { All = saved })

	var ran []string
	step := func(name string, err error) Migration {
		return Migration{Name: name, Up: func(ctx context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}
	boom := errors.New("boom")
	All = []Migration{step("a", nil), step("b", boom), step("c", nil)}

	assert.ErrorIs(t, Run(context.Background()), boom)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestBackfillUserActive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("applied", func(mt *mtest.T) {
		db.DB = mt.DB
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 3},
		))
		require.NoError(mt, BackfillUserActive(context.Background()))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("error", func(mt *mtest.T) {
		db.DB = mt.DB
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))
		assert.Error(mt, BackfillUserActive(context.Background()))
	})
}
