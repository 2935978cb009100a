package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type sample struct {
	Name string `bson:"name"`
}

func TestFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.samples", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "a"}},
			bson.D{{Key: "name", Value: "b"}},
		))
		out, err := FindAll[sample](context.Background(), mt.Coll, bson.M{}, nil)
		require.NoError(mt, err)
		assert.Equal(mt, []sample{{Name: "a"}, {Name: "b"}}, out)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.samples", mtest.FirstBatch))
		out, err := FindAll[sample](context.Background(), mt.Coll, bson.M{}, nil)
		require.NoError(mt, err)
		assert.NotNil(mt, out)
		assert.Empty(mt, out)
	})
}

func TestFindOne_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.samples", mtest.FirstBatch))
		var out sample
		err := FindOne(context.Background(), mt.Coll, bson.M{"name": "x"}, &out)
		assert.True(mt, IsNotFound(err))
	})
}

func TestCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reads n", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.samples", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(4)}}))
		n, err := Count(context.Background(), mt.Coll, bson.M{})
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), n)
	})
}

func TestCreateOne_DuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key is detected", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))
		_, err := CreateOne(context.Background(), mt.Coll, bson.M{"name": "a"})
		require.Error(mt, err)
		assert.True(mt, IsDuplicateKey(err))
	})
}

func TestPing(t *testing.T) {
	DB = nil
	assert.Error(t, Ping(context.Background()))

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("ok", func(mt *mtest.T) {
		DB = mt.DB
		defer func() { DB = nil }()
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, Ping(context.Background()))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(mongo.ErrNoDocuments))
	assert.False(t, IsNotFound(nil))
}
