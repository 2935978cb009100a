package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

/*
* Connect to mongo and ping the primary
* Keep the client and database handles for the collections
 */
func Connect(ctx context.Context, uri, database string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Error().Err(err).Msg("unable to create mongo client")
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Error().Err(err).Msg("unable to reach mongo")
		_ = client.Disconnect(context.Background())
		return err
	}
	Client = client
	DB = client.Database(database)
	log.Info().Str("database", database).Msg("connected to mongo")
	return nil
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	err := Client.Disconnect(ctx)
	Client = nil
	return err
}

// Ping reports whether the database answers. A missing handle counts as down.
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not initialised")
	}
	return DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func OpenCollections(name string) *mongo.Collection {
	return DB.Collection(name)
}

func FindOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOneOptions) error {
	return coll.FindOne(ctx, filter, opts...).Decode(out)
}

func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func Aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline interface{}) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func CreateOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (*mongo.InsertOneResult, error) {
	return coll.InsertOne(ctx, doc)
}

func UpdateOne(ctx context.Context, coll *mongo.Collection, filter, update interface{}) (*mongo.UpdateResult, error) {
	return coll.UpdateOne(ctx, filter, update)
}

func UpdateMany(ctx context.Context, coll *mongo.Collection, filter, update interface{}) (*mongo.UpdateResult, error) {
	return coll.UpdateMany(ctx, filter, update)
}

// FindOneAndUpdate applies update and decodes the document it returns.
func FindOneAndUpdate(ctx context.Context, coll *mongo.Collection, filter, update interface{}, out interface{}, opts ...*options.FindOneAndUpdateOptions) error {
	return coll.FindOneAndUpdate(ctx, filter, update, opts...).Decode(out)
}

// ReplaceOne swaps the matching document for doc, inserting it when none matches.
func ReplaceOne(ctx context.Context, coll *mongo.Collection, filter, doc interface{}) (*mongo.UpdateResult, error) {
	return coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
}

func DeleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) (*mongo.DeleteResult, error) {
	return coll.DeleteOne(ctx, filter)
}

func Count(ctx context.Context, coll *mongo.Collection, filter interface{}) (int64, error) {
	return coll.CountDocuments(ctx, filter)
}

func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
