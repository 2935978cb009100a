package migrations

import (
	"MediCare/config/db"
	"MediCare/util"
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// BackfillUserActive marks accounts created before the isActive flag existed as active.
func BackfillUserActive(ctx context.Context) error {
	result, err := db.UpdateMany(ctx, db.OpenCollections(util.UserCollection),
		bson.M{"isActive": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"isActive": true}},
	)
	if err != nil {
		log.Error().Err(err).Msg("isActive backfill failed")
		return err
	}
	log.Info().Int64("modified", result.ModifiedCount).Msg("isActive backfill applied")
	return nil
}
