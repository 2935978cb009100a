package migrations

import (
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/util"
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slotIndex keeps one active booking per doctor, day and time. Bookings without a doctor are not covered.
func slotIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "doctor", Value: 1},
			{Key: "appointmentDate", Value: 1},
			{Key: "appointmentTime", Value: 1},
		},
		Options: options.Index().
			SetName("uniq_doctor_slot").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"doctor": bson.M{"$type": "objectId"},
				"status": bson.M{"$in": models.ActiveAppointmentStatuses},
			}),
	}
}

func indexPlan() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		util.UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_email").SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		util.PatientCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		util.StaffCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_email").SetUnique(true)},
			{Keys: bson.D{{Key: "licenseNumber", Value: 1}}, Options: options.Index().SetName("uniq_license").SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}}},
		},
		util.AppointmentCollection: {
			slotIndex(),
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		},
		util.TestCollection: {
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "scheduledDate", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}}},
		},
		util.ReportCollection: {
			{Keys: bson.D{{Key: "patientName", Value: 1}, {Key: "reportDate", Value: -1}}},
			{Keys: bson.D{{Key: "doctorName", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
}

/*
* Create every index in the plan
* Existing indexes with the same keys and options are left untouched by mongo
 */
func CreateIndexes(ctx context.Context) error {
	for collection, idx := range indexPlan() {
		names, err := db.OpenCollections(collection).Indexes().CreateMany(ctx, idx)
		if err != nil {
			log.Error().Err(err).Str("collection", collection).Msg("index creation failed")
			return err
		}
		log.Info().Str("collection", collection).Strs("indexes", names).Msg("indexes ensured")
	}
	return nil
}
