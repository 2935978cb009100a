package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/util"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsKeys are the fields an admin may change.
var settingsKeys = []string{
	"hospitalName", "hospitalEmail", "hospitalPhone", "hospitalAddress",
	"appointmentDuration", "workingHours", "smsNotifications", "emailNotifications",
	"autoBackup", "backupFrequency", "currency", "timezone", "dateFormat",
	"maxAppointmentsPerDay", "emergencyContact", "labSettings", "billingSettings",
}

func defaultSettingsDoc() (bson.M, error) {
	now := timeNow()
	defaults := models.DefaultSettings(util.SettingsID)
	defaults.CreatedAt, defaults.UpdatedAt, defaults.LastUpdated = now, now, now
	raw, err := bson.Marshal(defaults)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}

/*
* Get or create the singleton
* A single upsert so concurrent first reads agree on one document
 */
func GetSettings(ctx context.Context) (*models.Settings, error) {
	doc, err := defaultSettingsDoc()
	if err != nil {
		return nil, internalError("unable to build default settings", err)
	}
	settings := &models.Settings{}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err = db.FindOneAndUpdate(ctx, db.OpenCollections(util.SettingsCollection),
		bson.M{"_id": util.SettingsID}, bson.M{"$setOnInsert": doc}, settings, opts)
	if err != nil {
		return nil, internalError("unable to load settings", err)
	}
	return settings, nil
}

func validateSettings(s *models.Settings) error {
	invalid := func(msg string) error {
		log.Warn().Str("reason", msg).Msg("rejected settings update")
		return util.NewValidationError(msg)
	}
	if s.AppointmentDuration < 15 || s.AppointmentDuration > 120 {
		return invalid("Appointment duration must be between 15 and 120 minutes")
	}
	if s.MaxAppointmentsPerDay < 10 || s.MaxAppointmentsPerDay > 200 {
		return invalid("Appointments per day must be between 10 and 200")
	}
	if s.LabSettings.ReportValidity < 1 || s.LabSettings.ReportValidity > 365 {
		return invalid("Report validity must be between 1 and 365 days")
	}
	if s.BillingSettings.TaxRate < 0 || s.BillingSettings.TaxRate > 50 {
		return invalid("Tax rate must be between 0 and 50")
	}
	if !common.ValidTime(s.WorkingHours.Start) || !common.ValidTime(s.WorkingHours.End) {
		return invalid(util.INVALID_TIME)
	}
	if !common.Contains(models.BackupFrequencies, s.BackupFrequency) ||
		!common.Contains(models.Currencies, s.Currency) ||
		!common.Contains(models.DateFormats, s.DateFormat) {
		return invalid(util.INVALID_SETTING)
	}
	for _, mode := range s.BillingSettings.PaymentModes {
		if !common.Contains(models.PaymentModes, mode) {
			return invalid(util.INVALID_SETTING)
		}
	}
	return nil
}

/*
* Merge the known keys onto the stored settings
* Nested objects keep the fields the request leaves out
 */
func UpdateSettings(ctx context.Context, data map[string]interface{}, updatedBy primitive.ObjectID) (*models.Settings, error) {
	patch := map[string]interface{}{}
	for _, key := range settingsKeys {
		if v, ok := data[key]; ok {
			patch[key] = v
		}
	}
	if len(patch) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	current, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, util.NewValidationError(util.INVALID_SETTING)
	}
	if err := json.Unmarshal(raw, current); err != nil {
		log.Warn().Err(err).Msg("settings patch does not fit the document")
		return nil, util.NewValidationError(util.INVALID_SETTING)
	}
	if err := validateSettings(current); err != nil {
		return nil, err
	}

	now := timeNow()
	current.ID = util.SettingsID
	current.LastUpdated, current.UpdatedAt = now, now
	current.UpdatedBy = idPtr(updatedBy)
	if _, err := db.ReplaceOne(ctx, db.OpenCollections(util.SettingsCollection), bson.M{"_id": util.SettingsID}, current); err != nil {
		return nil, internalError("unable to save settings", err)
	}
	return current, nil
}

func ResetSettings(ctx context.Context, by primitive.ObjectID) (*models.Settings, error) {
	now := timeNow()
	defaults := models.DefaultSettings(util.SettingsID)
	defaults.CreatedAt, defaults.UpdatedAt, defaults.LastUpdated = now, now, now
	defaults.UpdatedBy = idPtr(by)
	if _, err := db.ReplaceOne(ctx, db.OpenCollections(util.SettingsCollection), bson.M{"_id": util.SettingsID}, defaults); err != nil {
		return nil, internalError("unable to reset settings", err)
	}
	log.Info().Str("by", by.Hex()).Msg("settings reset to defaults")
	return &defaults, nil
}

// GetSetting returns one top-level value by its json name.
func GetSetting(ctx context.Context, key string) (interface{}, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, internalError("unable to encode settings", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, internalError("unable to decode settings", err)
	}
	value, ok := fields[key]
	if !ok {
		return nil, util.NewNotFoundError(fmt.Sprintf("Setting '%s' not found", key))
	}
	return value, nil
}

// SeedSettings creates the singleton when missing and leaves an existing one alone.
func SeedSettings(ctx context.Context) error {
	_, err := GetSettings(ctx)
	return err
}
