package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/role"
	"MediCare/util"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	Languages = []string{"en", "hi", "ta", "te", "ml"}
	Themes    = []string{"light", "dark", "auto"}
	Genders   = []string{"male", "female", "other"}
)

var userProfileFields = map[string]fieldKind{
	"name":           stringField,
	"phone":          stringField,
	"avatar":         stringField,
	"department":     stringField,
	"specialization": stringField,
	"experience":     intField,
	"qualification":  stringField,
	"address":        stringField,
	"city":           stringField,
	"state":          stringField,
	"pincode":        stringField,
	"dateOfBirth":    dateField,
	"gender":         stringField,
	"bloodGroup":     stringField,
	"designation":    stringField,
}

// AccountView pairs an account with its patient or staff record.
type AccountView struct {
	User    *models.User `json:"user"`
	Profile interface{}  `json:"profile"`
}

/*
* Patients are linked to the patients collection
* Everyone else to staff
 */
func linkedProfile(ctx context.Context, user *models.User) (interface{}, error) {
	filter := bson.M{"user": user.ID}
	if user.Role == role.Patient {
		p := &models.Patient{}
		err := db.FindOne(ctx, db.OpenCollections(util.PatientCollection), filter, p)
		if db.IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, internalError("unable to load patient profile", err)
		}
		return p, nil
	}
	s := &models.Staff{}
	err := db.FindOne(ctx, db.OpenCollections(util.StaffCollection), filter, s)
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, internalError("unable to load staff profile", err)
	}
	return s, nil
}

func GetMe(ctx context.Context, userID primitive.ObjectID) (*AccountView, error) {
	user, err := findByID[models.User](ctx, util.UserCollection, userID, util.USER_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	profile, err := linkedProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AccountView{User: user, Profile: profile}, nil
}

/*
* name and phone go to the account
* Everything else goes to the linked record
 */
func UpdateAccount(ctx context.Context, user *models.User, data map[string]interface{}) (*AccountView, error) {
	userSet, err := buildPatch(data, map[string]fieldKind{"name": stringField, "phone": stringField})
	if err != nil {
		return nil, err
	}
	profileFields := staffFields
	coll := util.StaffCollection
	if user.Role == role.Patient {
		profileFields = patientFields
		coll = util.PatientCollection
	}
	profileSet, err := buildPatch(data, profileFields)
	if err != nil {
		return nil, err
	}
	delete(profileSet, "email")
	delete(profileSet, "role")
	if user.Role != role.Patient {
		delete(profileSet, "isActive")
		if err := normalizeStaffSet(profileSet); err != nil {
			return nil, err
		}
	}
	if len(userSet) == 0 && len(profileSet) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}

	now := timeNow()
	if len(userSet) > 0 {
		userSet["updatedAt"] = now
		if _, err := db.UpdateOne(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": user.ID}, bson.M{"$set": userSet}); err != nil {
			return nil, internalError("unable to update account", err)
		}
	}
	if len(profileSet) > 0 {
		profileSet["updatedAt"] = now
		if _, err := db.UpdateOne(ctx, db.OpenCollections(coll), bson.M{"user": user.ID}, bson.M{"$set": profileSet}); err != nil {
			return nil, internalError("unable to update linked profile", err)
		}
	}
	return GetMe(ctx, user.ID)
}

func GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return findByID[models.User](ctx, util.UserCollection, userID, util.USER_NOT_FOUND)
}

func UpdateMyProfile(ctx context.Context, userID primitive.ObjectID, data map[string]interface{}) (*models.User, error) {
	set, err := buildPatch(data, userProfileFields)
	if err != nil {
		return nil, err
	}
	if err := enumField(set, "gender", Genders, "Invalid gender"); err != nil {
		return nil, err
	}
	if err := enumField(set, "bloodGroup", models.BloodGroups, "Invalid blood group"); err != nil {
		return nil, err
	}
	if name, ok := set["name"].(string); ok && name == "" {
		delete(set, "name")
	}
	if phone, ok := set["phone"].(string); ok && phone == "" {
		delete(set, "phone")
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	return updateUser(ctx, userID, set)
}

func UpdateAvatar(ctx context.Context, userID primitive.ObjectID, avatar string) (*models.User, error) {
	if avatar == "" {
		return nil, util.NewValidationError("Avatar image is required")
	}
	return updateUser(ctx, userID, bson.M{"avatar": avatar})
}

/*
* Each preference is set on its own path
* so the ones not sent keep their value
 */
func UpdatePreferences(ctx context.Context, userID primitive.ObjectID, data map[string]interface{}) (*models.User, error) {
	set := bson.M{}
	if notes, ok := data["notifications"].(map[string]interface{}); ok {
		for _, channel := range []string{"email", "sms", "push"} {
			if v, ok := notes[channel].(bool); ok {
				set["preferences.notifications."+channel] = v
			}
		}
	}
	checks := []struct {
		key     string
		allowed []string
	}{
		{"language", Languages},
		{"theme", Themes},
		{"timezone", nil},
	}
	for _, c := range checks {
		v := common.StringField(data, c.key)
		if v == "" {
			continue
		}
		if c.allowed != nil && !common.Contains(c.allowed, v) {
			return nil, util.NewValidationError("Invalid " + c.key)
		}
		set["preferences."+c.key] = v
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	return updateUser(ctx, userID, set)
}

func updateUser(ctx context.Context, userID primitive.ObjectID, set bson.M) (*models.User, error) {
	set["updatedAt"] = timeNow()
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return nil, internalError("unable to update user", err)
	}
	if res.MatchedCount == 0 {
		return nil, util.NewNotFoundError(util.USER_NOT_FOUND)
	}
	return findByID[models.User](ctx, util.UserCollection, userID, util.USER_NOT_FOUND)
}
