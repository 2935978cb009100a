package services

import (
	"MediCare/common"
	"MediCare/config"
	"MediCare/config/db"
	"MediCare/config/jwt"
	"MediCare/models"
	"MediCare/notification"
	"MediCare/role"
	"MediCare/util"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL    = 10 * time.Minute
	maxPasswordBytes = 72
)

var bcryptCost = 12

var (
	ErrDuplicateEmail     = util.NewConflictError(util.USER_ALREADY_EXISTS)
	ErrInvalidCredentials = util.NewUnauthorizedError(util.INCORRECT_EMAIL_OR_PASSWORD)
	ErrAccountDisabled    = util.NewUnauthorizedError(util.ACCOUNT_DEACTIVATED)
	ErrWrongPassword      = util.NewUnauthorizedError(util.CURRENT_PASSWORD_INCORRECT)
	ErrInvalidAdmin       = util.NewUnauthorizedError(util.INVALID_ADMIN_CREDENTIALS)
	ErrAdminDisabled      = util.NewForbiddenError(util.ADMIN_ACCOUNT_DEACTIVATED)
	ErrResetToken         = util.NewValidationError(util.RESET_TOKEN_INVALID)
)

// AuthResult is what every successful sign-in returns.
type AuthResult struct {
	User  *models.User
	Token string
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func validateCredentials(name, email, password string) error {
	if len([]rune(name)) < 2 {
		return util.NewValidationError(util.NAME_TOO_SHORT)
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return util.NewValidationError(util.INVALID_EMAIL)
	}
	return validatePassword(password)
}

// bcrypt only hashes the first 72 bytes and refuses longer input.
func validatePassword(password string) error {
	if len(password) < 6 {
		return util.NewValidationError(util.PASSWORD_TOO_SHORT)
	}
	if len(password) > maxPasswordBytes {
		return util.NewValidationError(util.PASSWORD_TOO_LONG)
	}
	return nil
}

func issueToken(user *models.User) (*AuthResult, error) {
	token, err := jwt.GenerateJWT(user.ID.Hex())
	if err != nil {
		return nil, internalError("unable to sign token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

/*
* Loads the account behind a token
* Used by the auth middleware
 */
func FetchUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, util.NewNotFoundError(util.USER_NOT_FOUND)
	}
	return findByID[models.User](ctx, util.UserCollection, oid, util.USER_NOT_FOUND)
}

func findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	err := db.FindOne(ctx, db.OpenCollections(util.UserCollection), filter, user)
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, internalError("unable to look up user by email", err)
	}
	return user, nil
}

/*
* Validate input and reject a used email
* Hash the password and insert the user
* Create the linked patient or staff profile
* Send the welcome mail after everything is stored
 */
func Register(ctx context.Context, data map[string]interface{}) (*AuthResult, error) {
	if err := common.RequireFields(data, "name", "email", "password", "phone"); err != nil {
		return nil, err
	}
	name := common.StringField(data, "name")
	email := common.NormalizeEmail(common.StringField(data, "email"))
	password, _ := data["password"].(string)
	if err := validateCredentials(name, email, password); err != nil {
		return nil, err
	}

	userRole := common.StringField(data, "role")
	if userRole == "" {
		userRole = role.Patient
	}
	if !role.IsUserRole(userRole) {
		return nil, util.NewValidationError(util.INVALID_ROLE)
	}
	if userRole != role.Patient && role.StaffRoleFor(userRole, common.StringField(data, "staffRole")) == role.Doctor &&
		common.StringField(data, "specialization") == "" {
		return nil, util.NewValidationError(util.SPECIALIZATION_NEEDED)
	}

	existing, err := findUser(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Warn().Str("email", email).Msg("registration with existing email")
		return nil, ErrDuplicateEmail
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, internalError("unable to hash password", err)
	}
	now := timeNow()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Email:       email,
		Password:    hashed,
		Role:        userRole,
		Phone:       common.StringField(data, "phone"),
		Gender:      "male",
		IsActive:    true,
		LastLogin:   &now,
		Preferences: models.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if g := common.StringField(data, "gender"); g != "" {
		user.Gender = g
	}
	if userRole != role.Patient {
		user.Department = common.StringField(data, "department")
		user.Specialization = common.StringField(data, "specialization")
	}

	users := db.OpenCollections(util.UserCollection)
	if _, err := db.CreateOne(ctx, users, user); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, internalError("unable to insert user", err)
	}

	if err := createLinkedProfile(ctx, user, data); err != nil {
		if _, delErr := db.DeleteOne(ctx, users, bson.M{"_id": user.ID}); delErr != nil {
			log.Error().Err(delErr).Str("userId", user.ID.Hex()).Msg("unable to roll back user after profile failure")
		}
		return nil, err
	}

	result, err := issueToken(user)
	if err != nil {
		return nil, err
	}
	notification.SendWelcome(*user)
	return result, nil
}

func createLinkedProfile(ctx context.Context, user *models.User, data map[string]interface{}) error {
	switch user.Role {
	case role.Patient:
		patient, err := patientFromInput(data)
		if err != nil {
			return err
		}
		patient.User = idPtr(user.ID)
		patient.Name, patient.Email, patient.Phone = user.Name, user.Email, user.Phone
		if patient.Gender == "" {
			patient.Gender = user.Gender
		}
		_, err = db.CreateOne(ctx, db.OpenCollections(util.PatientCollection), patient)
		if err != nil {
			return internalError("unable to create patient profile", err)
		}
	default:
		fields := make(map[string]interface{}, len(data))
		for k, v := range data {
			if k != "role" {
				fields[k] = v
			}
		}
		staff, err := staffFromInput(fields)
		if err != nil {
			return err
		}
		staff.User = idPtr(user.ID)
		staff.Name, staff.Email, staff.Phone = user.Name, user.Email, user.Phone
		staff.Role = role.StaffRoleFor(user.Role, common.StringField(data, "staffRole"))
		if staff.Department == "" {
			staff.Department = "General"
		}
		_, err = db.CreateOne(ctx, db.OpenCollections(util.StaffCollection), staff)
		if db.IsDuplicateKey(err) {
			return util.NewConflictError(util.STAFF_ALREADY_EXISTS)
		}
		if err != nil {
			return internalError("unable to create staff profile", err)
		}
	}
	return nil
}

/*
* Unknown email and wrong password give the same answer
* Only a successful login touches lastLogin
 */
func Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, util.NewValidationError(util.PLEASE_PROVIDE_EMAIL_AND_PASSWORD)
	}
	user, err := findUser(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.Password, password) {
		log.Warn().Str("email", email).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Warn().Str("email", email).Msg("login on deactivated account")
		return nil, ErrAccountDisabled
	}
	if err := stampLastLogin(ctx, user); err != nil {
		return nil, err
	}
	return issueToken(user)
}

/*
* Admin sign-in only accepts the configured email domain
* and accounts with the admin role
 */
func AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, util.NewValidationError(util.PLEASE_PROVIDE_EMAIL_AND_PASSWORD)
	}
	domain := config.Get().AdminEmailDomain
	if !strings.HasSuffix(email, domain) {
		return nil, util.NewValidationError(util.ADMIN_EMAIL_DOMAIN_REQUIRED + domain)
	}
	user, err := findUser(ctx, bson.M{"email": email, "role": role.Admin})
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.Password, password) {
		log.Warn().Str("email", email).Msg("failed admin login attempt")
		return nil, ErrInvalidAdmin
	}
	if !user.IsActive {
		return nil, ErrAdminDisabled
	}
	if err := stampLastLogin(ctx, user); err != nil {
		return nil, err
	}
	return issueToken(user)
}

func stampLastLogin(ctx context.Context, user *models.User) error {
	now := timeNow()
	_, err := db.UpdateOne(ctx, db.OpenCollections(util.UserCollection),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"lastLogin": now}})
	if err != nil {
		return internalError("unable to record last login", err)
	}
	user.LastLogin = &now
	return nil
}

/*
* Compare the current password
* Store the new hash and stamp passwordChangedAt
* Tokens issued before this second stop working
 */
func ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) (*AuthResult, error) {
	if current == "" || next == "" {
		return nil, util.NewValidationError(util.REQUIRED_FIELDS_MISSING)
	}
	if err := validatePassword(next); err != nil {
		return nil, err
	}
	user, err := findByID[models.User](ctx, util.UserCollection, userID, util.USER_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.Password, current) {
		log.Warn().Str("userId", userID.Hex()).Msg("change password with wrong current password")
		return nil, ErrWrongPassword
	}
	if err := setPassword(ctx, user, next, nil); err != nil {
		return nil, err
	}
	return issueToken(user)
}

func setPassword(ctx context.Context, user *models.User, password string, unset bson.M) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return internalError("unable to hash password", err)
	}
	now := timeNow()
	update := bson.M{"$set": bson.M{
		"password":          hashed,
		"passwordChangedAt": now,
		"updatedAt":         now,
	}}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if _, err := db.UpdateOne(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": user.ID}, update); err != nil {
		return internalError("unable to store new password", err)
	}
	user.Password = hashed
	user.PasswordChangedAt = &now
	return nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

/*
* Store the sha256 of a random token for ten minutes
* Mail the raw token
* Unknown emails get the same answer
 */
func ForgotPassword(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)
	if email == "" {
		return util.NewValidationError(util.INVALID_EMAIL)
	}
	user, err := findUser(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if user == nil {
		log.Info().Str("email", email).Msg("password reset for unknown email")
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return internalError("unable to generate reset token", err)
	}
	raw := hex.EncodeToString(buf)
	expires := timeNow().Add(resetTokenTTL)
	_, err = db.UpdateOne(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"passwordResetToken":   hashResetToken(raw),
			"passwordResetExpires": expires,
		}})
	if err != nil {
		return internalError("unable to store reset token", err)
	}
	notification.SendPasswordReset(*user, raw)
	return nil
}

func ResetPassword(ctx context.Context, rawToken, password string) (*AuthResult, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrResetToken
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	user, err := findUser(ctx, bson.M{
		"passwordResetToken":   hashResetToken(rawToken),
		"passwordResetExpires": bson.M{"$gt": timeNow()},
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrResetToken
	}
	unset := bson.M{"passwordResetToken": "", "passwordResetExpires": ""}
	if err := setPassword(ctx, user, password, unset); err != nil {
		return nil, err
	}
	return issueToken(user)
}
