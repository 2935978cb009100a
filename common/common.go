package common

import (
	"MediCare/util"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage       = 1
	DefaultLimit      = 10
	DefaultAdminLimit = 50
	MaxLimit          = 100
	DateLayout        = "2006-01-02"
	TimeLayout        = "15:04"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

/*
* Check the key is present and a non empty string
* Store the trimmed value back in the map
 */
func GetTrimmedString(data map[string]interface{}, key string) error {
	raw, ok := data[key]
	if !ok || raw == nil {
		log.Warn().Str("field", key).Msg("required field missing")
		return util.NewValidationError(key + " is required")
	}
	s, ok := raw.(string)
	if !ok {
		log.Warn().Str("field", key).Msg("field is not a string")
		return util.NewValidationError(key + " must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		log.Warn().Str("field", key).Msg("field is empty")
		return util.NewValidationError(key + " is required")
	}
	data[key] = s
	return nil
}

// RequireFields runs GetTrimmedString over every key and stops at the first failure.
func RequireFields(data map[string]interface{}, keys ...string) error {
	for _, k := range keys {
		if err := GetTrimmedString(data, k); err != nil {
			return err
		}
	}
	return nil
}

// StringField returns the trimmed string under key, or "" when absent or not a string.
func StringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return strings.TrimSpace(s)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

/*
* Page defaults to 1
* Limit defaults to defaultLimit and never exceeds MaxLimit
 */
func ParsePagination(pageStr, limitStr string, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// PageOptions builds find options for the given page with the given sort order.
func PageOptions(page, limit int, sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns the half-open interval [start, start+1 day) holding t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// DayFilter is a mongo range condition matching every instant of t's local day.
func DayFilter(t time.Time) bson.M {
	start, end := DayRange(t)
	return bson.M{"$gte": start, "$lt": end}
}

/*
* Accept either a plain calendar date or a full timestamp
* The result is always local midnight of that day
 */
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		log.Warn().Str("date", s).Msg("unable to parse date")
		return time.Time{}, util.NewValidationError(util.INVALID_DATE)
	}
	return StartOfDay(t.In(time.Local)), nil
}

// ParseTimestamp parses a date or a timestamp without truncating it.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	log.Warn().Str("date", s).Msg("unable to parse timestamp")
	return time.Time{}, util.NewValidationError(util.INVALID_DATE)
}

func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		log.Warn().Str("id", id).Msg("invalid object id")
		return primitive.NilObjectID, util.NewValidationError(util.INVALID_ID_FORMAT)
	}
	return oid, nil
}

func Contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ContainsFold builds a case-insensitive substring regex condition with the input escaped.
func ContainsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}
