package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/config/redis"
	"MediCare/util"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var timeNow = time.Now

// fetchConcurrency bounds the parallel reads of the dashboards.
var fetchConcurrency = 8

type fieldKind int

const (
	stringField fieldKind = iota
	intField
	floatField
	boolField
	dateField
	timestampField
	objectIDField
	stringListField
	rawField
)

/*
* Keep only known fields
* Convert each value to the type stored in mongo
 */
func buildPatch(data map[string]interface{}, fields map[string]fieldKind) (bson.M, error) {
	set := bson.M{}
	for key, raw := range data {
		kind, ok := fields[key]
		if !ok {
			continue
		}
		v, err := convertField(key, raw, kind)
		if err != nil {
			log.Warn().Err(err).Str("field", key).Msg("invalid field in update")
			return nil, err
		}
		set[key] = v
	}
	return set, nil
}

func convertField(key string, raw interface{}, kind fieldKind) (interface{}, error) {
	invalid := util.NewValidationError("Invalid value for " + key)
	switch kind {
	case stringField:
		if raw == nil {
			return "", nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, invalid
		}
		return strings.TrimSpace(s), nil
	case intField:
		f, err := toFloat(raw)
		if err != nil {
			return nil, invalid
		}
		return int(f), nil
	case floatField:
		f, err := toFloat(raw)
		if err != nil {
			return nil, invalid
		}
		return f, nil
	case boolField:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, invalid
			}
			return parsed, nil
		}
		return nil, invalid
	case dateField, timestampField:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid
		}
		if kind == dateField {
			return common.ParseDate(s)
		}
		return common.ParseTimestamp(s)
	case objectIDField:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, invalid
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return common.ParseObjectID(s)
	case stringListField:
		return toStringList(raw)
	}
	return raw, nil
}

func toFloat(raw interface{}) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("not a number: %v", raw)
}

func toStringList(raw interface{}) ([]string, error) {
	out := []string{}
	switch v := raw.(type) {
	case nil:
		return out, nil
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []string:
		return v, nil
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, util.NewValidationError(util.INVALID_BODY)
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	}
	return nil, util.NewValidationError(util.INVALID_BODY)
}

// enumField validates an optional enum value already present in set.
func enumField(set bson.M, key string, allowed []string, msg string) error {
	v, ok := set[key]
	if !ok {
		return nil
	}
	s, _ := v.(string)
	if !common.Contains(allowed, s) {
		return util.NewValidationError(msg)
	}
	return nil
}

func internalError(msg string, err error) error {
	log.Error().Err(err).Msg(msg)
	return util.NewInternalError(util.SOMETHING_WENT_WRONG, err)
}

/*
* Cache failures never fail a request
 */
func cacheGet(ctx context.Context, key string, out interface{}) bool {
	found, err := redis.GetCache(ctx, key, out)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	return found
}

func cacheSet(ctx context.Context, key string, v interface{}) {
	if err := redis.SetCache(ctx, key, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func cacheDelete(ctx context.Context, keys ...string) {
	if err := redis.DeleteCache(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// findByID loads one document by _id. A missing document maps to notFound.
func findByID[T any](ctx context.Context, collection string, id primitive.ObjectID, notFound string) (*T, error) {
	out := new(T)
	err := db.FindOne(ctx, db.OpenCollections(collection), bson.M{"_id": id}, out)
	if db.IsNotFound(err) {
		return nil, util.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, internalError("find "+collection+" by id", err)
	}
	return out, nil
}

// Page is a slice of results with the total matching count.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func newPage[T any](items []T, total int64, page, limit int) Page[T] {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func idPtr(id primitive.ObjectID) *primitive.ObjectID {
	return &id
}
