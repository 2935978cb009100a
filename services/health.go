package services

import (
	"MediCare/config/db"
	"MediCare/config/redis"
	"context"
	"errors"
	"time"
)

var startedAt = time.Now()

type Health struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

/*
* The service is up when mongo answers
* A missing cache only degrades it
 */
func CheckHealth(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	h := Health{Status: "ok", Database: "up", Cache: "up", Timestamp: timeNow(), Uptime: time.Since(startedAt).Round(time.Second).String()}
	if err := db.Ping(ctx); err != nil {
		h.Status, h.Database = "down", "down"
	}
	switch err := redis.Ping(ctx); {
	case errors.Is(err, redis.ErrNoDB):
		h.Cache = "disabled"
	case err != nil:
		h.Cache = "down"
		if h.Status == "ok" {
			h.Status = "degraded"
		}
	}
	return h
}
