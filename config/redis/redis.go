package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

var (
	client  *goredis.Client
	once    sync.Once
	mu      sync.RWMutex
	ttl     = 10 * time.Minute
	ErrNoDB = errors.New("redis not available")
)

/*
* Build a single client for the process
* A failed ping leaves the cache switched off
 */
func ConnectRedis(opts Options) (*goredis.Client, error) {
	var err error
	once.Do(func() {
		if !opts.Enabled {
			log.Info().Msg("redis disabled, caching switched off")
			return
		}
		if opts.TTL > 0 {
			ttl = opts.TTL
		}
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			err = fmt.Errorf("redis ping failed: %w", err)
			log.Warn().Err(err).Str("addr", opts.Addr).Msg("continuing without redis")
			_ = rdb.Close()
			return
		}
		SetClient(rdb)
		log.Info().Str("addr", opts.Addr).Msg("connected to redis")
	})
	return GetClient(), err
}

func GetClient() *goredis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// SetClient swaps the client in use. Tests pass a mock, or nil to switch caching off.
func SetClient(c *goredis.Client) {
	mu.Lock()
	defer mu.Unlock()
	client = c
}

func Ping(ctx context.Context) error {
	rdb := GetClient()
	if rdb == nil {
		return ErrNoDB
	}
	return rdb.Ping(ctx).Err()
}

func SetCache(ctx context.Context, key string, value interface{}) error {
	rdb := GetClient()
	if rdb == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, string(payload), ttl).Err()
}

/*
* A miss and a disabled cache both report false
* Only decode failures and transport errors are returned
 */
func GetCache(ctx context.Context, key string, out interface{}) (bool, error) {
	rdb := GetClient()
	if rdb == nil {
		return false, nil
	}
	payload, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, err
	}
	return true, nil
}

func DeleteCache(ctx context.Context, keys ...string) error {
	rdb := GetClient()
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// TTL is the expiry applied to every cached entry.
func TTL() time.Duration {
	return ttl
}
