package server

import (
	"MediCare/config"
	"MediCare/config/db"
	"MediCare/config/redis"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Options struct {
	CacheEnabled     bool
	MongoEnabled     bool
	WebServerEnabled bool
	WebServerPort    string

	MigrationEnabled bool
	MigrationHandler func()

	JobsEnabled bool
	// JobsHandler starts background jobs and returns how to stop them.
	JobsHandler func() (stop func())

	WebServerPreHandler func(r *gin.Engine)
}

func GetDefaultOptions() Options {
	cfg := config.Get()
	return Options{
		CacheEnabled:     cfg.RedisEnabled,
		MongoEnabled:     true,
		WebServerEnabled: true,
		WebServerPort:    cfg.Port,
		JobsEnabled:      cfg.JobsEnabled,
	}
}

// Connect opens the stores named in opts.
func Connect(ctx context.Context, opts Options) error {
	cfg := config.Get()
	if opts.MongoEnabled {
		if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase); err != nil {
			return err
		}
	}
	if opts.CacheEnabled {
		// a cache that does not answer only switches caching off
		_, _ = redis.ConnectRedis(redis.Options{
			Enabled:  true,
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
	}
	return nil
}

/*
* Connect the stores
* Run migrations and start jobs when asked
* Serve http until SIGINT or SIGTERM, then drain for up to ten seconds
* Jobs are stopped before the stores disconnect
 */
func Start(opts Options) error {
	ctx := context.Background()
	if err := Connect(ctx, opts); err != nil {
		log.Error().Err(err).Msg("unable to connect stores")
		return err
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		opts.MigrationHandler()
	}
	if opts.JobsEnabled && opts.JobsHandler != nil {
		if stopJobs := opts.JobsHandler(); stopJobs != nil {
			defer stopJobs()
		}
	}
	if !opts.WebServerEnabled {
		return nil
	}

	if config.Get().IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r)
	}
	srv := &http.Server{
		Addr:              ":" + opts.WebServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", opts.WebServerPort).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server stopped")
			return err
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
