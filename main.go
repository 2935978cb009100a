package main

import (
	"MediCare/config"
	gojwt "MediCare/config/jwt"
	"MediCare/jobs"
	"MediCare/migrations"
	"MediCare/notification"
	"MediCare/routes"
	"MediCare/server"
	"MediCare/services"
	"MediCare/util"
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	startServer = server.Start
	isTest      = false
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medicare",
		Short:         "Hospital management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the http server and the scheduled jobs",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create indexes and backfill documents",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOnce(migrations.Run)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create the default hospital settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOnce(services.SeedSettings)
			},
		},
	)
	return root
}

/*
* Load config and set up logging
* Initialise the token signer and the mail sender
 */
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	util.ExposeErrors = !cfg.IsProduction()

	gojwt.Init(cfg.JWTSecret, cfg.JWTExpiresIn)

	if cfg.EmailEnabled {
		notification.SetSender(notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom))
	} else {
		notification.SetSender(notification.LogSender{})
	}
	return cfg, nil
}

func run() error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	defaultopts := server.GetDefaultOptions()

	options := server.Options{
		CacheEnabled:     defaultopts.CacheEnabled,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    defaultopts.WebServerPort,

		JobsEnabled: cfg.JobsEnabled && !isTest,
		JobsHandler: func() func() {
			if isTest {
				return nil
			}
			c, err := jobs.StartDailyScheduler()
			if err != nil {
				log.Error().Err(err).Msg("unable to start scheduler")
				return nil
			}
			return func() {
				<-c.Stop().Done()
				log.Info().Msg("scheduler stopped")
			}
		},

		WebServerPreHandler: func(r *gin.Engine) {
			routes.Routes(r, cfg)
		},

		MigrationEnabled: !isTest,
		MigrationHandler: func() {
			if isTest {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := migrations.Run(ctx); err != nil {
				log.Error().Err(err).Msg("migrations failed")
			}
		},
	}
	return startServer(options)
}

// runOnce connects to mongo, runs task and disconnects.
func runOnce(task func(ctx context.Context) error) error {
	if _, err := setup(); err != nil {
		return err
	}
	opts := server.GetDefaultOptions()
	opts.WebServerEnabled = false
	opts.JobsEnabled = false
	opts.MigrationEnabled = true
	opts.MigrationHandler = func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := task(ctx); err != nil {
			log.Error().Err(err).Msg("task failed")
			os.Exit(1)
		}
	}
	return startServer(opts)
}
