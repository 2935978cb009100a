package migrations

import (
	"MediCare/services"
	"context"

	"github.com/rs/zerolog/log"
)

func SeedSettings(ctx context.Context) error {
	if err := services.SeedSettings(ctx); err != nil {
		log.Error().Err(err).Msg("settings seed failed")
		return err
	}
	log.Info().Msg("hospital settings present")
	return nil
}
