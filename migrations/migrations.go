package migrations

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Migration struct {
	Name string
	Up   func(ctx context.Context) error
}

// Ordered by file prefix. Every step is safe to run again.
var All = []Migration{
	{Name: "001_create_indexes", Up: CreateIndexes},
	{Name: "002_backfill_user_isActive", Up: BackfillUserActive},
	{Name: "003_seed_settings", Up: SeedSettings},
}

func Run(ctx context.Context) error {
	for _, m := range All {
		log.Info().Str("migration", m.Name).Msg("applying migration")
		if err := m.Up(ctx); err != nil {
			return err
		}
	}
	return nil
}
