package toolbackend

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/database"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/metrics"
	"github.com/uptrace/bun"
)

// Backend owns the database handle and the service built on it.
type Backend struct {
	Service *Service
	db      *bun.DB
}

func Open(ctx context.Context, cfg Config, m *metrics.Metrics, logger zerolog.Logger) (*Backend, error) {
	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	store := NewStore(db)
	if cfg.SeedOnStart {
		seeded, err := Seed(ctx, store)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if seeded {
			logger.Info().Msg("seeded demo customers and tickets")
		}
	}

	svc := NewService(store,
		WithEvents(NewPublisher(cfg.Kafka)),
		WithMetrics(m),
		WithLogger(logger),
	)
	return &Backend{Service: svc, db: db}, nil
}

func (b *Backend) Close() error {
	return errors.Join(b.Service.Close(), b.db.Close())
}
