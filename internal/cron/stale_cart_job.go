package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

const defaultCartStaleAfter = 30 * 24 * time.Hour

// staleCartStore defines the cart operations the cleanup job needs.
type staleCartStore interface {
	CountStale(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleCartJobParams configure the stale cart cleanup job.
type StaleCartJobParams struct {
	Logger     *logger.Logger
	Carts      staleCartStore
	StaleAfter time.Duration
}

// NewStaleCartJob builds the cron job that purges cart lines nobody has
// touched within the retention window.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultCartStaleAfter
	}
	return &staleCartJob{
		logg:       params.Logger,
		carts:      params.Carts,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleCartJob struct {
	logg       *logger.Logger
	carts      staleCartStore
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-cleanup" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)

	var errs error
	pending, err := j.carts.CountStale(ctx, cutoff)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count stale cart items: %w", err))
	} else {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"pending": pending,
			"cutoff":  cutoff,
		})
		j.logg.Info(logCtx, "stale cart scan complete")
	}

	purged, err := j.carts.DeleteStale(ctx, cutoff)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete stale cart items: %w", err))
	} else {
		logCtx := j.logg.WithFields(ctx, map[string]any{"purged": purged})
		j.logg.Info(logCtx, "stale cart purge complete")
	}

	return errs
}
