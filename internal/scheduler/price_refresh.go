package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PriceRefresher pulls recent daily prices into the local store.
type PriceRefresher interface {
	StoredTickers(ctx context.Context) ([]string, error)
	RefreshPrices(ctx context.Context, ticker string, lookback time.Duration) (int, error)
}

// CacheInvalidator drops cached price windows of a ticker.
type CacheInvalidator interface {
	Invalidate(ticker string)
}

// PriceRefreshConfig holds configuration for the price refresh job
type PriceRefreshConfig struct {
	Log       zerolog.Logger
	Refresher PriceRefresher
	Cache     CacheInvalidator
	// Tickers are refreshed on every run even before anything is stored.
	Tickers  []string
	Lookback time.Duration
	Timeout  time.Duration
}

// PriceRefreshJob refreshes the stored history of every known ticker so that
// simulations ending today do not have to wait on the price provider.
type PriceRefreshJob struct {
	log       zerolog.Logger
	refresher PriceRefresher
	cache     CacheInvalidator
	tickers   []string
	lookback  time.Duration
	timeout   time.Duration
	running   sync.Mutex
}

// NewPriceRefreshJob creates a new price refresh job. Lookback defaults to
// ten days and Timeout to ten minutes.
func NewPriceRefreshJob(cfg PriceRefreshConfig) *PriceRefreshJob {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 10 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &PriceRefreshJob{
		log:       cfg.Log.With().Str("job", "price_refresh").Logger(),
		refresher: cfg.Refresher,
		cache:     cfg.Cache,
		tickers:   cfg.Tickers,
		lookback:  cfg.Lookback,
		timeout:   cfg.Timeout,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes every ticker in turn. A failing ticker does not stop the
// others; all failures are returned together.
func (j *PriceRefreshJob) Run() error {
	if !j.running.TryLock() {
		j.log.Warn().Msg("price refresh already running")
		return nil
	}
	defer j.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	tickers, err := j.collectTickers(ctx)
	if err != nil {
		return err
	}

	j.log.Info().Int("tickers", len(tickers)).Msg("starting price refresh")
	started := time.Now()

	var (
		errs    []error
		written int
	)
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		n, err := j.refresher.RefreshPrices(ctx, ticker, j.lookback)
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("failed to refresh prices")
			errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
			continue
		}
		written += n
		if j.cache != nil {
			j.cache.Invalidate(ticker)
		}
	}

	j.log.Info().
		Int("sessions", written).
		Int("failed", len(errs)).
		Dur("duration", time.Since(started)).
		Msg("price refresh completed")

	return errors.Join(errs...)
}

func (j *PriceRefreshJob) collectTickers(ctx context.Context) ([]string, error) {
	stored, err := j.refresher.StoredTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored tickers: %w", err)
	}

	tickers := slices.Concat(stored, j.tickers)
	slices.Sort(tickers)
	return slices.Compact(tickers), nil
}
