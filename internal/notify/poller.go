// Package notify runs the background refresh loops that live outside the
// checkout flow: a backend keep-alive probe and a periodic snapshot of the
// now-showing catalog used for fast home-page renders. The poller shares no
// state with checkout sessions.
package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/screenhall/web/internal/backend"
)

// Config holds poller intervals.
type Config struct {
	KeepAliveInterval time.Duration
	CatalogInterval   time.Duration
}

// DefaultConfig returns poller defaults.
func DefaultConfig() Config {
	return Config{
		KeepAliveInterval: 30 * time.Second,
		CatalogInterval:   5 * time.Minute,
	}
}

// CatalogSnapshot is the cached now-showing listing with its refresh time.
type CatalogSnapshot struct {
	Movies      []backend.Movie `json:"movies"`
	RefreshedAt time.Time       `json:"refreshed_at"`
}

// Poller owns the repeating background jobs.
type Poller struct {
	scheduler gocron.Scheduler
	client    *backend.Client
	cfg       Config
	logger    *slog.Logger

	healthy  atomic.Bool
	snapshot atomic.Pointer[CatalogSnapshot]
}

// NewPoller creates the poller. Call Start to begin polling.
func NewPoller(client *backend.Client, cfg Config, logger *slog.Logger) (*Poller, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	p := &Poller{
		scheduler: scheduler,
		client:    client,
		cfg:       cfg,
		logger:    logger,
	}
	// Assume reachable until the first probe says otherwise.
	p.healthy.Store(true)
	return p, nil
}

// Start registers the jobs and begins the schedule. Both jobs run once
// immediately so the first snapshot does not wait a full interval.
func (p *Poller) Start(ctx context.Context) error {
	if _, err := p.scheduler.NewJob(
		gocron.DurationJob(p.cfg.KeepAliveInterval),
		gocron.NewTask(p.keepAlive, ctx),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return err
	}

	if _, err := p.scheduler.NewJob(
		gocron.DurationJob(p.cfg.CatalogInterval),
		gocron.NewTask(p.refreshCatalog, ctx),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return err
	}

	p.scheduler.Start()
	p.logger.Info("background poller started",
		slog.Duration("keep_alive_interval", p.cfg.KeepAliveInterval),
		slog.Duration("catalog_interval", p.cfg.CatalogInterval),
	)
	return nil
}

// Shutdown stops the schedule and waits for running jobs.
func (p *Poller) Shutdown() error {
	return p.scheduler.Shutdown()
}

// Healthy reports the result of the most recent keep-alive probe.
func (p *Poller) Healthy() bool {
	return p.healthy.Load()
}

// Snapshot returns the latest catalog snapshot, or nil before the first
// successful refresh.
func (p *Poller) Snapshot() *CatalogSnapshot {
	return p.snapshot.Load()
}

func (p *Poller) keepAlive(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.client.Ping(probeCtx); err != nil {
		if p.healthy.Swap(false) {
			p.logger.WarnContext(ctx, "backend keep-alive probe failed",
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if !p.healthy.Swap(true) {
		p.logger.InfoContext(ctx, "backend reachable again")
	}
}

func (p *Poller) refreshCatalog(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	movies, err := p.client.ListMovies(fetchCtx, backend.MovieFilter{Status: "now_showing"})
	if err != nil {
		p.logger.WarnContext(ctx, "catalog snapshot refresh failed, keeping previous snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	p.snapshot.Store(&CatalogSnapshot{
		Movies:      movies,
		RefreshedAt: time.Now().UTC(),
	})
	p.logger.DebugContext(ctx, "catalog snapshot refreshed",
		slog.Int("movies", len(movies)),
	)
}
