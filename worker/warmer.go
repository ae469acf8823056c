package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
)

// Cronner is the subset of *cron.Cron the warmer drives.
type Cronner interface {
	Start()
	Stop() context.Context
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

// AirportLoader is satisfied by the server cache coordinator.
type AirportLoader interface {
	GetAirports(ctx context.Context) (airports.Page, error)
}

// Warmer keeps the server airport cache populated: once at startup and then
// on a cron schedule. Failed warm-ups are logged and otherwise ignored.
type Warmer struct {
	loader   AirportLoader
	cron     Cronner
	schedule string
	onStart  bool
	timeout  time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// WarmerConfig controls when warm-ups run.
type WarmerConfig struct {
	Schedule string // cron spec; empty disables scheduled runs
	OnStart  bool
	Timeout  time.Duration
}

// NewWarmer creates a warmer. A nil cronner uses a default cron instance.
func NewWarmer(loader AirportLoader, cfg WarmerConfig, cronner Cronner) *Warmer {
	if cronner == nil {
		cronner = cron.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Warmer{
		loader:   loader,
		cron:     cronner,
		schedule: cfg.Schedule,
		onStart:  cfg.OnStart,
		timeout:  cfg.Timeout,
		log:      logger.WithField("component", "cache_warmer"),
	}
}

// Start registers the schedule and kicks off the startup warm-up in the
// background. An invalid schedule is returned as an error.
func (w *Warmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	if w.schedule != "" {
		if _, err := w.cron.AddFunc(w.schedule, func() { w.Warm(context.Background()) }); err != nil {
			return fmt.Errorf("invalid cache warm schedule %q: %w", w.schedule, err)
		}
		w.log.Info("Cache warm-up scheduled", "schedule", w.schedule)
	}
	w.cron.Start()
	w.started = true

	if w.onStart {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.Warm(context.Background())
		}()
	}
	return nil
}

// Stop halts the schedule and waits for running warm-ups to finish.
func (w *Warmer) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()

	<-w.cron.Stop().Done()
	w.wg.Wait()
	w.log.Info("Cache warmer stopped")
}

// Warm loads the airport list once. It reports whether the load succeeded.
func (w *Warmer) Warm(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	page, err := w.loader.GetAirports(ctx)
	if err != nil {
		w.log.Error(err, "Cache warm-up failed")
		return false
	}
	w.log.Debug("Cache warm-up complete", "count", len(page.Airports), "duration", time.Since(start).String())
	return true
}
