package notifications

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/models"
)

// DefaultPollInterval is the polling cadence the backend is sized for.
const DefaultPollInterval = 30 * time.Second

// Synchronizer polls the notification feed for the lifetime of a session.
// Cycles follow switch-latest semantics: a tick that fires while an earlier
// fetch is still in flight supersedes it, and a superseded (or post-stop)
// response is discarded instead of overwriting newer state. A failed cycle
// leaves the feed untouched; the next tick retries.
type Synchronizer struct {
	svc      *Service
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	gen     uint64 // current fetch generation; stale cycles may not commit
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// commitMu serializes the currency check with the commit itself, so an
	// older cycle can never slip a commit in after a newer one landed.
	commitMu sync.Mutex
}

// NewSynchronizer builds a poller over svc. interval <= 0 selects the
// default cadence; timeout bounds each cycle and defaults to the interval.
func NewSynchronizer(svc *Service, interval, timeout time.Duration, logger *zap.Logger) *Synchronizer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		svc:      svc,
		interval: interval,
		timeout:  timeout,
		logger:   logger.Named("sync"),
	}
}

// Start launches the polling loop: one immediate fetch, then one per tick.
// It is a no-op if the loop is already running.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("notification polling started", zap.Duration("interval", s.interval))

	go s.loop(loopCtx)
}

// Stop cancels the loop and waits for it to exit. In-flight responses that
// arrive after Stop are discarded.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.gen++ // orphan any in-flight cycle
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("notification polling stopped")
}

func (s *Synchronizer) loop(ctx context.Context) {
	defer close(s.done)

	s.spawnCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.spawnCycle(ctx)
		}
	}
}

// spawnCycle claims the next generation and fetches in its own goroutine, so
// a slow cycle never delays the tick that supersedes it.
func (s *Synchronizer) spawnCycle(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	go func() {
		cycleCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		list, err := s.svc.api.ListNotifications(cycleCtx, s.svc.userID)
		if err != nil {
			// Do not touch state; the next tick retries.
			s.logger.Warn("notification fetch failed", zap.Error(err))
			return
		}
		s.commitIfCurrent(myGen, list)
	}()
}

// commitIfCurrent applies a fetch result only when no newer cycle has been
// issued and the loop has not been stopped since the fetch began.
func (s *Synchronizer) commitIfCurrent(gen uint64, list []models.Notification) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	current := s.running && gen == s.gen
	s.mu.Unlock()

	if !current {
		s.logger.Debug("discarding superseded notification fetch", zap.Uint64("generation", gen))
		return
	}
	s.svc.commit(list)
}
