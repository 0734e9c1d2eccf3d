package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
)

// Service keeps a current session loaded and replaces it when the UTC day
// rolls over.
type Service struct {
	loader   *Loader
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	loadMu sync.Mutex // serializes loads

	mu      sync.RWMutex
	current *Session
}

// NewService creates a Service that checks for a new day every interval.
func NewService(loader *Loader, clock clockwork.Clock, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:   loader,
		clock:    clock,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Current returns the live session, or nil before the first successful load.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CheckReadiness returns nil once a page has been loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.Current() == nil {
		return errors.New("no NEO page has been loaded yet")
	}
	return nil
}

// Reload loads the feed now and swaps in the new session, disposing the old
// one. On failure the previous session stays live.
func (s *Service) Reload(ctx context.Context) (*Session, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	next, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
		s.logger.Info("previous session disposed", "fetch_date", prev.Page.FetchDate())
	}
	return next, nil
}

// Resize applies vp to the live session and to future loads. It returns the
// number of scenes updated.
func (s *Service) Resize(vp page.Viewport) int {
	s.loader.SetViewport(vp)
	cur := s.Current()
	if cur == nil {
		return 0
	}
	return cur.Registry.Resize(vp)
}

// Run loads once, then loads again the first time a tick sees a new UTC date. It blocks until ctx is cancelled and disposes the live
// session on exit.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("refresh service started", "interval", s.interval)
	s.metrics.ServiceRunning.Set(1)
	defer s.metrics.ServiceRunning.Set(0)

	attempted := domain.Today()
	s.reloadLogged(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh service stopping", "reason", ctx.Err())
			s.shutdown()
			return nil
		case <-ticker.Chan():
			// One attempt per UTC day; a failed load waits for the next day
			// or a forced Reload.
			today := domain.Today()
			if today == attempted {
				continue
			}
			attempted = today
			s.reloadLogged(ctx)
		}
	}
}

// reloadLogged reloads; the loader has already logged any failure.
func (s *Service) reloadLogged(ctx context.Context) {
	if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("reload failed, keeping previous page", "error", err)
	}
}

func (s *Service) shutdown() {
	s.mu.Lock()
	cur := s.current
	s.current = nil
	s.mu.Unlock()
	if cur != nil {
		cur.Close()
	}
}
