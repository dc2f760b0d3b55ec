// Package agent runs the background location reporting loop. A session
// subscribes to device fixes, keeps the freshest one in memory, and sends
// it to the server on its own fixed cadence. Fix arrival and sending are
// deliberately decoupled: a burst of device fixes never produces a burst
// of network calls, and a quiet device still gets its last known position
// reported.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/freightdesk/presence/internal/client/api"
	"github.com/freightdesk/presence/internal/client/geoloc"
	"github.com/freightdesk/presence/internal/logging"
)

type Config struct {
	SendInterval time.Duration
	CarrierClass string
	Geoloc       geoloc.Options
}

type Session struct {
	cfg      Config
	provider geoloc.Provider
	client   api.Client
	logger   logging.Logger

	// tick is a seam for tests to control the send cadence.
	tick func(d time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	lastFix *geoloc.Fix

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(cfg Config, provider geoloc.Provider, client api.Client, logger logging.Logger) *Session {
	return &Session{
		cfg:      cfg,
		provider: provider,
		client:   client,
		logger:   logger,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start subscribes to the provider and launches the reporting loop. An
// already running session is stopped first, so restart is not an error.
// Start fails only if the watch itself cannot be established.
func (s *Session) Start(ctx context.Context) error {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)

	watch, err := s.provider.Watch(ctx, s.cfg.Geoloc)
	if err != nil {
		cancel()
		return err
	}

	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, watch)
	return nil
}

// Active reports whether a reporting loop is currently running.
func (s *Session) Active() bool {
	if s.cancel == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// CurrentPosition performs a single-shot fetch and caches the result so a
// later send tick can use it.
func (s *Session) CurrentPosition(ctx context.Context) (*geoloc.Fix, error) {
	fix, err := s.provider.Current(ctx, s.cfg.Geoloc)
	if err != nil {
		return nil, err
	}
	s.cacheFix(*fix)
	return fix, nil
}

// Stop terminates the loop and waits for it to exit. After Stop returns
// the session performs no further network calls.
func (s *Session) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

// LastFix returns the freshest cached fix, or nil before the first one.
func (s *Session) LastFix() *geoloc.Fix {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFix == nil {
		return nil
	}
	fix := *s.lastFix
	return &fix
}

func (s *Session) run(ctx context.Context, watch geoloc.Watch) {
	defer close(s.done)
	defer watch.Stop()

	sendC, stopTick := s.tick(s.cfg.SendInterval)
	defer stopTick()

	// One immediate fetch and send, so the carrier shows up right away
	// instead of after the first full interval.
	if fix, err := s.provider.Current(ctx, s.cfg.Geoloc); err != nil {
		s.logger.Warn(ctx, "initial position fetch failed", "reason", geoloc.Describe(err))
	} else {
		s.cacheFix(*fix)
		s.send(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case fix, ok := <-watch.Fixes():
			if !ok {
				return
			}
			s.cacheFix(fix)
		case err := <-watch.Errors():
			s.logger.Warn(ctx, "position acquisition failed", "reason", geoloc.Describe(err))
		case <-sendC:
			s.send(ctx)
		}
	}
}

// cacheFix replaces the cached fix unless the new one is older than what
// we already hold. Providers may deliver out of order after a wakeup.
func (s *Session) cacheFix(fix geoloc.Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFix != nil && fix.CapturedAt.Before(s.lastFix.CapturedAt) {
		return
	}
	s.lastFix = &fix
}

func (s *Session) send(ctx context.Context) {
	fix := s.LastFix()
	if fix == nil {
		return
	}

	report := api.PositionReport{
		Latitude:     fix.Latitude,
		Longitude:    fix.Longitude,
		ReportedAt:   &fix.CapturedAt,
		Speed:        fix.Speed,
		Heading:      fix.Heading,
		CarrierClass: s.cfg.CarrierClass,
	}
	if fix.Accuracy > 0 {
		acc := fix.Accuracy
		report.Accuracy = &acc
	}

	if err := s.client.Report(ctx, report); err != nil {
		s.logger.Warn(ctx, "position report failed", "error", err.Error())
	}
}
