package geoloc

import (
	"context"
	"sync"
	"time"
)

// Simulator replays a fixed route of fixes. It is used by the agent binary
// when no real positioning source is available and by tests.
type Simulator struct {
	route    []Fix
	interval time.Duration

	mu   sync.Mutex
	next int
}

func NewSimulator(route []Fix, interval time.Duration) *Simulator {
	return &Simulator{route: route, interval: interval}
}

// Current returns the next fix on the route, wrapping around at the end.
// An empty route reports ErrUnavailable.
func (s *Simulator) Current(_ context.Context, _ Options) (*Fix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.route) == 0 {
		return nil, ErrUnavailable
	}

	fix := s.route[s.next%len(s.route)]
	s.next++
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = time.Now().UTC()
	}
	return &fix, nil
}

type simulatorWatch struct {
	fixes  chan Fix
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *simulatorWatch) Fixes() <-chan Fix    { return w.fixes }
func (w *simulatorWatch) Errors() <-chan error { return w.errs }

func (w *simulatorWatch) Stop() {
	w.cancel()
	<-w.done
}

// Watch emits route fixes at the simulator interval until ctx is cancelled
// or Stop is called.
func (s *Simulator) Watch(ctx context.Context, opts Options) (Watch, error) {
	if len(s.route) == 0 {
		return nil, ErrUnavailable
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &simulatorWatch{
		fixes:  make(chan Fix),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		defer close(w.fixes)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fix, err := s.Current(ctx, opts)
				if err != nil {
					select {
					case w.errs <- err:
					default:
					}
					continue
				}
				select {
				case w.fixes <- *fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return w, nil
}
