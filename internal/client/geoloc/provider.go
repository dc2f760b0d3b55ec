// Package geoloc abstracts device geolocation behind a provider interface.
// Implementations may wrap a platform positioning service or replay recorded
// routes; callers only see fixes and a small set of failure categories.
package geoloc

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnsupported      = errors.New("geolocation not supported")
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("position unavailable")
	ErrTimeout          = errors.New("position request timed out")
)

// Fix is a single position sample. Speed and Heading are optional:
// providers that cannot derive them leave the pointers nil.
type Fix struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	Speed      *float64
	Heading    *float64
	CapturedAt time.Time
}

// Options tune how a provider acquires fixes.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Watch is a continuous stream of fixes. Errors delivers recoverable
// acquisition failures without closing the stream. Stop releases the
// underlying watcher; after Stop returns no further values are sent.
type Watch interface {
	Fixes() <-chan Fix
	Errors() <-chan error
	Stop()
}

// Provider acquires positions from some location source.
type Provider interface {
	Current(ctx context.Context, opts Options) (*Fix, error)
	Watch(ctx context.Context, opts Options) (Watch, error)
}

// Describe maps a provider error to a short human-readable explanation.
// Unknown errors fall through to err.Error().
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "location services are not supported on this device"
	case errors.Is(err, ErrPermissionDenied):
		return "location permission was denied"
	case errors.Is(err, ErrUnavailable):
		return "current position could not be determined"
	case errors.Is(err, ErrTimeout):
		return "timed out waiting for a position"
	default:
		return err.Error()
	}
}
