// Package state persists the agent's local visibility flags in a small
// sqlite key-value table so they survive restarts.
package state

import "context"

const (
	KeyOnline          = "online"
	KeyLocationSharing = "location_sharing"
)

type Repository interface {
	GetBool(ctx context.Context, key string) (bool, error)
	LookupBool(ctx context.Context, key string) (value bool, found bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
}
