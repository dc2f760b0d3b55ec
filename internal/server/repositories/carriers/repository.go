// Package carriers provides storage for carrier identity/profile records.
// The back office owns most profile fields; this core reads them for
// enrichment and owns the server-side visibility flag.
package carriers

import (
	"context"

	"github.com/freightdesk/presence/internal/server/models"
)

type Repository interface {
	// Get returns the profile for carrierID or common.ErrorNotFound.
	Get(ctx context.Context, carrierID string) (*models.Carrier, error)

	// Upsert creates or overwrites a profile keyed by id.
	Upsert(ctx context.Context, c *models.Carrier) error

	// SetVisible updates the server-side online/offline flag.
	SetVisible(ctx context.Context, carrierID string, visible bool) error

	// Visible reads the server-side online/offline flag.
	Visible(ctx context.Context, carrierID string) (bool, error)
}
