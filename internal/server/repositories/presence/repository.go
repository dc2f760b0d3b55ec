// Package presence provides storage for the latest position record per
// carrier. The only write path is an upsert keyed by carrier id, which keeps
// concurrent reports for the same carrier serialized at the storage layer.
package presence

import (
	"context"
	"time"

	"github.com/freightdesk/presence/internal/server/models"
)

type Repository interface {
	// Upsert writes rec as the whole record for rec.CarrierID, creating it
	// if absent, and returns the stored record with the server-assigned
	// UpdatedAt.
	Upsert(ctx context.Context, rec *models.PresenceRecord) (*models.PresenceRecord, error)

	// Get returns the record for carrierID or common.ErrorNotFound.
	Get(ctx context.Context, carrierID string) (*models.PresenceRecord, error)

	// ActiveSince returns all active records updated at or after cutoff,
	// optionally filtered by carrier class (empty class matches all).
	ActiveSince(ctx context.Context, cutoff time.Time, carrierClass string) ([]*models.PresenceRecord, error)
}
