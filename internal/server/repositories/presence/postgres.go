package presence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/dbx"
	"github.com/freightdesk/presence/internal/server/models"
)

// PostgresRepository implements presence storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const upsertQuery = `
	INSERT INTO presence (carrier_id, latitude, longitude, accuracy, speed, heading, reported_at, carrier_class, is_active, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	ON CONFLICT (carrier_id)
	DO UPDATE SET
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		accuracy = EXCLUDED.accuracy,
		speed = EXCLUDED.speed,
		heading = EXCLUDED.heading,
		reported_at = EXCLUDED.reported_at,
		carrier_class = EXCLUDED.carrier_class,
		is_active = EXCLUDED.is_active,
		updated_at = now()
	RETURNING carrier_id, latitude, longitude, accuracy, speed, heading, reported_at, carrier_class, is_active, updated_at;
`

// Upsert performs a full-field overwrite keyed by carrier id. The row's
// updated_at is assigned by the database, so it is monotonic per carrier
// regardless of which concurrent write lands last.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.PresenceRecord) (*models.PresenceRecord, error) {
	row := r.db.QueryRowContext(ctx, upsertQuery,
		rec.CarrierID, rec.Latitude, rec.Longitude, rec.Accuracy, rec.Speed, rec.Heading,
		rec.ReportedAt, rec.CarrierClass, rec.IsActive)

	stored, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert presence: %v", common.ErrorUnavailable, err)
	}
	return stored, nil
}

// Get returns the presence record for carrierID.
func (r *PostgresRepository) Get(ctx context.Context, carrierID string) (*models.PresenceRecord, error) {
	query := `
		SELECT carrier_id, latitude, longitude, accuracy, speed, heading, reported_at, carrier_class, is_active, updated_at
		FROM presence WHERE carrier_id = $1
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, carrierID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get presence: %v", common.ErrorUnavailable, err)
	}
	return rec, nil
}

// ActiveSince selects the freshness window: active records whose server
// receipt time is at or after cutoff, optionally filtered by class.
func (r *PostgresRepository) ActiveSince(ctx context.Context, cutoff time.Time, carrierClass string) ([]*models.PresenceRecord, error) {
	query := `
		SELECT carrier_id, latitude, longitude, accuracy, speed, heading, reported_at, carrier_class, is_active, updated_at
		FROM presence
		WHERE is_active = TRUE AND updated_at >= $1 AND ($2 = '' OR carrier_class = $2)
	`
	rows, err := r.db.QueryContext(ctx, query, cutoff, carrierClass)
	if err != nil {
		return nil, fmt.Errorf("%w: select active presence: %v", common.ErrorUnavailable, err)
	}
	defer rows.Close()

	var result []*models.PresenceRecord
	for rows.Next() {
		var rec models.PresenceRecord
		if err := rows.Scan(
			&rec.CarrierID, &rec.Latitude, &rec.Longitude, &rec.Accuracy, &rec.Speed, &rec.Heading,
			&rec.ReportedAt, &rec.CarrierClass, &rec.IsActive, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan presence row: %v", common.ErrorUnavailable, err)
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate presence rows: %v", common.ErrorUnavailable, err)
	}
	return result, nil
}

func scanRecord(row *sql.Row) (*models.PresenceRecord, error) {
	var rec models.PresenceRecord
	err := row.Scan(
		&rec.CarrierID, &rec.Latitude, &rec.Longitude, &rec.Accuracy, &rec.Speed, &rec.Heading,
		&rec.ReportedAt, &rec.CarrierClass, &rec.IsActive, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
