package carriers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/dbx"
	"github.com/freightdesk/presence/internal/server/models"
)

// PostgresRepository implements carrier profile storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, carrierID string) (*models.Carrier, error) {
	query := `SELECT id, name, phone, vehicle_plate, class, visible FROM carriers WHERE id = $1`

	var c models.Carrier
	err := r.db.QueryRowContext(ctx, query, carrierID).
		Scan(&c.ID, &c.Name, &c.Phone, &c.VehiclePlate, &c.Class, &c.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get carrier: %v", common.ErrorUnavailable, err)
	}
	return &c, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Carrier) error {
	query := `
		INSERT INTO carriers (id, name, phone, vehicle_plate, class, visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			vehicle_plate = EXCLUDED.vehicle_plate,
			class = EXCLUDED.class,
			visible = EXCLUDED.visible;
	`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Phone, c.VehiclePlate, c.Class, c.Visible); err != nil {
		return fmt.Errorf("%w: upsert carrier: %v", common.ErrorUnavailable, err)
	}
	return nil
}

func (r *PostgresRepository) SetVisible(ctx context.Context, carrierID string, visible bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE carriers SET visible = $2 WHERE id = $1`, carrierID, visible)
	if err != nil {
		return fmt.Errorf("%w: set carrier visibility: %v", common.ErrorUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrorUnavailable, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Visible(ctx context.Context, carrierID string) (bool, error) {
	var visible bool
	err := r.db.QueryRowContext(ctx, `SELECT visible FROM carriers WHERE id = $1`, carrierID).Scan(&visible)
	if errors.Is(err, sql.ErrNoRows) {
		return false, common.ErrorNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: get carrier visibility: %v", common.ErrorUnavailable, err)
	}
	return visible, nil
}
