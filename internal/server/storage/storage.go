// Package storage wires the server's persistence backends: PostgreSQL for
// carrier profiles (and, by default, presence records) plus an optional
// Redis backend for presence. Schema migrations run through goose against
// the embedded migration files.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/freightdesk/presence/internal/server/config"
	"github.com/freightdesk/presence/internal/server/migrations"
	"github.com/freightdesk/presence/internal/server/repositories/carriers"
	"github.com/freightdesk/presence/internal/server/repositories/presence"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

// Manager owns the storage connections and vends repositories bound to them.
type Manager struct {
	db    *sql.DB
	redis *redis.Client

	presenceRepo presence.Repository
	carrierRepo  carriers.Repository
}

// gooseUpContext is a seam for testing migration wiring.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to PostgreSQL, runs migrations, and connects to Redis for
// presence records when cfg.PresenceStore selects it. Carrier profiles
// always live in PostgreSQL.
func Open(ctx context.Context, cfg *config.Config) (*Manager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	m := &Manager{
		db:          db,
		carrierRepo: carriers.NewPostgresRepository(db),
	}

	switch cfg.PresenceStore {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		m.redis = client
		m.presenceRepo = presence.NewRedisRepository(client, cfg.PresenceTTL)
	default:
		m.presenceRepo = presence.NewPostgresRepository(db)
	}

	return m, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Presence returns the presence repository for the configured backend.
func (m *Manager) Presence() presence.Repository { return m.presenceRepo }

// Carriers returns the carrier profile repository.
func (m *Manager) Carriers() carriers.Repository { return m.carrierRepo }

// Ping checks the liveness of every configured backend.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases all storage connections.
func (m *Manager) Close() error {
	if m.redis != nil {
		_ = m.redis.Close()
	}
	return m.db.Close()
}
