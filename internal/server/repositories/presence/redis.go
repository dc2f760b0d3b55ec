package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "presence:"

// RedisRepository keeps presence records as JSON values keyed by carrier id.
// The TTL is hygiene only: the freshness window is still enforced query-side,
// so a record never expires out from under a wide-freshness query.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisRepository constructs a repository over the given client. Records
// are written with the given TTL (zero means no expiry).
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl, now: time.Now}
}

func redisKey(carrierID string) string {
	return redisKeyPrefix + carrierID
}

// Upsert replaces the whole record for rec.CarrierID. The SET is atomic, so
// concurrent reports for one carrier cannot interleave fields; updated_at is
// assigned here before the write.
func (r *RedisRepository) Upsert(ctx context.Context, rec *models.PresenceRecord) (*models.PresenceRecord, error) {
	stored := *rec
	stored.UpdatedAt = r.now().UTC()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal presence record: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(rec.CarrierID), data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: set presence: %v", common.ErrorUnavailable, err)
	}
	return &stored, nil
}

// Get returns the record for carrierID or common.ErrorNotFound.
func (r *RedisRepository) Get(ctx context.Context, carrierID string) (*models.PresenceRecord, error) {
	data, err := r.client.Get(ctx, redisKey(carrierID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get presence: %v", common.ErrorUnavailable, err)
	}
	var rec models.PresenceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal presence record: %w", err)
	}
	return &rec, nil
}

// ActiveSince scans all presence keys with SCAN (never KEYS, which blocks the
// server) and filters by activity, freshness cutoff and class in application
// code. There is no geo index by design.
func (r *RedisRepository) ActiveSince(ctx context.Context, cutoff time.Time, carrierClass string) ([]*models.PresenceRecord, error) {
	var (
		cursor uint64
		result []*models.PresenceRecord
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: scan presence keys: %v", common.ErrorUnavailable, err)
		}
		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				// Expired between SCAN and GET.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: get presence: %v", common.ErrorUnavailable, err)
			}
			var rec models.PresenceRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal presence record: %w", err)
			}
			if !rec.IsActive || rec.UpdatedAt.Before(cutoff) {
				continue
			}
			if carrierClass != "" && rec.CarrierClass != carrierClass {
				continue
			}
			result = append(result, &rec)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return result, nil
}
