// Package presence implements the server-side presence core: the single
// upsert write path for carrier position reports and the freshness-windowed
// read paths (active list and radius search).
package presence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/geo"
	"github.com/freightdesk/presence/internal/logging"
	"github.com/freightdesk/presence/internal/server/models"
	"github.com/freightdesk/presence/internal/server/repositories/carriers"
	presencerepo "github.com/freightdesk/presence/internal/server/repositories/presence"
)

// ReportParams is one position report from a carrier. CarrierID comes from
// the authenticated identity, never from the request body.
type ReportParams struct {
	CarrierID    string     `validate:"required"`
	Latitude     float64    `validate:"latitude"`
	Longitude    float64    `validate:"longitude"`
	ReportedAt   *time.Time
	Accuracy     *float64
	Speed        *float64
	Heading      *float64
	CarrierClass string
	IsActive     *bool
}

// Service is the presence store and proximity query engine.
type Service struct {
	repo     presencerepo.Repository
	carriers carriers.Repository
	logger   logging.Logger
	validate *validator.Validate

	// now is a seam for freshness-window tests.
	now func() time.Time
}

// NewService constructs the presence service over the given repositories.
func NewService(repo presencerepo.Repository, carrierRepo carriers.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		carriers: carrierRepo,
		logger:   logger.With("module", "presence_service"),
		validate: validator.New(),
		now:      time.Now,
	}
}

// Report validates p, applies defaults and upserts the carrier's presence
// record. It returns the post-write record so the caller can confirm what
// was actually stored, defaults included. Validation failures never mutate
// the store.
func (s *Service) Report(ctx context.Context, p ReportParams) (*models.PresenceRecord, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	rec := &models.PresenceRecord{
		CarrierID:    p.CarrierID,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Accuracy:     p.Accuracy,
		Speed:        p.Speed,
		Heading:      p.Heading,
		ReportedAt:   s.now().UTC(),
		CarrierClass: p.CarrierClass,
		IsActive:     true,
	}
	if p.ReportedAt != nil {
		rec.ReportedAt = p.ReportedAt.UTC()
	}
	if rec.CarrierClass == "" {
		rec.CarrierClass = s.declaredClass(ctx, p.CarrierID)
	}
	if p.IsActive != nil {
		rec.IsActive = *p.IsActive
	}

	stored, err := s.repo.Upsert(ctx, rec)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// FindNearby returns active carriers of the given class within radiusKm of
// the reference point, reported within the freshness window, sorted nearest
// first (ties broken by carrier id). Results are enriched with profile
// fields; a missing identity record yields nil enrichment, not an error.
func (s *Service) FindNearby(ctx context.Context, latitude, longitude, radiusKm float64, freshness time.Duration, carrierClass string) ([]models.ProximityResult, error) {
	if err := s.validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return []models.ProximityResult{}, nil
	}

	candidates, err := s.activeWindow(ctx, freshness, carrierClass)
	if err != nil {
		return nil, err
	}

	results := make([]models.ProximityResult, 0, len(candidates))
	for _, rec := range candidates {
		d := geo.RoundKm(geo.DistanceKm(latitude, longitude, rec.Latitude, rec.Longitude))
		if d > radiusKm {
			continue
		}
		results = append(results, models.ProximityResult{PresenceRecord: *rec, DistanceKm: &d})
	}

	sort.Slice(results, func(i, j int) bool {
		if *results[i].DistanceKm != *results[j].DistanceKm {
			return *results[i].DistanceKm < *results[j].DistanceKm
		}
		return results[i].CarrierID < results[j].CarrierID
	})

	s.enrich(ctx, results)
	return results, nil
}

// ListActive returns the freshness-filtered set without distance
// computation, for "who is online right now" views. Sorted by carrier id
// for determinism.
func (s *Service) ListActive(ctx context.Context, freshness time.Duration, carrierClass string) ([]models.ProximityResult, error) {
	candidates, err := s.activeWindow(ctx, freshness, carrierClass)
	if err != nil {
		return nil, err
	}

	results := make([]models.ProximityResult, 0, len(candidates))
	for _, rec := range candidates {
		results = append(results, models.ProximityResult{PresenceRecord: *rec})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CarrierID < results[j].CarrierID
	})

	s.enrich(ctx, results)
	return results, nil
}

// SetVisibility updates the server-side half of the carrier's online toggle.
func (s *Service) SetVisibility(ctx context.Context, carrierID string, visible bool) error {
	if carrierID == "" {
		return fmt.Errorf("%w: carrier id is required", common.ErrorValidation)
	}
	return s.carriers.SetVisible(ctx, carrierID, visible)
}

// Visibility reads the server-side half of the carrier's online toggle. An
// unknown carrier reads as offline rather than failing the status fetch.
func (s *Service) Visibility(ctx context.Context, carrierID string) (bool, error) {
	visible, err := s.carriers.Visible(ctx, carrierID)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return visible, err
}

// declaredClass resolves an omitted carrier class from the carrier's profile
// record. Carriers without a profile, or whose profile has no class yet,
// fall back to freelance.
func (s *Service) declaredClass(ctx context.Context, carrierID string) string {
	carrier, err := s.carriers.Get(ctx, carrierID)
	if err != nil || carrier.Class == "" {
		return common.CarrierClassFreelance
	}
	return carrier.Class
}

func (s *Service) activeWindow(ctx context.Context, freshness time.Duration, carrierClass string) ([]*models.PresenceRecord, error) {
	cutoff := s.now().Add(-freshness)
	return s.repo.ActiveSince(ctx, cutoff, carrierClass)
}

func (s *Service) validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", common.ErrorValidation)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", common.ErrorValidation)
	}
	return nil
}

// enrich joins profile fields onto each result. Individual lookup failures
// are logged and leave nil enrichment; they must not abort the batch.
func (s *Service) enrich(ctx context.Context, results []models.ProximityResult) {
	for i := range results {
		carrier, err := s.carriers.Get(ctx, results[i].CarrierID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "carrier enrichment failed",
					"carrier_id", results[i].CarrierID, "error", err.Error())
			}
			continue
		}
		results[i].Carrier = carrier
	}
}
