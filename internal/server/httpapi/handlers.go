package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/metrics"
	"github.com/freightdesk/presence/internal/server/presence"
)

// reportRequest is the body of POST /api/v1/presence/report. The carrier id
// is taken from the authenticated identity, never from the body.
type reportRequest struct {
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	ReportedAt   *time.Time `json:"reportedAt"`
	Accuracy     *float64   `json:"accuracy"`
	Speed        *float64   `json:"speed"`
	Heading      *float64   `json:"heading"`
	CarrierClass string     `json:"carrierClass"`
	IsActive     *bool      `json:"isActive"`
}

type statusResponse struct {
	Online bool `json:"online"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	carrierID := CarrierIDFromContext(r.Context())

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrorValidation))
		return
	}

	record, err := s.service.Report(r.Context(), presence.ReportParams{
		CarrierID:    carrierID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ReportedAt:   req.ReportedAt,
		Accuracy:     req.Accuracy,
		Speed:        req.Speed,
		Heading:      req.Heading,
		CarrierClass: req.CarrierClass,
		IsActive:     req.IsActive,
	})
	if err != nil {
		s.logger.Error(r.Context(), "position report rejected", "carrier_id", carrierID, "error", err.Error())
		writeError(w, err)
		return
	}

	metrics.ReportsTotal.Inc()
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	freshness, err := s.freshnessParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	carrierClass := r.URL.Query().Get("carrierClass")

	results, err := s.service.ListActive(r.Context(), freshness, carrierClass)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleFindNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	latitude, err := requiredFloat(q.Get("latitude"), "latitude")
	if err != nil {
		writeError(w, err)
		return
	}
	longitude, err := requiredFloat(q.Get("longitude"), "longitude")
	if err != nil {
		writeError(w, err)
		return
	}

	radiusKm := s.defaultRadiusKm
	if raw := q.Get("radiusKm"); raw != "" {
		radiusKm, err = requiredFloat(raw, "radiusKm")
		if err != nil {
			writeError(w, err)
			return
		}
	}

	freshness, err := s.freshnessParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := s.service.FindNearby(r.Context(), latitude, longitude, radiusKm, freshness, q.Get("carrierClass"))
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.ProximityQueriesTotal.Inc()
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	carrierID := CarrierIDFromContext(r.Context())

	online, err := s.service.Visibility(r.Context(), carrierID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Online: online})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	carrierID := CarrierIDFromContext(r.Context())

	var req statusResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrorValidation))
		return
	}

	if err := s.service.SetVisibility(r.Context(), carrierID, req.Online); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Online: req.Online})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) freshnessParam(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("freshnessMinutes")
	if raw == "" {
		return s.defaultFreshness, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%w: freshnessMinutes must be a positive integer", common.ErrorValidation)
	}
	return time.Duration(minutes) * time.Minute, nil
}

func requiredFloat(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", common.ErrorValidation, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", common.ErrorValidation, name)
	}
	return v, nil
}
