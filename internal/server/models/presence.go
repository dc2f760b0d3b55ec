package models

import "time"

// PresenceRecord is the single server-side position record kept per carrier.
// Writes are upserts keyed by CarrierID; UpdatedAt is assigned by the server
// on every successful write and is non-decreasing per carrier.
type PresenceRecord struct {
	CarrierID    string    `json:"carrierId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     *float64  `json:"accuracy"`
	Speed        *float64  `json:"speed"`
	Heading      *float64  `json:"heading"`
	ReportedAt   time.Time `json:"reportedAt"`
	CarrierClass string    `json:"carrierClass"`
	IsActive     bool      `json:"isActive"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProximityResult is a presence record enriched with the carrier's profile
// and, for radius queries, the computed great-circle distance. DistanceKm is
// nil on listing results where no reference point exists; a radius query
// always sets it, including the 0.00 of a carrier at the reference point.
// Carrier is nil when no identity record exists for the carrier id; a
// dangling presence record must not break the query.
type ProximityResult struct {
	PresenceRecord
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	Carrier    *Carrier `json:"carrier"`
}
