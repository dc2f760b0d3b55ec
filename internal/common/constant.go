// Package common contains shared constants and sentinel errors used across
// presence components.
package common

// Carrier classes recognized by the marketplace. Freelance carriers are
// independent operators; fleet carriers belong to a managed company fleet.
const (
	CarrierClassFreelance = "freelance"
	CarrierClassFleet     = "fleet"
)
