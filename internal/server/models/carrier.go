package models

// Carrier is the identity/profile record proximity results are enriched
// from. Visible is the server-side half of the online/offline toggle.
type Carrier struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehiclePlate string `json:"vehiclePlate"`
	Class        string `json:"class"`
	Visible      bool   `json:"visible"`
}
