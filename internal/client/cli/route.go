package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/freightdesk/presence/internal/client/geoloc"
)

// routePoint is one entry of a recorded route file.
type routePoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
}

// LoadRoute reads a JSON array of route points for replay by the simulator.
func LoadRoute(path string) ([]geoloc.Fix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route file: %w", err)
	}

	var points []routePoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("parsing route file: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("route file %s contains no points", path)
	}

	route := make([]geoloc.Fix, 0, len(points))
	for _, p := range points {
		route = append(route, geoloc.Fix{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Accuracy:  p.Accuracy,
			Speed:     p.Speed,
			Heading:   p.Heading,
		})
	}
	return route, nil
}
