package config

import (
	"encoding/json"
	"os"

	"github.com/freightdesk/presence/internal/flagx"
	"github.com/freightdesk/presence/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "30s" or as integer nanoseconds (timex.Duration).
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	DatabaseDSN    string         `json:"database_dsn"`
	Token          string         `json:"token"`
	CarrierClass   string         `json:"carrier_class"`
	SendInterval   timex.Duration `json:"send_interval"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RoutePath      string         `json:"route_path"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Missing file path means no overlay. Read or
// unmarshal errors panic; the intended order is defaults -> parseJson ->
// parseFlags, later stages overriding earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.CarrierClass != "" {
		cfg.CarrierClass = jc.CarrierClass
	}
	if jc.SendInterval.Duration != 0 {
		cfg.SendInterval = jc.SendInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RoutePath != "" {
		cfg.RoutePath = jc.RoutePath
	}
}
