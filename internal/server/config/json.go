package config

import (
	"encoding/json"
	"os"

	"github.com/freightdesk/presence/internal/flagx"
	"github.com/freightdesk/presence/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "15m" or as integer nanoseconds (timex.Duration).
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	PresenceStore    string         `json:"presence_store"`
	RedisAddr        string         `json:"redis_addr"`
	RedisPassword    string         `json:"redis_password"`
	RedisDB          *int           `json:"redis_db"`
	SecretKey        string         `json:"secret_key"`
	DefaultFreshness timex.Duration `json:"default_freshness"`
	DefaultRadiusKm  *float64       `json:"default_radius_km"`
	PresenceTTL      timex.Duration `json:"presence_ttl"`
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

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.PresenceStore != "" {
		cfg.PresenceStore = jc.PresenceStore
	}
	if jc.RedisAddr != "" {
		cfg.RedisAddr = jc.RedisAddr
	}
	if jc.RedisPassword != "" {
		cfg.RedisPassword = jc.RedisPassword
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.DefaultFreshness.Duration != 0 {
		cfg.DefaultFreshness = jc.DefaultFreshness.Duration
	}
	if jc.DefaultRadiusKm != nil {
		cfg.DefaultRadiusKm = *jc.DefaultRadiusKm
	}
	if jc.PresenceTTL.Duration != 0 {
		cfg.PresenceTTL = jc.PresenceTTL.Duration
	}
}
