package config

import (
	"flag"
	"os"
	"time"

	"github.com/freightdesk/presence/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-store string  presence store backend: "postgres" or "redis"
//	-r string   Redis address (host:port)
//	-p string   Redis password
//	-f int      default freshness window, minutes
//	-k float    default proximity radius, km
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-store", "-r", "-p", "-f", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.PresenceStore, "store", config.PresenceStore, "presence store backend (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "p", config.RedisPassword, "redis password")

	defaultFreshness := fs.Int("f", int(config.DefaultFreshness.Minutes()), "default freshness window (in minutes)")
	fs.Float64Var(&config.DefaultRadiusKm, "k", config.DefaultRadiusKm, "default proximity radius (km)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DefaultFreshness = time.Duration(*defaultFreshness) * time.Minute
}
