package config

import (
	"flag"
	"os"
	"time"

	"github.com/freightdesk/presence/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string      base URL of the presence server (default from Config)
//	-d string      path to the local state database
//	-t string      carrier access token
//	-class string  carrier class sent with position reports
//	-i int         send interval in seconds (default from Config)
//	-route string  path to a recorded route to replay instead of a live source
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-class", "-i", "-route"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the presence server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path to the local state database")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "carrier access token")
	fs.StringVar(&cfg.CarrierClass, "class", cfg.CarrierClass, "carrier class sent with position reports")
	sendInterval := fs.Int("i", int(cfg.SendInterval.Seconds()), "send interval (in seconds)")
	fs.StringVar(&cfg.RoutePath, "route", cfg.RoutePath, "path to a recorded route to replay")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SendInterval = time.Duration(*sendInterval) * time.Second
}
