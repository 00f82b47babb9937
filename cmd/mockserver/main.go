package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/mockserver/internal/config"
	"github.com/jroosing/mockserver/internal/logging"
	"github.com/jroosing/mockserver/internal/server"
)

func main() {
	var (
		jsonLogs  = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug     = flag.Bool("debug", false, "Enable debug logging")
		admin     = flag.Bool("admin", false, "Enable the admin API (health, stats, config)")
		adminPort = flag.Int("admin-port", config.DefaultAdminPort, "Admin API port (loopback only)")
	)
	flag.Parse()

	cfg := config.Default()
	cfg.ApplyEnv()
	if *jsonLogs {
		cfg.Logging.JSON = true
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	cfg.Admin.Enabled = *admin
	cfg.Admin.Port = *adminPort

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		JSON:        cfg.Logging.JSON,
		IncludePID:  cfg.Logging.IncludePID,
		ExtraFields: cfg.Logging.ExtraFields,
	})
	logger.Debug("mockserver starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"admin", cfg.Admin.Enabled,
	)

	runner := server.NewRunner(logger, os.Stdout)
	if err := runner.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "mockserver: %v\n", err)
		os.Exit(1)
	}
}
