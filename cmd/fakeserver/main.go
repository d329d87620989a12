// Command fakeserver serves the session API from memory for local demos.
package main

import (
	"log"
	"os"

	"github.com/alkime/sessions/internal/config"
	"github.com/alkime/sessions/internal/logger"
	"github.com/alkime/sessions/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	lg := logger.SetupLogger(cfg, os.Stdout)

	lg.Info("Starting fake session server",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	if err := server.Run(server.New(cfg, lg)); err != nil {
		lg.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
