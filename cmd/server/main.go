/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ERP ROI engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, .env, ROI_* environment, flags)
  2. Configure zerolog
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port           HTTP server port (default: 8080)
  -db             SQLite database path (default: roi.db)
                  Use ":memory:" for in-memory database
  -log-level      debug, info, warn, error (default: info)
  -log-format     json or console (default: json)
  -mc-iterations  Default Monte Carlo iterations (default: 1000)
  -mc-workers     Monte Carlo workers, 0 = GOMAXPROCS
  -origins        Comma-separated CORS origins

ENVIRONMENT:
  Every flag has a ROI_* variable (ROI_PORT, ROI_DB_PATH, ...). Flags win.
  A .env file in the working directory is read when present.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with in-memory database and readable logs
  ./server -db=":memory:" -log-format=console

  # Run on different port
  ROI_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/roi-engine/api"
	"github.com/warp/roi-engine/config"
	"github.com/warp/roi-engine/logging"
	"github.com/warp/roi-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logging.Fatal(err, "Failed to initialize database")
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.MCIterations = cfg.MCIterations
	handler.MCWorkers = cfg.MCWorkers
	handler.MaxIterations = config.MaxIterations

	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Simulations can run longer than a plain calculation.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.Port).
			Str("db", cfg.DBPath).
			Int("mc_iterations", cfg.MCIterations).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal(err, "Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logger.Info().Msg("Server stopped")
}
