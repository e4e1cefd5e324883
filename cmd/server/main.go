package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/logging"
	"github.com/me/credsched/internal/server"
	"github.com/me/credsched/internal/store"
	"github.com/me/credsched/pkg/model"
)

func main() {
	cfg := config.DefaultServerConfig()
	sim := config.DefaultSimulationConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "Abort runs after this many scheduler iterations (0 = unlimited)")
	flag.IntVar(&cfg.MaxUnits, "max-units", cfg.MaxUnits, "Abort runs after this many executed CPU units (0 = unlimited)")
	policy := flag.String("policy", string(sim.BurstPolicy), "Default burst policy for submitted workloads (yield, drain)")
	noHeartbeat := flag.Bool("no-heartbeat", false, "Default submitted workloads to no per-iteration heartbeat")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	sim.BurstPolicy = model.BurstPolicy(*policy)
	if !sim.BurstPolicy.IsValid() {
		fmt.Fprintf(os.Stderr, "unknown burst policy %q\n", *policy)
		os.Exit(2)
	}
	sim.Heartbeat = !*noHeartbeat
	sim.MaxTicks = cfg.MaxTicks
	sim.MaxUnits = cfg.MaxUnits

	// The run registry lives in memory for the lifetime of the process.
	st, err := store.NewSQLiteStore(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("run registry ready", "dsn", store.MemoryDSN)

	srv := server.New(cfg, st, logger, server.WithSimulationConfig(sim))

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "policy", sim.BurstPolicy, "heartbeat", sim.Heartbeat)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
