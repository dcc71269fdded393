package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rewardpool/internal/api"
	"rewardpool/internal/clock"
	"rewardpool/internal/config"
	"rewardpool/internal/pool"
	"rewardpool/internal/recorder"
	"rewardpool/internal/scheduler"
	"rewardpool/internal/transfer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] rewardpool starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init transferer
	var tr transfer.Transferer
	if cfg.Gateway.BaseURL != "" {
		tr = transfer.NewGatewayTransferer(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Proxy)
	} else {
		tr = transfer.NewDryRunTransferer()
	}
	log.Printf("[INFO] transferer: %s", tr.Name())

	// Init pool ledger
	pm, err := pool.NewManager(cfg.Pool.StateFile, cfg.Pool.DistributionYears, cfg.Pool.InitialFunding, clock.System{}, tr)
	if err != nil {
		log.Fatalf("[FATAL] init pool ledger: %v", err)
	}
	stat := pm.Stat()
	log.Printf("[INFO] pool ready: reserve=%d principal=%d years=%d", stat.Reserve, stat.TotalPrincipal, stat.DistributionYears)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, pm, rec)
	if err := sched.RegisterAll(cfg.Schedule.SnapshotCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP API
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(pm, rec).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] rewardpool is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] rewardpool stopped")
}
