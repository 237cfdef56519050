// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log" // Standard log for startup/shutdown messages outside zap
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigmarket_backend/internal/config"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "sync-gigs" {
		syncGigsCmd := flag.NewFlagSet("sync-gigs", flag.ExitOnError)
		timeout := syncGigsCmd.Duration("timeout", 5*time.Minute, "Maximum duration of the sync run")
		_ = syncGigsCmd.Parse(os.Args[2:])

		if err := runGigSync(*timeout); err != nil {
			log.Fatalf("FATAL: Gig index synchronization failed: %v", err)
		}
		return
	}

	startServer()
}

// runGigSync pushes every stored gig to Elasticsearch once and exits.
func runGigSync(timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.ElasticsearchURL == "" {
		log.Println("WARN: ELASTICSEARCH_URL is not set; nothing to sync.")
		return nil
	}

	job, cleanup, err := initializeIndexSync(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	synced, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	log.Printf("INFO: Indexed %d gigs.", synced)
	return nil
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
