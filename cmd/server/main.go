/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the broker client sync service: configuration,
  store, notification sender, router, graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env honored for development)
  2. Parse command-line flag overrides
  3. Initialize SQLite-backed record store
  4. Pick the notification sender (simulated WhatsApp or SMTP)
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides HTTP_PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database
  -env     Path to the .env file (default ".env")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database
  4. Exit
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/brokerkit/client-sync/api"
	"github.com/brokerkit/client-sync/config"
	"github.com/brokerkit/client-sync/ingest"
	"github.com/brokerkit/client-sync/notify"
	"github.com/brokerkit/client-sync/store/sqlite"
)

func main() {
	envPath := flag.String("env", ".env", "path to .env file")
	port := flag.Int("port", 0, "HTTP server port (overrides HTTP_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	flag.Parse()

	cfg, err := config.New(*envPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, newSender(cfg), newUniqueID(cfg))
	if cfg.NotifySender == config.SenderSMTP {
		handler.Recipient = func(rec ingest.ClientRecord) string { return rec.Email }
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d (store: %s, sender: %s)",
			cfg.HTTPPort, cfg.DBPath, cfg.NotifySender)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// newSender picks the campaign delivery channel from configuration.
func newSender(cfg config.Config) notify.Sender {
	if cfg.NotifySender == config.SenderSMTP {
		return notify.NewEmailSender(
			cfg.MailerHost, cfg.MailerPort,
			cfg.MailerLogin, cfg.MailerPassword,
			cfg.MailerFrom, cfg.MailerSubject,
		)
	}
	return &notify.SimulatedWhatsApp{Logger: log.Default()}
}

// newUniqueID returns the internal-id generator for appended records, or
// nil when deployments assign ids externally.
func newUniqueID(cfg config.Config) func() string {
	if !cfg.AssignUniqueIDs {
		return nil
	}
	return func() string {
		id, err := uuid.NewV4()
		if err != nil {
			return ""
		}
		return id.String()
	}
}
