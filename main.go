package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tahs-labs/historiographer/api"
	"github.com/tahs-labs/historiographer/audit"
	"github.com/tahs-labs/historiographer/config"
	"github.com/tahs-labs/historiographer/lineapi"
	"github.com/tahs-labs/historiographer/llm"
	"github.com/tahs-labs/historiographer/service"
	"github.com/tahs-labs/historiographer/store"
)

func main() {
	// Load configuration; missing credentials refuse to start.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting historiographer bot...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Snapshot: %s", cfg.SnapshotPath)
	log.Printf("Model: %s (timeout %s)", cfg.Model, cfg.ReplyTimeout)

	// Initialize store; prior conversations survive restarts.
	st := store.Open(cfg.SnapshotPath, cfg.SystemPrompt)
	if n := st.Count(); n > 0 {
		log.Printf("Restored %d conversations from snapshot", n)
	}

	// Initialize reply generator
	generator := llm.NewGenerator(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.Model, cfg.Temperature)

	// Initialize platform client (profile lookups + reply delivery)
	lineClient, err := lineapi.NewClient(cfg.LineChannelToken)
	if err != nil {
		log.Fatalf("Failed to create LINE client: %v", err)
	}

	// Initialize audit sink
	auditLog, closeAudit, err := newAuditLog(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize audit log: %v", err)
	}
	defer closeAudit()

	// Initialize service
	svc := service.New(st, generator, lineClient, auditLog, cfg)

	// Initialize handler
	h := api.NewHandler(svc, lineClient, st, cfg.LineChannelSecret)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Webhook endpoint started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	// One final flush; in-flight turns already saved write-through.
	if err := st.Save(); err != nil {
		log.Printf("Failed to save final snapshot: %v", err)
	}

	log.Println("Historiographer bot stopped")
}

func newAuditLog(cfg *config.Config) (audit.Log, func(), error) {
	if cfg.SheetID != "" {
		sheetsLog, err := audit.NewSheetsLog(context.Background(), cfg.SheetCredentials, cfg.SheetID)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Audit log: Google Sheet %s", cfg.SheetID)
		return sheetsLog, func() {}, nil
	}

	sqliteLog, err := audit.NewSQLiteLog(cfg.AuditDBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Audit log: SQLite %s", cfg.AuditDBPath)
	return sqliteLog, func() { _ = sqliteLog.Close() }, nil
}
