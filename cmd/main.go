// apptracker — job application tracker.
//
// Lifecycle state machine for job applications with an immutable status
// audit trail and per-owner access control. Exposes a REST API:
//   - register/login with JWT
//   - application CRUD, list, search, date-range, per-status summary
//   - status transitions recorded in application_status_history
//   - notes and follow-up reminders
//
// Publishes EVENT_STATUS_CHANGED and EVENT_REMINDER_DUE to Redis for
// downstream consumers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apptracker/internal/auth"
	"apptracker/internal/config"
	"apptracker/internal/db"
	"apptracker/internal/events"
	"apptracker/internal/httpserver"
	"apptracker/internal/lifecycle"
	"apptracker/internal/reminder"
	"apptracker/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[apptracker] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[apptracker] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[apptracker] PostgreSQL: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("[apptracker] Migrate: %v", err)
	}
	log.Println("[apptracker] PostgreSQL ready ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[apptracker] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[apptracker] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[apptracker] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	pub := events.NewPublisher(rdb)
	apps := lifecycle.NewService(st, pub)
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	users := auth.NewService(st, tokens)

	sched, err := reminder.New(st, pub, cfg.ReminderSpec)
	if err != nil {
		log.Fatalf("[apptracker] Reminder scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	httpserver.New(apps, users).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[apptracker] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[apptracker] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[apptracker] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[apptracker] Shutdown error: %v", err)
	}
	log.Println("[apptracker] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "apptracker",
		"version": version,
	})
}
