// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/database"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/handler"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/repository"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/service"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/waitlist"
)

func main() {
	ctx := context.Background()

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	// ── 1. Pick the stores ───────────────────────────────────────────────
	var (
		exams     repository.ExamStore
		regs      repository.RegistrationStore
		allocator repository.Allocator
	)
	if os.Getenv("DB_DISABLE") == "1" {
		// In-memory mode: no external database, nothing survives a restart.
		mem := repository.NewMemory()
		exams, regs, allocator = mem, mem.Registrations(), mem
		log.Println("✓ Using in-memory store (DB_DISABLE=1)")
	} else {
		pool, err := database.NewPool(ctx)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		log.Println("✓ Connected to PostgreSQL")

		regRepo := repository.NewRegistrationRepository(pool)
		exams, regs, allocator = repository.NewExamRepository(pool), regRepo, regRepo
	}

	// ── 2. Pick the waitlist registry ────────────────────────────────────
	var registry waitlist.Registry
	if path := os.Getenv("WAITLIST_PATH"); path != "" {
		durable, err := waitlist.OpenBadger(path)
		if err != nil {
			log.Fatalf("waitlist: %v", err)
		}
		defer durable.Close()
		registry = durable
		log.Printf("✓ Durable waitlist at %s", path)
	} else {
		registry = waitlist.NewMemory()
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	examSvc := service.NewExamService(exams, regs, allocator, registry)
	examHandler := handler.NewExamHandler(examSvc)

	// ── 4. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Mount("/", examHandler.Routes())

	// ── 5. Start server with graceful shutdown ───────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
