package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	accountrepo "github.com/oceanablv/moodq/internal/account/repo"
	journalrepo "github.com/oceanablv/moodq/internal/journal/repo"
	moodrepo "github.com/oceanablv/moodq/internal/mood/repo"
	"github.com/oceanablv/moodq/internal/router"
	"github.com/oceanablv/moodq/pkg/database"
	"github.com/oceanablv/moodq/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting moodq-api")

	// init db
	cfg := database.ConfigFromEnv()
	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// ensure tables exist (journals and moods first; the account cascade
	// touches them)
	ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer ensureCancel()
	if err := journalrepo.NewJournalRepo(db).EnsureTable(ensureCtx); err != nil {
		sugar.Fatalf("ensure journals table: %v", err)
	}
	if err := moodrepo.NewMoodRepo(db).EnsureTable(ensureCtx); err != nil {
		sugar.Fatalf("ensure moods table: %v", err)
	}
	if err := accountrepo.NewUserRepo(db).EnsureTable(ensureCtx); err != nil {
		sugar.Fatalf("ensure account tables: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8420"
	}

	handler := router.RegisterRoutes(sugar, db)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	if err := db.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
