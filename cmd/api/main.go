package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterHTTP "github.com/comitanigiacomo/kanso-daily/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-daily/internal/app"
	"github.com/comitanigiacomo/kanso-daily/internal/config"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: Failed to initialize: %v", err)
	}
	defer a.Close()

	if err := a.Session.Start(ctx); err != nil {
		log.Fatalf("Critical: Failed to load tracker state: %v", err)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		TrackerHandler: adapterHTTP.NewTrackerHandler(a.Registry),
		SessionHandler: adapterHTTP.NewSessionHandler(a.Bus),
		Store:          a.Health,
		Redis:          a.Redis,
		RateLimit:      cfg.RateLimit,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Daily running on http://localhost:%s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Critical server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
		os.Exit(1)
	}

	log.Println("Server stopped gracefully.")
}
