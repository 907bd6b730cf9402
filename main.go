package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"drawbase/internal/branding"
	"drawbase/internal/brands"
	"drawbase/internal/config"
	"drawbase/internal/dashboard"
	"drawbase/internal/database"
	"drawbase/internal/directory"
	"drawbase/internal/handlers"
	"drawbase/internal/middleware"
	"drawbase/internal/routes"
	"drawbase/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	st := store.NewPostgres(db)
	aggregator := dashboard.New(st)
	dir := directory.New(st, aggregator)
	registry := brands.New(st)
	configurator := branding.New(st)

	auth, err := handlers.NewAuth(st, rdb)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	router := routes.New(routes.Deps{
		Auth:           auth,
		Organizations:  handlers.NewOrganizations(dir),
		Members:        handlers.NewMembers(dir),
		Brands:         handlers.NewBrands(registry),
		Branding:       handlers.NewBranding(configurator),
		Identity:       middleware.NewIdentity(auth.PublicKey, rdb),
		Gates:          middleware.NewGates(dir, st),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
