package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres with retry for serverless databases that cold
// start, and verifies the connection with a ping.
func Open(dsn string) (*sql.DB, error) {
	return OpenWithRetry(dsn, 5, time.Second)
}

func OpenWithRetry(dsn string, maxRetries int, initialDelay time.Duration) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			lastErr = fmt.Errorf("open postgres: %w", err)
		} else if err := db.Ping(); err != nil {
			db.Close()
			lastErr = fmt.Errorf("ping postgres: %w", err)
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
			return db, nil
		}

		if attempt < maxRetries {
			delay := time.Duration(attempt) * initialDelay
			log.Printf("Database connection attempt %d/%d failed: %v (retrying in %v)",
				attempt, maxRetries, lastErr, delay)
			time.Sleep(delay)
		}
	}
	return nil, lastErr
}
