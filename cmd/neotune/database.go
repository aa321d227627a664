package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const (
	dbPingTimeout  = 5 * time.Second
	dbConnectWait  = 30 * time.Second
	dbRetryBackoff = 500 * time.Millisecond
	dbMaxBackoff   = 5 * time.Second
)

// openDatabase opens a pgx-backed handle and waits for the instance
// to answer pings, doubling the delay between attempts until
// dbConnectWait elapses.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, dbConnectWait)
	defer cancel()

	backoff := dbRetryBackoff
	for attempt := 1; ; attempt++ {
		pingCtx, cancelPing := context.WithTimeout(waitCtx, dbPingTimeout)
		err = db.PingContext(pingCtx)
		cancelPing()
		if err == nil {
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")

		select {
		case <-waitCtx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		case <-time.After(backoff):
		}
		if backoff < dbMaxBackoff {
			backoff *= 2
		}
	}
}
