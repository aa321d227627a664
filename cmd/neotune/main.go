package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"neotune/internal/store"
	"neotune/shared/go/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal(err, "load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal(err, "connect database")
	}
	defer db.Close()

	dataStore := store.New(db)
	handler := newHTTPHandler(cfg, dataStore)

	log.Info().Str("addr", cfg.Addr).Msg("starting API server")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logging.Fatal(err, "server error")
	}
}
