package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"neotune/internal/app/artists"
	"neotune/internal/app/playlists"
	"neotune/internal/app/songs"
	"neotune/internal/app/users"
	"neotune/internal/audio"
	"neotune/internal/httpapi"
	"neotune/internal/recommend"
	"neotune/internal/store"
	"neotune/shared/go/auth"
	"neotune/shared/go/middleware"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := users.New(dataStore, tokens)
	artistSvc := artists.New(dataStore)
	playlistSvc := playlists.New(dataStore)
	songSvc := songs.New(dataStore, newRecommender(cfg), audio.NewDownloader(cfg.AudioOutputDir))

	handler := httpapi.New(userSvc, artistSvc, songSvc, playlistSvc, tokens).Routes()
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return withCORS(cfg.AllowedOrigins, handler)
}

// newRecommender loads song embeddings if a path is configured,
// otherwise similarity lookups report every song as unknown.
func newRecommender(cfg Config) songs.Recommender {
	if cfg.EmbeddingsPath == "" {
		log.Warn().Msg("EMBEDDINGS_PATH not set, song recommendations disabled")
		return disabledRecommender{}
	}

	rec, err := recommend.Load(cfg.EmbeddingsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.EmbeddingsPath).Msg("load embeddings")
	}
	log.Info().Int("songs", rec.Size()).Msg("embeddings loaded")
	return rec
}

type disabledRecommender struct{}

func (disabledRecommender) SimilarSongs(songCode, topK int) ([]recommend.Match, error) {
	return nil, recommend.ErrUnknownSongCode
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
