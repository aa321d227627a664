package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"neotune/internal/audio"
	"neotune/internal/recommend"
	"neotune/internal/store"
	"neotune/shared/go/auth"
	"neotune/shared/go/models"

	appsongs "neotune/internal/app/songs"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	Create(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	Get(ctx context.Context, id string) (*models.Artist, error)
	List(ctx context.Context, limit, offset int) ([]*models.Artist, error)
	Update(ctx context.Context, id string, update store.ArtistUpdate) (*models.Artist, error)
	Delete(ctx context.Context, id string) error
}

// SongService coordinates track-level operations.
type SongService interface {
	Create(ctx context.Context, song *models.Song) (*models.Song, error)
	Get(ctx context.Context, id string) (*models.Song, error)
	List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	Delete(ctx context.Context, id string) error
	Similar(ctx context.Context, id string, topK int) ([]appsongs.SimilarSong, error)
	Download(ctx context.Context, id string) (*audio.Details, error)
	AudioPath(ctx context.Context, id string) (string, error)
}

// PlaylistService coordinates playlist operations, including the
// ordering engine.
type PlaylistService interface {
	Create(ctx context.Context, userID int64, playlist *models.Playlist) (*models.Playlist, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Playlist, error)
	Update(ctx context.Context, userID int64, id string, update store.PlaylistUpdate) (*models.Playlist, error)
	Delete(ctx context.Context, userID int64, id string) error
	AddSong(ctx context.Context, userID int64, playlistID, songID string, position *int) error
	RemoveSong(ctx context.Context, userID int64, playlistID, songID string) error
	ReorderSong(ctx context.Context, userID int64, playlistID, songID string, newOrder int) error
	Detail(ctx context.Context, playlistID string) (*models.Playlist, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	artists   ArtistService
	songs     SongService
	playlists PlaylistService
	tokens    *auth.TokenManager
}

// New configures a Server with the given services.
func New(
	users UserService,
	artists ArtistService,
	songs SongService,
	playlists PlaylistService,
	tokens *auth.TokenManager,
) *Server {
	return &Server{
		users:     users,
		artists:   artists,
		songs:     songs,
		playlists: playlists,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers for the catalog and playlists.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/users/me", s.handleCurrentUser)

	// Artist routes
	mux.HandleFunc("POST /api/v1/artists", s.handleCreateArtist)
	mux.HandleFunc("GET /api/v1/artists", s.handleListArtists)
	mux.HandleFunc("GET /api/v1/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("PUT /api/v1/artists/{id}", s.handleUpdateArtist)
	mux.HandleFunc("DELETE /api/v1/artists/{id}", s.handleDeleteArtist)

	// Song routes
	mux.HandleFunc("POST /api/v1/songs", s.handleCreateSong)
	mux.HandleFunc("GET /api/v1/songs", s.handleListSongs)
	mux.HandleFunc("GET /api/v1/songs/{id}", s.handleGetSong)
	mux.HandleFunc("DELETE /api/v1/songs/{id}", s.handleDeleteSong)
	mux.HandleFunc("GET /api/v1/songs/{id}/similar", s.handleSimilarSongs)
	mux.HandleFunc("POST /api/v1/songs/{id}/download", s.handleDownloadSong)
	mux.HandleFunc("GET /api/v1/songs/{id}/stream", s.handleStreamSong)

	// Playlist routes
	mux.HandleFunc("POST /api/v1/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/v1/playlists", s.handleListPlaylists)
	mux.HandleFunc("GET /api/v1/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("PUT /api/v1/playlists/{id}", s.handleUpdatePlaylist)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /api/v1/playlists/{id}/songs", s.handleAddPlaylistSong)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/songs", s.handleRemovePlaylistSong)
	mux.HandleFunc("PUT /api/v1/playlists/{id}/songs", s.handleReorderPlaylistSong)

	return mux
}

// authenticate resolves the calling user from the bearer token.
func (s *Server) authenticate(r *http.Request) (int64, error) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, auth.ErrInvalidToken
	}
	return s.tokens.Parse(token)
}

func parseBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps store and domain errors onto stable HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrArtistNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrSongNotInPlaylist),
		errors.Is(err, audio.ErrNotDownloaded):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrNotPlaylistOwner):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrSongAlreadyInPlaylist),
		errors.Is(err, store.ErrUserExists),
		errors.Is(err, store.ErrArtistExists),
		errors.Is(err, store.ErrSongExists):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvalidPosition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, recommend.ErrUnknownSongCode):
		status = http.StatusNotFound
	case errors.Is(err, audio.ErrDownloaderNotFound),
		errors.Is(err, audio.ErrNoResult):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization required"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
