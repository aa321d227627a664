package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"neotune/internal/store"
	"neotune/shared/go/models"
)

type songRequest struct {
	SongCode     int     `json:"song_code"`
	Title        string  `json:"title"`
	Release      string  `json:"release"`
	Year         int     `json:"year"`
	Duration     float64 `json:"duration"`
	ThumbnailURL string  `json:"thumbnail_url"`
	ArtistID     string  `json:"artist_id"`
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Title == "" || req.ArtistID == "" {
		badRequest(w, "title and artist_id are required")
		return
	}

	song, err := s.songs.Create(r.Context(), &models.Song{
		SongCode:     req.SongCode,
		Title:        req.Title,
		Release:      req.Release,
		Year:         req.Year,
		Duration:     req.Duration,
		ThumbnailURL: req.ThumbnailURL,
		ArtistID:     req.ArtistID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	songs, err := s.songs.List(r.Context(), store.SongFilter{
		Query:    r.URL.Query().Get("q"),
		ArtistID: r.URL.Query().Get("artist_id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.songs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	if err := s.songs.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimilarSongs(w http.ResponseWriter, r *http.Request) {
	topK := 10
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			badRequest(w, "top_k must be a positive integer")
			return
		}
		topK = v
	}

	matches, err := s.songs.Similar(r.Context(), r.PathValue("id"), topK)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleDownloadSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	details, err := s.songs.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleStreamSong(w http.ResponseWriter, r *http.Request) {
	path, err := s.songs.AudioPath(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}
