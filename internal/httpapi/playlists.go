package httpapi

import (
	"encoding/json"
	"net/http"

	"neotune/internal/store"
	"neotune/shared/go/models"
)

type playlistRequest struct {
	Name          string `json:"name"`
	CoverImageURL string `json:"cover_image_url"`
}

type playlistUpdateRequest struct {
	Name          *string `json:"name"`
	CoverImageURL *string `json:"cover_image_url"`
}

type addSongRequest struct {
	SongID string `json:"song_id"`
	Order  *int   `json:"order"`
}

type removeSongRequest struct {
	SongID string `json:"song_id"`
}

type reorderSongRequest struct {
	SongID   string `json:"song_id"`
	NewOrder *int   `json:"new_order"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	playlist, err := s.playlists.Create(r.Context(), userID, &models.Playlist{
		Name:          req.Name,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	limit, offset := parsePagination(r)
	playlists, err := s.playlists.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.playlists.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	var req playlistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	playlist, err := s.playlists.Update(r.Context(), userID, r.PathValue("id"), store.PlaylistUpdate{
		Name:          req.Name,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	if err := s.playlists.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.SongID == "" {
		badRequest(w, "song_id is required")
		return
	}

	if err := s.playlists.AddSong(r.Context(), userID, r.PathValue("id"), req.SongID, req.Order); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	var req removeSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.SongID == "" {
		badRequest(w, "song_id is required")
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), userID, r.PathValue("id"), req.SongID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderPlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		unauthorized(w)
		return
	}

	var req reorderSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.SongID == "" {
		badRequest(w, "song_id is required")
		return
	}
	if req.NewOrder == nil {
		badRequest(w, "new_order is required")
		return
	}

	if err := s.playlists.ReorderSong(r.Context(), userID, r.PathValue("id"), req.SongID, *req.NewOrder); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
