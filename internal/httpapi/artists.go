package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"neotune/internal/store"
	"neotune/shared/go/models"
)

type artistRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

type artistUpdateRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	var req artistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	artist, err := s.artists.Create(r.Context(), &models.Artist{
		Name:     req.Name,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	artists, err := s.artists.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.artists.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	var req artistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	artist, err := s.artists.Update(r.Context(), r.PathValue("id"), store.ArtistUpdate{
		Name:     req.Name,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		unauthorized(w)
		return
	}

	if err := s.artists.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	return limit, offset
}
