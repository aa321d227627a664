package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"neotune/shared/go/models"
)

var (
	// ErrArtistExists signals an artist with the same name already exists.
	ErrArtistExists = errors.New("artist already exists")
	// ErrArtistNotFound indicates the artist does not exist.
	ErrArtistNotFound = errors.New("artist not found")
)

// ArtistUpdate carries a partial artist update; nil fields are left
// untouched.
type ArtistUpdate struct {
	Name     *string
	Bio      *string
	ImageURL *string
}

// CreateArtist persists a new artist. A missing ID is generated.
func (s *Store) CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if artist == nil {
		return nil, errors.New("artist is required")
	}
	artist.Name = strings.TrimSpace(artist.Name)
	if artist.Name == "" {
		return nil, errors.New("artist name is required")
	}
	if artist.ID == "" {
		artist.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artists (id, name, bio, image_url)
		VALUES ($1, $2, $3, $4)
	`, artist.ID, artist.Name, nullIfEmpty(artist.Bio), nullIfEmpty(artist.ImageURL))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrArtistExists
		}
		return nil, fmt.Errorf("insert artist: %w", err)
	}

	return artist, nil
}

// GetArtist returns an artist by ID.
func (s *Store) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	var artist models.Artist
	var bio, imageURL sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, bio, image_url
		FROM artists
		WHERE id = $1
	`, id).Scan(&artist.ID, &artist.Name, &bio, &imageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	artist.Bio = bio.String
	artist.ImageURL = imageURL.String
	return &artist, nil
}

// ListArtists returns artists ordered by name with pagination.
func (s *Store) ListArtists(ctx context.Context, limit, offset int) ([]*models.Artist, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, bio, image_url
		FROM artists
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		var artist models.Artist
		var bio, imageURL sql.NullString
		if err := rows.Scan(&artist.ID, &artist.Name, &bio, &imageURL); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artist.Bio = bio.String
		artist.ImageURL = imageURL.String
		artists = append(artists, &artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// UpdateArtist applies a partial update and returns the stored artist.
func (s *Store) UpdateArtist(ctx context.Context, id string, update ArtistUpdate) (*models.Artist, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var current models.Artist
		var bio, imageURL sql.NullString
		err := tx.QueryRowContext(ctx, `
			SELECT id, name, bio, image_url
			FROM artists
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(&current.ID, &current.Name, &bio, &imageURL)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtistNotFound
		}
		if err != nil {
			return fmt.Errorf("load artist: %w", err)
		}
		current.Bio = bio.String
		current.ImageURL = imageURL.String

		if update.Name != nil {
			current.Name = strings.TrimSpace(*update.Name)
		}
		if update.Bio != nil {
			current.Bio = *update.Bio
		}
		if update.ImageURL != nil {
			current.ImageURL = *update.ImageURL
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE artists
			SET name = $1, bio = $2, image_url = $3
			WHERE id = $4
		`, current.Name, nullIfEmpty(current.Bio), nullIfEmpty(current.ImageURL), id); err != nil {
			if isUniqueViolation(err) {
				return ErrArtistExists
			}
			return fmt.Errorf("update artist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetArtist(ctx, id)
}

// DeleteArtist removes an artist.
func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrArtistNotFound
	}
	return nil
}
