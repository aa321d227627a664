package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"neotune/shared/go/models"
)

var (
	// ErrPlaylistNotFound indicates the playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrNotPlaylistOwner indicates the caller does not own the playlist.
	ErrNotPlaylistOwner = errors.New("not the playlist owner")
)

// PlaylistUpdate carries a partial playlist update; nil fields are
// left untouched.
type PlaylistUpdate struct {
	Name          *string
	CoverImageURL *string
}

// CreatePlaylist persists a new playlist owned by userID.
func (s *Store) CreatePlaylist(ctx context.Context, userID int64, playlist *models.Playlist) (*models.Playlist, error) {
	if playlist == nil {
		return nil, errors.New("playlist is required")
	}
	playlist.Name = strings.TrimSpace(playlist.Name)
	if playlist.Name == "" {
		return nil, errors.New("playlist name is required")
	}
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}
	playlist.UserID = userID

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (id, name, user_id, cover_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING created_at, updated_at
	`, playlist.ID, playlist.Name, userID, nullIfEmpty(playlist.CoverImageURL), now).
		Scan(&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}

	log.Info().
		Str("playlist_id", playlist.ID).
		Int64("user_id", userID).
		Msg("created playlist")
	return playlist, nil
}

// ListPlaylistsByUser returns a user's playlists with song counts.
func (s *Store) ListPlaylistsByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Playlist, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.user_id, p.cover_image_url, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.id) AS song_count
		FROM playlists p
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// GetPlaylist returns a playlist without its membership rows.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.user_id, p.cover_image_url, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.id) AS song_count
		FROM playlists p
		WHERE p.id = $1
	`, id)

	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// UpdatePlaylist applies a partial update after checking ownership,
// all within one transaction.
func (s *Store) UpdatePlaylist(ctx context.Context, userID int64, id string, update PlaylistUpdate) (*models.Playlist, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := lockPlaylistTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return ErrNotPlaylistOwner
		}

		if update.Name != nil {
			current.Name = strings.TrimSpace(*update.Name)
		}
		if update.CoverImageURL != nil {
			current.CoverImageURL = *update.CoverImageURL
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE playlists
			SET name = $1, cover_image_url = $2, updated_at = $3
			WHERE id = $4
		`, current.Name, nullIfEmpty(current.CoverImageURL), time.Now().UTC(), id); err != nil {
			return fmt.Errorf("update playlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlaylist(ctx, id)
}

// DeletePlaylist removes a playlist; memberships cascade.
func (s *Store) DeletePlaylist(ctx context.Context, userID int64, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		playlist, err := lockPlaylistTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if playlist.UserID != userID {
			return ErrNotPlaylistOwner
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}

		log.Info().
			Str("playlist_id", id).
			Int64("user_id", userID).
			Msg("deleted playlist")
		return nil
	})
}

// lockPlaylistTx loads a playlist row FOR UPDATE, serializing writers
// of the same playlist for the rest of the transaction.
func lockPlaylistTx(ctx context.Context, tx *sql.Tx, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	var cover sql.NullString
	var updatedAt sql.NullTime
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, user_id, cover_image_url, created_at, updated_at
		FROM playlists
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&playlist.ID, &playlist.Name, &playlist.UserID, &cover, &playlist.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock playlist: %w", err)
	}
	playlist.CoverImageURL = cover.String
	playlist.UpdatedAt = updatedAt.Time
	return &playlist, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlaylist(row rowScanner) (*models.Playlist, error) {
	var playlist models.Playlist
	var cover sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&playlist.ID, &playlist.Name, &playlist.UserID, &cover,
		&playlist.CreatedAt, &updatedAt, &playlist.SongCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	playlist.CoverImageURL = cover.String
	playlist.UpdatedAt = updatedAt.Time
	return &playlist, nil
}
