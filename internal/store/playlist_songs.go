package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"neotune/shared/go/models"
)

var (
	// ErrSongAlreadyInPlaylist signals a duplicate membership on add.
	ErrSongAlreadyInPlaylist = errors.New("song is already in this playlist")
	// ErrSongNotInPlaylist indicates the song is not a member of the playlist.
	ErrSongNotInPlaylist = errors.New("song not found in this playlist")
	// ErrInvalidPosition indicates a position outside the playlist bounds.
	ErrInvalidPosition = errors.New("position out of range")
)

// The playlist_songs "order" column holds a dense zero-based sequence
// per playlist: after every committed transaction the stored values
// are exactly {0..count-1}. Each mutation below locks the playlist
// row first, computes the range shift it needs, and applies shift and
// primary write in the same transaction. The (playlist_id, "order")
// unique constraint is deferred to commit so range shifts cannot trip
// it mid-update.

// AddSong inserts a song into a playlist. A nil position appends to
// the end; an explicit position must lie in [0, count] and shifts the
// tail up by one.
func (s *Store) AddSong(ctx context.Context, userID int64, playlistID, songID string, position *int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		playlist, err := lockPlaylistTx(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if playlist.UserID != userID {
			return ErrNotPlaylistOwner
		}

		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)
		`, songID).Scan(&exists); err != nil {
			return fmt.Errorf("check song: %w", err)
		}
		if !exists {
			return ErrSongNotFound
		}

		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2)
		`, playlistID, songID).Scan(&exists); err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if exists {
			return ErrSongAlreadyInPlaylist
		}

		count, err := countSongsTx(ctx, tx, playlistID)
		if err != nil {
			return err
		}

		order := count
		if position != nil {
			if *position < 0 || *position > count {
				return ErrInvalidPosition
			}
			order = *position
			if _, err := tx.ExecContext(ctx, `
				UPDATE playlist_songs
				SET "order" = "order" + 1
				WHERE playlist_id = $1 AND "order" >= $2
			`, playlistID, order); err != nil {
				return fmt.Errorf("shift members up: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_songs (playlist_id, song_id, "order", added_at)
			VALUES ($1, $2, $3, $4)
		`, playlistID, songID, order, time.Now().UTC()); err != nil {
			if isUniqueViolation(err) {
				return ErrSongAlreadyInPlaylist
			}
			return fmt.Errorf("insert membership: %w", err)
		}

		log.Info().
			Str("playlist_id", playlistID).
			Str("song_id", songID).
			Int("order", order).
			Msg("added song to playlist")
		return nil
	})
}

// RemoveSong deletes a membership and compacts the positions above it.
func (s *Store) RemoveSong(ctx context.Context, userID int64, playlistID, songID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		playlist, err := lockPlaylistTx(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if playlist.UserID != userID {
			return ErrNotPlaylistOwner
		}

		removedOrder, err := memberOrderTx(ctx, tx, playlistID, songID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM playlist_songs
			WHERE playlist_id = $1 AND song_id = $2
		`, playlistID, songID); err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE playlist_songs
			SET "order" = "order" - 1
			WHERE playlist_id = $1 AND "order" > $2
		`, playlistID, removedOrder); err != nil {
			return fmt.Errorf("shift members down: %w", err)
		}

		log.Info().
			Str("playlist_id", playlistID).
			Str("song_id", songID).
			Msg("removed song from playlist")
		return nil
	})
}

// ReorderSong moves a song to newOrder, shifting the members between
// its old and new positions by one. Moving a song onto its current
// position is a no-op.
func (s *Store) ReorderSong(ctx context.Context, userID int64, playlistID, songID string, newOrder int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		playlist, err := lockPlaylistTx(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if playlist.UserID != userID {
			return ErrNotPlaylistOwner
		}

		currentOrder, err := memberOrderTx(ctx, tx, playlistID, songID)
		if err != nil {
			return err
		}
		if currentOrder == newOrder {
			return nil
		}

		count, err := countSongsTx(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if newOrder < 0 || newOrder >= count {
			return ErrInvalidPosition
		}

		if currentOrder < newOrder {
			// Moving down: pull the range in between up by one slot.
			_, err = tx.ExecContext(ctx, `
				UPDATE playlist_songs
				SET "order" = "order" - 1
				WHERE playlist_id = $1 AND "order" > $2 AND "order" <= $3
			`, playlistID, currentOrder, newOrder)
		} else {
			// Moving up: push the range in between down by one slot.
			_, err = tx.ExecContext(ctx, `
				UPDATE playlist_songs
				SET "order" = "order" + 1
				WHERE playlist_id = $1 AND "order" >= $2 AND "order" < $3
			`, playlistID, newOrder, currentOrder)
		}
		if err != nil {
			return fmt.Errorf("shift members: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE playlist_songs
			SET "order" = $1
			WHERE playlist_id = $2 AND song_id = $3
		`, newOrder, playlistID, songID); err != nil {
			return fmt.Errorf("move member: %w", err)
		}

		log.Info().
			Str("playlist_id", playlistID).
			Str("song_id", songID).
			Int("from", currentOrder).
			Int("to", newOrder).
			Msg("reordered song in playlist")
		return nil
	})
}

// PlaylistDetail returns a playlist with its members joined to song
// detail, ordered by position. Public read, no ownership check.
func (s *Store) PlaylistDetail(ctx context.Context, playlistID string) (*models.Playlist, error) {
	playlist, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.artist_id, s.duration, s.thumbnail_url, ps."order", ps.added_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps."order" ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	songs := make([]models.PlaylistSong, 0)
	for rows.Next() {
		var song models.PlaylistSong
		var artistID, thumbnail sql.NullString
		if err := rows.Scan(&song.ID, &song.Title, &artistID, &song.Duration,
			&thumbnail, &song.Order, &song.AddedAt); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		song.ArtistID = artistID.String
		song.ThumbnailURL = thumbnail.String
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}

	playlist.Songs = songs
	playlist.SongCount = len(songs)
	return playlist, nil
}

// CountPlaylistSongs returns the membership count of a playlist.
func (s *Store) CountPlaylistSongs(ctx context.Context, playlistID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = $1
	`, playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count playlist songs: %w", err)
	}
	return count, nil
}

func countSongsTx(ctx context.Context, tx *sql.Tx, playlistID string) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = $1
	`, playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count playlist songs: %w", err)
	}
	return count, nil
}

func memberOrderTx(ctx context.Context, tx *sql.Tx, playlistID, songID string) (int, error) {
	var order int
	err := tx.QueryRowContext(ctx, `
		SELECT "order" FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID).Scan(&order)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSongNotInPlaylist
	}
	if err != nil {
		return 0, fmt.Errorf("lookup membership: %w", err)
	}
	return order, nil
}
