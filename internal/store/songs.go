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
	// ErrSongExists signals a song with the same ID or code already exists.
	ErrSongExists = errors.New("song already exists")
	// ErrSongNotFound indicates the song does not exist.
	ErrSongNotFound = errors.New("song not found")
)

// SongFilter defines criteria for listing songs.
type SongFilter struct {
	Query    string // matched against the title, case-insensitive
	ArtistID string
	Limit    int
	Offset   int
}

// CreateSong persists a new song. A missing ID is generated.
func (s *Store) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if song == nil {
		return nil, errors.New("song is required")
	}
	song.Title = strings.TrimSpace(song.Title)
	if song.Title == "" {
		return nil, errors.New("song title is required")
	}
	if song.ID == "" {
		song.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, song_code, title, release, year, duration, thumbnail_url, artist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, song.ID, song.SongCode, song.Title, song.Release, song.Year, song.Duration,
		nullIfEmpty(song.ThumbnailURL), nullIfEmpty(song.ArtistID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSongExists
		}
		return nil, fmt.Errorf("insert song: %w", err)
	}

	return song, nil
}

// GetSong returns a song by ID.
func (s *Store) GetSong(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	var thumbnail, artistID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, song_code, title, release, year, duration, thumbnail_url, artist_id
		FROM songs
		WHERE id = $1
	`, id).Scan(&song.ID, &song.SongCode, &song.Title, &song.Release, &song.Year,
		&song.Duration, &thumbnail, &artistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	song.ThumbnailURL = thumbnail.String
	song.ArtistID = artistID.String
	return &song, nil
}

// ListSongs returns songs matching the filter, ordered by title.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]*models.Song, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)

	query := `
		SELECT id, song_code, title, release, year, duration, thumbnail_url, artist_id
		FROM songs`
	var conditions []string
	var args []interface{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.ArtistID != "" {
		args = append(args, filter.ArtistID)
		conditions = append(conditions, fmt.Sprintf("artist_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY title ASC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		var song models.Song
		var thumbnail, artistID sql.NullString
		if err := rows.Scan(&song.ID, &song.SongCode, &song.Title, &song.Release, &song.Year,
			&song.Duration, &thumbnail, &artistID); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		song.ThumbnailURL = thumbnail.String
		song.ArtistID = artistID.String
		songs = append(songs, &song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// SongsByCodes returns the songs whose embedding codes are listed,
// keyed by code. Unknown codes are simply absent from the result.
func (s *Store) SongsByCodes(ctx context.Context, codes []int) (map[int]*models.Song, error) {
	if len(codes) == 0 {
		return map[int]*models.Song{}, nil
	}

	placeholders := make([]string, len(codes))
	args := make([]interface{}, len(codes))
	for i, code := range codes {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = code
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, song_code, title, release, year, duration, thumbnail_url, artist_id
		FROM songs
		WHERE song_code IN (%s)
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("songs by codes: %w", err)
	}
	defer rows.Close()

	songs := make(map[int]*models.Song, len(codes))
	for rows.Next() {
		var song models.Song
		var thumbnail, artistID sql.NullString
		if err := rows.Scan(&song.ID, &song.SongCode, &song.Title, &song.Release, &song.Year,
			&song.Duration, &thumbnail, &artistID); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		song.ThumbnailURL = thumbnail.String
		song.ArtistID = artistID.String
		songs[song.SongCode] = &song
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// DeleteSong removes a song.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}
