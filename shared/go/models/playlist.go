package models

import "time"

// PlaylistSong is one track inside a playlist at a fixed ordinal
// position, joined with the song detail needed by clients.
type PlaylistSong struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	ArtistID     string    `json:"artist_id,omitempty" db:"artist_id"`
	Duration     float64   `json:"duration" db:"duration"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Order        int       `json:"order" db:"order"`
	AddedAt      time.Time `json:"added_at" db:"added_at"`
}

// Playlist captures a user-curated list of songs.
type Playlist struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	UserID        int64          `json:"user_id" db:"user_id"`
	CoverImageURL string         `json:"cover_image_url,omitempty" db:"cover_image_url"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	SongCount     int            `json:"song_count" db:"song_count"`
	Songs         []PlaylistSong `json:"songs,omitempty"`
}
