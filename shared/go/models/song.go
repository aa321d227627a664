package models

// Song is a single catalog track. SongCode is the row index of the
// track in the precomputed embedding matrix used by the recommender.
type Song struct {
	ID           string  `json:"id" db:"id"`
	SongCode     int     `json:"song_code" db:"song_code"`
	Title        string  `json:"title" db:"title"`
	Release      string  `json:"release" db:"release"`
	Year         int     `json:"year" db:"year"`
	Duration     float64 `json:"duration" db:"duration"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	ArtistID     string  `json:"artist_id,omitempty" db:"artist_id"`
}
