package songs

import (
	"context"
	"errors"
	"testing"

	"neotune/internal/audio"
	"neotune/internal/recommend"
	"neotune/internal/store"
	"neotune/shared/go/models"
)

type stubStore struct {
	songs   map[string]*models.Song
	byCode  map[int]*models.Song
	artists map[string]*models.Artist
}

func (s *stubStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	return song, nil
}

func (s *stubStore) GetSong(ctx context.Context, id string) (*models.Song, error) {
	song, ok := s.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	return song, nil
}

func (s *stubStore) ListSongs(ctx context.Context, filter store.SongFilter) ([]*models.Song, error) {
	return nil, nil
}

func (s *stubStore) SongsByCodes(ctx context.Context, codes []int) (map[int]*models.Song, error) {
	out := make(map[int]*models.Song)
	for _, code := range codes {
		if song, ok := s.byCode[code]; ok {
			out[code] = song
		}
	}
	return out, nil
}

func (s *stubStore) DeleteSong(ctx context.Context, id string) error {
	return nil
}

func (s *stubStore) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	artist, ok := s.artists[id]
	if !ok {
		return nil, store.ErrArtistNotFound
	}
	return artist, nil
}

type stubRecommender struct {
	matches []recommend.Match
	err     error
}

func (s *stubRecommender) SimilarSongs(songCode, topK int) ([]recommend.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

type stubDownloader struct {
	lastTitle  string
	lastArtist string
}

func (s *stubDownloader) Download(ctx context.Context, songID, title, artist string) (*audio.Details, error) {
	s.lastTitle = title
	s.lastArtist = artist
	return &audio.Details{Filename: title}, nil
}

func (s *stubDownloader) AudioPath(songID string) (string, error) {
	return "", audio.ErrNotDownloaded
}

func TestSimilarJoinsCatalogRows(t *testing.T) {
	st := &stubStore{
		songs: map[string]*models.Song{
			"s1": {ID: "s1", SongCode: 10, Title: "Seed"},
		},
		byCode: map[int]*models.Song{
			20: {ID: "s2", SongCode: 20, Title: "Close"},
		},
	}
	rec := &stubRecommender{
		matches: []recommend.Match{
			{SongCode: 20, Score: 0.95},
			{SongCode: 30, Score: 0.90}, // no catalog row, dropped
		},
	}
	svc := New(st, rec, &stubDownloader{})

	similar, err := svc.Similar(context.Background(), "s1", 5)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 1 {
		t.Fatalf("expected 1 match, got %d", len(similar))
	}
	if similar[0].Song.ID != "s2" || similar[0].Score != 0.95 {
		t.Fatalf("unexpected match: %+v", similar[0])
	}
}

func TestSimilarUnknownSong(t *testing.T) {
	svc := New(&stubStore{}, &stubRecommender{}, &stubDownloader{})

	_, err := svc.Similar(context.Background(), "missing", 5)
	if !errors.Is(err, store.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestSimilarRecommenderError(t *testing.T) {
	st := &stubStore{
		songs: map[string]*models.Song{
			"s1": {ID: "s1", SongCode: 10},
		},
	}
	rec := &stubRecommender{err: recommend.ErrUnknownSongCode}
	svc := New(st, rec, &stubDownloader{})

	_, err := svc.Similar(context.Background(), "s1", 5)
	if !errors.Is(err, recommend.ErrUnknownSongCode) {
		t.Fatalf("expected ErrUnknownSongCode, got %v", err)
	}
}

func TestDownloadUsesArtistName(t *testing.T) {
	st := &stubStore{
		songs: map[string]*models.Song{
			"s1": {ID: "s1", Title: "Seed", ArtistID: "a1"},
		},
		artists: map[string]*models.Artist{
			"a1": {ID: "a1", Name: "The Band"},
		},
	}
	dl := &stubDownloader{}
	svc := New(st, &stubRecommender{}, dl)

	if _, err := svc.Download(context.Background(), "s1"); err != nil {
		t.Fatalf("download: %v", err)
	}
	if dl.lastTitle != "Seed" || dl.lastArtist != "The Band" {
		t.Fatalf("unexpected query parts: title=%q artist=%q", dl.lastTitle, dl.lastArtist)
	}
}

func TestDownloadMissingArtistStillDownloads(t *testing.T) {
	st := &stubStore{
		songs: map[string]*models.Song{
			"s1": {ID: "s1", Title: "Seed", ArtistID: "gone"},
		},
	}
	dl := &stubDownloader{}
	svc := New(st, &stubRecommender{}, dl)

	if _, err := svc.Download(context.Background(), "s1"); err != nil {
		t.Fatalf("download: %v", err)
	}
	if dl.lastArtist != "" {
		t.Fatalf("expected empty artist, got %q", dl.lastArtist)
	}
}
