package songs

import (
	"context"

	"neotune/internal/audio"
	"neotune/internal/recommend"
	"neotune/internal/store"
	"neotune/shared/go/models"
)

// Store describes the persistence operations for song workflows.
type Store interface {
	CreateSong(ctx context.Context, song *models.Song) (*models.Song, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
	ListSongs(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	SongsByCodes(ctx context.Context, codes []int) (map[int]*models.Song, error)
	DeleteSong(ctx context.Context, id string) error
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
}

// Recommender ranks songs by embedding similarity.
type Recommender interface {
	SimilarSongs(songCode, topK int) ([]recommend.Match, error)
}

// Downloader fetches song audio from the external site.
type Downloader interface {
	Download(ctx context.Context, songID, title, artist string) (*audio.Details, error)
	AudioPath(songID string) (string, error)
}

// SimilarSong is a recommendation hit joined with catalog detail.
type SimilarSong struct {
	Song  *models.Song `json:"song"`
	Score float64      `json:"score"`
}

// Service coordinates track-level operations.
type Service interface {
	Create(ctx context.Context, song *models.Song) (*models.Song, error)
	Get(ctx context.Context, id string) (*models.Song, error)
	List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	Delete(ctx context.Context, id string) error
	Similar(ctx context.Context, id string, topK int) ([]SimilarSong, error)
	Download(ctx context.Context, id string) (*audio.Details, error)
	AudioPath(ctx context.Context, id string) (string, error)
}

type service struct {
	store       Store
	recommender Recommender
	downloader  Downloader
}

// New constructs a Service backed by the provided collaborators.
func New(store Store, recommender Recommender, downloader Downloader) Service {
	return &service{store: store, recommender: recommender, downloader: downloader}
}

func (s *service) Create(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) Get(ctx context.Context, id string) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}

// Similar returns the topK catalog songs closest to the given song in
// embedding space. Matches without a catalog row are dropped.
func (s *service) Similar(ctx context.Context, id string, topK int) ([]SimilarSong, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := s.recommender.SimilarSongs(song.SongCode, topK)
	if err != nil {
		return nil, err
	}

	codes := make([]int, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m.SongCode)
	}
	byCode, err := s.store.SongsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	similar := make([]SimilarSong, 0, len(matches))
	for _, m := range matches {
		if hit, ok := byCode[m.SongCode]; ok {
			similar = append(similar, SimilarSong{Song: hit, Score: m.Score})
		}
	}
	return similar, nil
}

// Download fetches the song's audio from the external site, using the
// artist name to sharpen the search when one is linked.
func (s *service) Download(ctx context.Context, id string) (*audio.Details, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	var artistName string
	if song.ArtistID != "" {
		artist, err := s.store.GetArtist(ctx, song.ArtistID)
		if err == nil {
			artistName = artist.Name
		}
	}

	return s.downloader.Download(ctx, song.ID, song.Title, artistName)
}

func (s *service) AudioPath(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.store.GetSong(ctx, id); err != nil {
		return "", err
	}
	return s.downloader.AudioPath(id)
}
