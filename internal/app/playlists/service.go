package playlists

import (
	"context"

	"neotune/internal/store"
	"neotune/shared/go/models"
)

// Store captures the persistence needs for playlist workflows,
// including the ordering engine operations.
type Store interface {
	CreatePlaylist(ctx context.Context, userID int64, playlist *models.Playlist) (*models.Playlist, error)
	ListPlaylistsByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, userID int64, id string, update store.PlaylistUpdate) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, userID int64, id string) error
	AddSong(ctx context.Context, userID int64, playlistID, songID string, position *int) error
	RemoveSong(ctx context.Context, userID int64, playlistID, songID string) error
	ReorderSong(ctx context.Context, userID int64, playlistID, songID string, newOrder int) error
	PlaylistDetail(ctx context.Context, playlistID string) (*models.Playlist, error)
	CountPlaylistSongs(ctx context.Context, playlistID string) (int, error)
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, userID int64, playlist *models.Playlist) (*models.Playlist, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Playlist, error)
	Get(ctx context.Context, id string) (*models.Playlist, error)
	Update(ctx context.Context, userID int64, id string, update store.PlaylistUpdate) (*models.Playlist, error)
	Delete(ctx context.Context, userID int64, id string) error
	AddSong(ctx context.Context, userID int64, playlistID, songID string, position *int) error
	RemoveSong(ctx context.Context, userID int64, playlistID, songID string) error
	ReorderSong(ctx context.Context, userID int64, playlistID, songID string, newOrder int) error
	Detail(ctx context.Context, playlistID string) (*models.Playlist, error)
	CountSongs(ctx context.Context, playlistID string) (int, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, userID int64, playlist *models.Playlist) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreatePlaylist(ctx, userID, playlist)
}

func (s *service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistsByUser(ctx, userID, limit, offset)
}

func (s *service) Get(ctx context.Context, id string) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) Update(ctx context.Context, userID int64, id string, update store.PlaylistUpdate) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UpdatePlaylist(ctx, userID, id, update)
}

func (s *service) Delete(ctx context.Context, userID int64, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, userID, id)
}

func (s *service) AddSong(ctx context.Context, userID int64, playlistID, songID string, position *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddSong(ctx, userID, playlistID, songID, position)
}

func (s *service) RemoveSong(ctx context.Context, userID int64, playlistID, songID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveSong(ctx, userID, playlistID, songID)
}

func (s *service) ReorderSong(ctx context.Context, userID int64, playlistID, songID string, newOrder int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.ReorderSong(ctx, userID, playlistID, songID, newOrder)
}

func (s *service) Detail(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.PlaylistDetail(ctx, playlistID)
}

func (s *service) CountSongs(ctx context.Context, playlistID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.CountPlaylistSongs(ctx, playlistID)
}
