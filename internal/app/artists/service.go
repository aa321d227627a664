package artists

import (
	"context"

	"neotune/internal/store"
	"neotune/shared/go/models"
)

// Store describes the persistence operations for artist workflows.
type Store interface {
	CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	ListArtists(ctx context.Context, limit, offset int) ([]*models.Artist, error)
	UpdateArtist(ctx context.Context, id string, update store.ArtistUpdate) (*models.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
}

// Service coordinates artist catalogue operations.
type Service interface {
	Create(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	Get(ctx context.Context, id string) (*models.Artist, error)
	List(ctx context.Context, limit, offset int) ([]*models.Artist, error)
	Update(ctx context.Context, id string, update store.ArtistUpdate) (*models.Artist, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateArtist(ctx, artist)
}

func (s *service) Get(ctx context.Context, id string) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetArtist(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx, limit, offset)
}

func (s *service) Update(ctx context.Context, id string, update store.ArtistUpdate) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UpdateArtist(ctx, id, update)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteArtist(ctx, id)
}
