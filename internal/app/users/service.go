package users

import (
	"context"

	"neotune/shared/go/auth"
	"neotune/shared/go/models"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Service exposes user-related workflows.
type Service interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	store  Store
	tokens *auth.TokenManager
}

// New wires a Service backed by the provided Store and token manager.
func New(store Store, tokens *auth.TokenManager) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, username, email, password)
}

func (s *service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, id)
}
