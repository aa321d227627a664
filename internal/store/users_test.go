package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("ada", "ada@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at"}).
			AddRow(int64(1), "ada", "ada@example.com", time.Now()))

	user, err := s.CreateUser(context.Background(), " ada ", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID != 1 || user.Username != "ada" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserRequiresFields(t *testing.T) {
	s, _, done := newMock(t)
	defer done()

	if _, err := s.CreateUser(context.Background(), "", "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for missing username")
	}
	if _, err := s.CreateUser(context.Background(), "ada", "a@b.c", ""); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(int64(1), "ada", "ada@example.com", string(hash), time.Now()))

	user, err := s.Authenticate(context.Background(), "ada", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected user ID 1, got %d", user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash must not leak out of Authenticate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(int64(1), "ada", "ada@example.com", string(hash), time.Now()))

	if _, err := s.Authenticate(context.Background(), "ada", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.Authenticate(context.Background(), "ghost", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
