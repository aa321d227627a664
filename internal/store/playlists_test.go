package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"neotune/shared/go/models"
)

func TestCreatePlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlists`)).
		WithArgs(sqlmock.AnyArg(), "Morning Mix", testOwnerID, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	playlist, err := s.CreatePlaylist(context.Background(), testOwnerID, &models.Playlist{Name: " Morning Mix "})
	if err != nil {
		t.Fatalf("CreatePlaylist error: %v", err)
	}
	if playlist.ID == "" {
		t.Fatal("expected a generated playlist ID")
	}
	if playlist.Name != "Morning Mix" {
		t.Fatalf("expected trimmed name, got %q", playlist.Name)
	}
	if playlist.UserID != testOwnerID {
		t.Fatalf("expected owner %d, got %d", testOwnerID, playlist.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaylistRequiresName(t *testing.T) {
	s, _, done := newMock(t)
	defer done()

	if _, err := s.CreatePlaylist(context.Background(), testOwnerID, &models.Playlist{Name: "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

// Only the fields present in the update are merged; the rest keep the
// loaded values, all inside the same transaction as the owner check.
func TestUpdatePlaylistPartial(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectPlaylistLock(mock, testOwnerID)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE playlists`)).
		WithArgs("Evening Mix", nil, sqlmock.AnyArg(), testPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reloaded := sqlmock.NewRows([]string{"id", "name", "user_id", "cover_image_url", "created_at", "updated_at", "song_count"}).
		AddRow(testPlaylistID, "Evening Mix", testOwnerID, nil, time.Now(), time.Now(), 3)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM playlists p`)).
		WithArgs(testPlaylistID).
		WillReturnRows(reloaded)

	name := "Evening Mix"
	playlist, err := s.UpdatePlaylist(context.Background(), testOwnerID, testPlaylistID, PlaylistUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdatePlaylist error: %v", err)
	}
	if playlist.Name != "Evening Mix" {
		t.Fatalf("expected updated name, got %q", playlist.Name)
	}
	if playlist.SongCount != 3 {
		t.Fatalf("expected song count 3, got %d", playlist.SongCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePlaylistForbidden(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectPlaylistLock(mock, testOwnerID)
	mock.ExpectRollback()

	name := "Hijacked"
	_, err := s.UpdatePlaylist(context.Background(), int64(13), testPlaylistID, PlaylistUpdate{Name: &name})
	if !errors.Is(err, ErrNotPlaylistOwner) {
		t.Fatalf("expected ErrNotPlaylistOwner, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeletePlaylist(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	expectPlaylistLock(mock, testOwnerID)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(testPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeletePlaylist(context.Background(), testOwnerID, testPlaylistID); err != nil {
		t.Fatalf("DeletePlaylist error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeletePlaylistNotFound(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.DeletePlaylist(context.Background(), testOwnerID, "ghost")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
