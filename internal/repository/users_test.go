package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/lib/pq"
)

var userRowColumns = []string{"id", "username", "admin", "email", "first_name", "last_name", "description", "image_url", "hashed_password", "created_at"}

func newUser() *models.User {
	return &models.User{
		Username:       "alice",
		Email:          "a@x.com",
		FirstName:      "A",
		LastName:       "B",
		ImageURL:       models.DefaultProfileImage,
		HashedPassword: "$2a$10$hash",
	}
}

func TestCreateUser_Success(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)
	u := newUser()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, admin, email, first_name, last_name, description, image_url, hashed_password)`)).
		WithArgs(u.Username, false, u.Email, u.FirstName, u.LastName, "", u.ImageURL, u.HashedPassword).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectCommit()

	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("ID = %d; want 7", u.ID)
	}
	if !u.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v; want %v", u.CreatedAt, now)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	err := repo.CreateUser(context.Background(), newUser())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v; want ErrConflict", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + userColumns + ` FROM users WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(3), "alice", true, "a@x.com", "A", "B", "", "/img", "hash", time.Now()))

	u, err := repo.GetUserByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" || !u.Admin || u.FullName() != "A B" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.GetUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"missing user", 0, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMock(t)
			repo := NewPostgresUserRepository(db)
			u := newUser()
			u.ID = 4

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
				WithArgs(u.Email, u.FirstName, u.LastName, u.Description, u.ImageURL, u.ID).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			if tc.wantErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.UpdateProfile(context.Background(), u)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSetAdmin(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET admin = $1 WHERE username = $2`)).
		WithArgs(true, "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET admin = $1 WHERE username = $2`)).
		WithArgs(true, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetAdmin(context.Background(), "alice", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetAdmin(context.Background(), "ghost", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}
