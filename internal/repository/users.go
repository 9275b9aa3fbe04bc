package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, admin, email, first_name, last_name, description, image_url, hashed_password, created_at`

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts u and fills its ID and CreatedAt.
// A taken username yields ErrConflict.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u *models.User) error {
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, `
			INSERT INTO users (username, admin, email, first_name, last_name, description, image_url, hashed_password)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`, u.Username, u.Admin, u.Email, u.FirstName, u.LastName, u.Description, u.ImageURL, u.HashedPassword).
			Scan(&u.ID, &u.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}
	return nil
}

// GetUserByID returns the user with the given id or ErrNotFound.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// GetUserByUsername returns the user with the given username or ErrNotFound.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// UpdateProfile saves the editable profile fields of u.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	return withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users
			   SET email = $1, first_name = $2, last_name = $3, description = $4, image_url = $5
			 WHERE id = $6
		`, u.Email, u.FirstName, u.LastName, u.Description, u.ImageURL, u.ID)
		if err != nil {
			return fmt.Errorf("update profile: %w", mapError(err))
		}
		return requireRow(res)
	})
}

// SetAdmin grants or revokes the admin flag for username.
func (r *PostgresUserRepository) SetAdmin(ctx context.Context, username string, admin bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET admin = $1 WHERE username = $2`, admin, username)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return requireRow(res)
}
