package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/jmoiron/sqlx"
)

const cafeSelect = `
	SELECT c.id, c.name, c.description, c.url, c.address, c.city_code, c.image_url,
	       ci.name AS city_name, ci.state AS city_state
	  FROM cafes c
	  JOIN cities ci ON ci.code = c.city_code`

// PostgresCafeRepository stores cafes and reads the city reference data.
type PostgresCafeRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresCafeRepository creates a new PostgresCafeRepository.
func NewPostgresCafeRepository(db *sqlx.DB) *PostgresCafeRepository {
	return &PostgresCafeRepository{DB: db}
}

// CreateCafe inserts c and fills its ID. An unknown city yields ErrConflict.
func (r *PostgresCafeRepository) CreateCafe(ctx context.Context, c *models.Cafe) error {
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, `
			INSERT INTO cafes (name, description, url, address, city_code, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, c.Name, c.Description, c.URL, c.Address, c.CityCode, c.ImageURL).Scan(&c.ID)
	})
	if err != nil {
		return fmt.Errorf("create cafe: %w", mapError(err))
	}
	return nil
}

// UpdateCafe saves every editable field of c.
func (r *PostgresCafeRepository) UpdateCafe(ctx context.Context, c *models.Cafe) error {
	return withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE cafes
			   SET name = $1, description = $2, url = $3, address = $4, city_code = $5, image_url = $6
			 WHERE id = $7
		`, c.Name, c.Description, c.URL, c.Address, c.CityCode, c.ImageURL, c.ID)
		if err != nil {
			return fmt.Errorf("update cafe: %w", mapError(err))
		}
		return requireRow(res)
	})
}

// GetCafe returns the cafe with its city or ErrNotFound.
func (r *PostgresCafeRepository) GetCafe(ctx context.Context, id int64) (*models.Cafe, error) {
	var c models.Cafe
	if err := r.DB.GetContext(ctx, &c, cafeSelect+` WHERE c.id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// ListCafes returns all cafes ordered by name.
func (r *PostgresCafeRepository) ListCafes(ctx context.Context) ([]models.Cafe, error) {
	var cafes []models.Cafe
	if err := r.DB.SelectContext(ctx, &cafes, cafeSelect+` ORDER BY c.name, c.id`); err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

// ListLikedCafes returns the cafes liked by userID ordered by name.
func (r *PostgresCafeRepository) ListLikedCafes(ctx context.Context, userID int64) ([]models.Cafe, error) {
	var cafes []models.Cafe
	err := r.DB.SelectContext(ctx, &cafes,
		cafeSelect+` JOIN cafe_likes l ON l.cafe_id = c.id WHERE l.user_id = $1 ORDER BY c.name, c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked cafes: %w", err)
	}
	return cafes, nil
}

// ListCities returns the city reference data ordered by name.
func (r *PostgresCafeRepository) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := r.DB.SelectContext(ctx, &cities, `SELECT code, name, state FROM cities ORDER BY name, code`); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}
