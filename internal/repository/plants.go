package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/jmoiron/sqlx"
)

const plantColumns = `id, api_id, common_name, scientific_name, cycle, watering, sunlight, image_url, synced_at`

// PostgresPlantRepository stores plants synced from the catalog.
type PostgresPlantRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sqlx.DB
}

// NewPostgresPlantRepository creates a new PostgresPlantRepository using the provided *sqlx.DB.
func NewPostgresPlantRepository(db *sqlx.DB) *PostgresPlantRepository {
	return &PostgresPlantRepository{DB: db}
}

// InsertPlant stores p in its own transaction and returns the stored row.
// A plant whose catalog id is already stored is rolled back and reported as
// ErrConflict, so a batch sync can skip it and carry on.
func (r *PostgresPlantRepository) InsertPlant(ctx context.Context, p models.Plant) (models.Plant, error) {
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, `
			INSERT INTO plants (api_id, common_name, scientific_name, cycle, watering, sunlight, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, synced_at
		`, p.APIID, p.CommonName, p.ScientificName, p.Cycle, p.Watering, p.Sunlight, p.ImageURL).
			Scan(&p.ID, &p.SyncedAt)
	})
	if err != nil {
		return models.Plant{}, fmt.Errorf("insert plant %d: %w", p.APIID, mapError(err))
	}
	return p, nil
}

// GetPlant returns the plant with the given local id or ErrNotFound.
func (r *PostgresPlantRepository) GetPlant(ctx context.Context, id int64) (*models.Plant, error) {
	var p models.Plant
	if err := r.DB.GetContext(ctx, &p, `SELECT `+plantColumns+` FROM plants WHERE id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// ListPlants returns every cached plant ordered by common name.
func (r *PostgresPlantRepository) ListPlants(ctx context.Context) ([]models.Plant, error) {
	var plants []models.Plant
	if err := r.DB.SelectContext(ctx, &plants, `SELECT `+plantColumns+` FROM plants ORDER BY common_name, id`); err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plants, nil
}

// ListLikedPlants returns the plants liked by userID ordered by common name.
func (r *PostgresPlantRepository) ListLikedPlants(ctx context.Context, userID int64) ([]models.Plant, error) {
	var plants []models.Plant
	err := r.DB.SelectContext(ctx, &plants, `
		SELECT p.id, p.api_id, p.common_name, p.scientific_name, p.cycle, p.watering, p.sunlight, p.image_url, p.synced_at
		  FROM plants p
		  JOIN plant_likes l ON l.plant_id = p.id
		 WHERE l.user_id = $1
		 ORDER BY p.common_name, p.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked plants: %w", err)
	}
	return plants, nil
}

// requireRow turns a write that touched nothing into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
