package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/jmoiron/sqlx"
)

type likeTable struct {
	table  string
	column string
}

var likeTables = map[models.LikeKind]likeTable{
	models.LikePlant: {table: "plant_likes", column: "plant_id"},
	models.LikeCafe:  {table: "cafe_likes", column: "cafe_id"},
}

func tableFor(kind models.LikeKind) (likeTable, error) {
	if !kind.Valid() {
		return likeTable{}, fmt.Errorf("unknown like kind %q", kind)
	}
	return likeTables[kind], nil
}

// PostgresLikeRepository stores the user/entity like relation.
type PostgresLikeRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository.
func NewPostgresLikeRepository(db *sqlx.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{DB: db}
}

type queryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

func likeExists(ctx context.Context, q queryer, t likeTable, userID, entityID int64) (bool, error) {
	var exists bool
	err := q.QueryRowxContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+t.table+` WHERE user_id = $1 AND `+t.column+` = $2)`,
		userID, entityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// LikeExists reports whether userID likes the entity.
func (r *PostgresLikeRepository) LikeExists(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	return likeExists(ctx, r.DB, t, userID, entityID)
}

// AddLike records that userID likes the entity. It returns false when the
// like was already there, including when a concurrent request inserted it
// between the check and the insert.
func (r *PostgresLikeRepository) AddLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	added := false
	err = withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		exists, err := likeExists(ctx, tx, t, userID, entityID)
		if err != nil || exists {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO `+t.table+` (user_id, `+t.column+`) VALUES ($1, $2)`,
			userID, entityID,
		)
		if err != nil {
			return err
		}
		added = true
		return nil
	})
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("add like: %w", mapError(err))
	}
	return added, nil
}

// RemoveLike deletes the like if present. Removing a like that does not
// exist is a no-op reported as false.
func (r *PostgresLikeRepository) RemoveLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	removed := false
	err = withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		exists, err := likeExists(ctx, tx, t, userID, entityID)
		if err != nil || !exists {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+t.table+` WHERE user_id = $1 AND `+t.column+` = $2`,
			userID, entityID,
		); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	return removed, nil
}
