package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
)

// LikeRepository stores the user-to-entity like relation.
type LikeRepository interface {
	LikeExists(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
	AddLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
	RemoveLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
}

// PlantLookup is the plant side of likes.
type PlantLookup interface {
	GetPlant(ctx context.Context, id int64) (*models.Plant, error)
	ListLikedPlants(ctx context.Context, userID int64) ([]models.Plant, error)
}

// CafeLookup is the cafe side of likes.
type CafeLookup interface {
	GetCafe(ctx context.Context, id int64) (*models.Cafe, error)
	ListLikedCafes(ctx context.Context, userID int64) ([]models.Cafe, error)
}

// LikeService records likes. Liking twice or unliking something never
// liked succeeds without changing anything.
type LikeService struct {
	likes  LikeRepository
	plants PlantLookup
	cafes  CafeLookup
}

// NewLikeService creates a LikeService. plants and cafes are used to check
// that a liked entity exists.
func NewLikeService(likes LikeRepository, plants PlantLookup, cafes CafeLookup) *LikeService {
	return &LikeService{likes: likes, plants: plants, cafes: cafes}
}

func (s *LikeService) ensureExists(ctx context.Context, kind models.LikeKind, id int64) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown like kind %q", kind)
	}
	var err error
	if kind == models.LikePlant {
		_, err = s.plants.GetPlant(ctx, id)
	} else {
		_, err = s.cafes.GetCafe(ctx, id)
	}
	return err
}

// Likes reports whether userID likes the entity.
func (s *LikeService) Likes(ctx context.Context, userID int64, kind models.LikeKind, id int64) (bool, error) {
	if err := s.ensureExists(ctx, kind, id); err != nil {
		return false, err
	}
	return s.likes.LikeExists(ctx, kind, userID, id)
}

// Like records the like. The entity must exist.
func (s *LikeService) Like(ctx context.Context, userID int64, kind models.LikeKind, id int64) error {
	if err := s.ensureExists(ctx, kind, id); err != nil {
		return err
	}
	_, err := s.likes.AddLike(ctx, kind, userID, id)
	if errors.Is(err, repository.ErrConflict) {
		// the entity was deleted after the existence check
		return ErrNotFound
	}
	return err
}

// Unlike removes the like. The entity must exist.
func (s *LikeService) Unlike(ctx context.Context, userID int64, kind models.LikeKind, id int64) error {
	if err := s.ensureExists(ctx, kind, id); err != nil {
		return err
	}
	_, err := s.likes.RemoveLike(ctx, kind, userID, id)
	return err
}

// Liked returns everything userID likes, for the profile page.
func (s *LikeService) Liked(ctx context.Context, userID int64) ([]models.Plant, []models.Cafe, error) {
	plants, err := s.plants.ListLikedPlants(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	cafes, err := s.cafes.ListLikedCafes(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return plants, cafes, nil
}
