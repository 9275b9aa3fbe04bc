package service

import (
	"context"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/models"
)

// CafeRepository defines the persistence operations needed by CafeService.
type CafeRepository interface {
	CreateCafe(ctx context.Context, c *models.Cafe) error
	UpdateCafe(ctx context.Context, c *models.Cafe) error
	GetCafe(ctx context.Context, id int64) (*models.Cafe, error)
	ListCafes(ctx context.Context) ([]models.Cafe, error)
	ListCities(ctx context.Context) ([]models.City, error)
}

// CafeService reads cafes for everyone and lets admins change them.
type CafeService struct {
	repo CafeRepository
}

// NewCafeService creates a CafeService backed by repo.
func NewCafeService(repo CafeRepository) *CafeService {
	return &CafeService{repo: repo}
}

// List returns every cafe ordered by name.
func (s *CafeService) List(ctx context.Context) ([]models.Cafe, error) {
	return s.repo.ListCafes(ctx)
}

// Get returns the cafe with id or ErrNotFound.
func (s *CafeService) Get(ctx context.Context, id int64) (*models.Cafe, error) {
	return s.repo.GetCafe(ctx, id)
}

// Cities returns the selectable cities ordered by name.
func (s *CafeService) Cities(ctx context.Context) ([]models.City, error) {
	return s.repo.ListCities(ctx)
}

// CityCodes returns the codes accepted by the cafe form.
func (s *CafeService) CityCodes(ctx context.Context) ([]string, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(cities))
	for _, c := range cities {
		codes = append(codes, c.Code)
	}
	return codes, nil
}

// Create stores a new cafe. Only admins may call it.
func (s *CafeService) Create(ctx context.Context, user *models.User, f forms.CafeForm) (*models.Cafe, error) {
	if user == nil || !user.Admin {
		return nil, ErrForbidden
	}
	c := &models.Cafe{}
	f.Apply(c)
	if err := s.repo.CreateCafe(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update overwrites cafe id with the form. Only admins may call it.
func (s *CafeService) Update(ctx context.Context, user *models.User, id int64, f forms.CafeForm) (*models.Cafe, error) {
	if user == nil || !user.Admin {
		return nil, ErrForbidden
	}
	c := &models.Cafe{ID: id}
	f.Apply(c)
	if err := s.repo.UpdateCafe(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
