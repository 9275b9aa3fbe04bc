package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/plantcafe/internal/catalog"
	"github.com/atinyakov/plantcafe/internal/metrics"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
	"go.uber.org/zap"
)

// Searcher queries the external plant catalog.
type Searcher interface {
	Search(ctx context.Context, term string) ([]byte, error)
}

// PlantRepository defines the persistence operations needed by PlantService.
type PlantRepository interface {
	InsertPlant(ctx context.Context, p models.Plant) (models.Plant, error)
	GetPlant(ctx context.Context, id int64) (*models.Plant, error)
	ListPlants(ctx context.Context) ([]models.Plant, error)
}

// SearchResult is the outcome of one catalog search.
type SearchResult struct {
	// Raw is the provider body, passed through unchanged.
	Raw []byte
	// Synced holds the records inserted by this search.
	Synced []models.Plant
	// Skipped counts records whose catalog id was already stored.
	Skipped int
}

// PlantService proxies catalog searches and keeps the local plant table in
// sync with what was seen.
type PlantService struct {
	catalog Searcher
	repo    PlantRepository
	log     *zap.Logger
}

// NewPlantService constructs a PlantService.
func NewPlantService(catalog Searcher, repo PlantRepository, log *zap.Logger) *PlantService {
	return &PlantService{catalog: catalog, repo: repo, log: log}
}

// Search fetches term from the catalog and inserts every record whose
// catalog id is not stored yet. Each record is inserted on its own; a
// duplicate id skips only that record.
func (s *PlantService) Search(ctx context.Context, term string) (SearchResult, error) {
	raw, err := s.catalog.Search(ctx, term)
	if err != nil {
		return SearchResult{}, err
	}
	records, err := catalog.ParseRecords(raw)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	res := SearchResult{Raw: raw}
	for _, rec := range records {
		p, err := s.repo.InsertPlant(ctx, rec)
		if errors.Is(err, repository.ErrConflict) {
			res.Skipped++
			continue
		}
		if err != nil {
			return SearchResult{}, err
		}
		res.Synced = append(res.Synced, p)
	}
	metrics.PlantsSynced(len(res.Synced), res.Skipped)
	s.log.Debug("catalog search synced",
		zap.String("term", term),
		zap.Int("inserted", len(res.Synced)),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// List returns every synced plant.
func (s *PlantService) List(ctx context.Context) ([]models.Plant, error) {
	return s.repo.ListPlants(ctx)
}

// Get returns one plant by local id.
func (s *PlantService) Get(ctx context.Context, id int64) (*models.Plant, error) {
	return s.repo.GetPlant(ctx, id)
}
