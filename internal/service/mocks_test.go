package service_test

import (
	"context"

	"github.com/atinyakov/plantcafe/internal/models"
)

type mockUserRepo struct {
	CreateUserFunc        func(ctx context.Context, u *models.User) error
	GetUserByIDFunc       func(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	UpdateProfileFunc     func(ctx context.Context, u *models.User) error
	SetAdminFunc          func(ctx context.Context, username string, admin bool) error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.CreateUserFunc(ctx, u)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetUserByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetUserByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	return m.UpdateProfileFunc(ctx, u)
}
func (m *mockUserRepo) SetAdmin(ctx context.Context, username string, admin bool) error {
	return m.SetAdminFunc(ctx, username, admin)
}

type mockSearcher struct {
	SearchFunc func(ctx context.Context, term string) ([]byte, error)
}

func (m *mockSearcher) Search(ctx context.Context, term string) ([]byte, error) {
	return m.SearchFunc(ctx, term)
}

type mockPlantRepo struct {
	InsertPlantFunc     func(ctx context.Context, p models.Plant) (models.Plant, error)
	GetPlantFunc        func(ctx context.Context, id int64) (*models.Plant, error)
	ListPlantsFunc      func(ctx context.Context) ([]models.Plant, error)
	ListLikedPlantsFunc func(ctx context.Context, userID int64) ([]models.Plant, error)
}

func (m *mockPlantRepo) InsertPlant(ctx context.Context, p models.Plant) (models.Plant, error) {
	return m.InsertPlantFunc(ctx, p)
}
func (m *mockPlantRepo) GetPlant(ctx context.Context, id int64) (*models.Plant, error) {
	return m.GetPlantFunc(ctx, id)
}
func (m *mockPlantRepo) ListPlants(ctx context.Context) ([]models.Plant, error) {
	return m.ListPlantsFunc(ctx)
}
func (m *mockPlantRepo) ListLikedPlants(ctx context.Context, userID int64) ([]models.Plant, error) {
	return m.ListLikedPlantsFunc(ctx, userID)
}

type mockCafeRepo struct {
	CreateCafeFunc     func(ctx context.Context, c *models.Cafe) error
	UpdateCafeFunc     func(ctx context.Context, c *models.Cafe) error
	GetCafeFunc        func(ctx context.Context, id int64) (*models.Cafe, error)
	ListCafesFunc      func(ctx context.Context) ([]models.Cafe, error)
	ListLikedCafesFunc func(ctx context.Context, userID int64) ([]models.Cafe, error)
	ListCitiesFunc     func(ctx context.Context) ([]models.City, error)
}

func (m *mockCafeRepo) CreateCafe(ctx context.Context, c *models.Cafe) error {
	return m.CreateCafeFunc(ctx, c)
}
func (m *mockCafeRepo) UpdateCafe(ctx context.Context, c *models.Cafe) error {
	return m.UpdateCafeFunc(ctx, c)
}
func (m *mockCafeRepo) GetCafe(ctx context.Context, id int64) (*models.Cafe, error) {
	return m.GetCafeFunc(ctx, id)
}
func (m *mockCafeRepo) ListCafes(ctx context.Context) ([]models.Cafe, error) {
	return m.ListCafesFunc(ctx)
}
func (m *mockCafeRepo) ListLikedCafes(ctx context.Context, userID int64) ([]models.Cafe, error) {
	return m.ListLikedCafesFunc(ctx, userID)
}
func (m *mockCafeRepo) ListCities(ctx context.Context) ([]models.City, error) {
	return m.ListCitiesFunc(ctx)
}

type mockLikeRepo struct {
	LikeExistsFunc func(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
	AddLikeFunc    func(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
	RemoveLikeFunc func(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error)
}

func (m *mockLikeRepo) LikeExists(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	return m.LikeExistsFunc(ctx, kind, userID, entityID)
}
func (m *mockLikeRepo) AddLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	return m.AddLikeFunc(ctx, kind, userID, entityID)
}
func (m *mockLikeRepo) RemoveLike(ctx context.Context, kind models.LikeKind, userID, entityID int64) (bool, error) {
	return m.RemoveLikeFunc(ctx, kind, userID, entityID)
}
