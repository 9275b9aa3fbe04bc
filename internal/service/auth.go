package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/password"
	"github.com/atinyakov/plantcafe/internal/repository"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	SetAdmin(ctx context.Context, username string, admin bool) error
}

// AuthService implements registration, login and profile operations.
type AuthService struct {
	repo UserRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// compareDummy spends one bcrypt comparison so an unknown username takes as
// long as a wrong password.
func compareDummy(plaintext string) {
	dummyOnce.Do(func() {
		dummyHash, _ = password.Hash("plantcafe-dummy-password")
	})
	password.Verify(plaintext, dummyHash)
}

// Register hashes the password and stores a new user. It does not log the
// user in.
func (s *AuthService) Register(ctx context.Context, f forms.SignupForm) (*models.User, error) {
	hash, err := password.Hash(f.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:       f.Username,
		Email:          f.Email,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
		HashedPassword: hash,
	}
	if u.ImageURL == "" {
		u.ImageURL = models.DefaultProfileImage
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user matching username and password.
func (s *AuthService) Authenticate(ctx context.Context, username, plaintext string) (*models.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		compareDummy(plaintext)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(plaintext, u.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfile applies the edit form to the stored user.
func (s *AuthService) UpdateProfile(ctx context.Context, u *models.User, f forms.ProfileEditForm) error {
	updated := *u
	f.Apply(&updated)
	if err := s.repo.UpdateProfile(ctx, &updated); err != nil {
		return err
	}
	*u = updated
	return nil
}

// Promote grants admin rights to username.
func (s *AuthService) Promote(ctx context.Context, username string) error {
	if err := s.repo.SetAdmin(ctx, username, true); err != nil {
		return fmt.Errorf("promote %q: %w", username, err)
	}
	return nil
}
