package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/permissions"
	"github.com/repairtrack/backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrUnknownPermission   = errors.New("unknown permission tag")
)

// UserService handles user management. The HTTP surface restricts all of
// this to the admin identity.
type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// CreateUser creates a user with a validated permission set.
func (s *UserService) CreateUser(username, password string, perms []string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	set, err := permissions.ParseSet(perms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPermission, err)
	}

	taken, err := s.userRepo.IsUsernameTaken(username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Permissions:  set,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsers lists all users.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput is a partial user update.
type UpdateUserInput struct {
	Username    *string
	Password    *string
	Permissions *[]string
}

// UpdateUser applies a partial update, re-checking username uniqueness and
// re-hashing a changed password.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrCredentialsRequired
		}
		taken, err := s.userRepo.IsUsernameTaken(username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}

	if input.Password != nil {
		if *input.Password == "" {
			return nil, ErrCredentialsRequired
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if input.Permissions != nil {
		set, err := permissions.ParseSet(*input.Permissions)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPermission, err)
		}
		user.Permissions = set
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword replaces a user's password.
func (s *UserService) ChangePassword(id uint64, password string) error {
	if password == "" {
		return ErrCredentialsRequired
	}
	_, err := s.UpdateUser(id, UpdateUserInput{Password: &password})
	return err
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(id uint64) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
