package services

import (
	"errors"
	"fmt"

	"github.com/repairtrack/backend/internal/permissions"
	"github.com/repairtrack/backend/internal/repository"
	"github.com/repairtrack/backend/internal/token"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles login and token refresh.
type AuthService struct {
	userRepo repository.UserRepository
	codec    *token.Codec
	hasher   PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, codec *token.Codec, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
		hasher:   hasher,
	}
}

// Session is the result of a successful login or refresh: a signed token
// plus the caller's identity and current permission set. Permissions ride
// alongside the token, never inside it.
type Session struct {
	Token       string
	UserID      uint64
	Username    string
	Permissions permissions.Set
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(username, password string) (*Session, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user.ID, user.Username, user.Permissions)
}

// Refresh reissues a token carrying the same identity claims, with the
// permission set re-read from the store.
func (s *AuthService) Refresh(tokenString string) (*Session, error) {
	identity, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	perms, err := s.userRepo.GetPermissions(identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			perms = permissions.Set{}
		} else {
			return nil, fmt.Errorf("failed to fetch permissions: %w", err)
		}
	}

	return s.issueSession(identity.UserID, identity.Username, perms)
}

func (s *AuthService) issueSession(userID uint64, username string, perms permissions.Set) (*Session, error) {
	signed, err := s.codec.Issue(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if perms == nil {
		perms = permissions.Set{}
	}

	return &Session{
		Token:       signed,
		UserID:      userID,
		Username:    username,
		Permissions: perms,
	}, nil
}
