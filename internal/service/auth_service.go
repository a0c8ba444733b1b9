package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authgate/internal/auth"
	"authgate/internal/cache"
	errs "authgate/internal/errors"
	"authgate/internal/model"
	"authgate/internal/repository"
)

const (
	bcryptCost    = 10
	bearerPrefix  = "Bearer "
	projectionTTL = 5 * time.Minute
)

// AuthService orchestrates the credential workflow: signup, login, token
// resolution, and profile lookup. All state lives in the store; the service
// itself holds none.
type AuthService interface {
	Signup(ctx context.Context, firstName, lastName, email, password string) (token string, user *model.PublicUser, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.PublicUser, err error)
	WhoAmI(ctx context.Context, authorization string) (*model.PublicUser, error)
	LookupByEmail(ctx context.Context, email string) (*model.PublicUser, error)
}

type authService struct {
	users repository.UserRepository
	jwt   *auth.JWTService
	cache *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService, cache *cache.Client) AuthService {
	return &authService{
		users: users,
		jwt:   jwt,
		cache: cache,
	}
}

// Signup registers a new user and returns a fresh token for it.
//
// The email check is read-then-write, not transactional: two concurrent
// signups with the same email can both pass the check. The unique index on
// email turns the losing insert into a store error.
func (s *authService) Signup(ctx context.Context, firstName, lastName, email, password string) (string, *model.PublicUser, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, errs.ErrEmailInUse
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user.Public(), nil
}

// Login authenticates a user by email and password and returns a fresh token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.PublicUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, errs.ErrUserNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user.Public(), nil
}

// WhoAmI resolves an Authorization header to the user the token was issued
// for.
func (s *authService) WhoAmI(ctx context.Context, authorization string) (*model.PublicUser, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, errs.ErrMissingToken
	}

	claims, err := s.jwt.Validate(strings.TrimPrefix(authorization, bearerPrefix))
	if err != nil {
		return nil, errs.TokenInvalid(err)
	}

	if cached := s.cachedProjection(ctx, claims.UserID); cached != nil {
		return cached, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	public := user.Public()
	s.storeProjection(ctx, public)
	return public, nil
}

// LookupByEmail returns the public profile of the user registered under the
// given email. It requires no authentication; the route keeps the original
// API's behavior.
func (s *authService) LookupByEmail(ctx context.Context, email string) (*model.PublicUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user.Public(), nil
}

func (s *authService) projectionKey(id string) string {
	return "user:" + id
}

func (s *authService) cachedProjection(ctx context.Context, id string) *model.PublicUser {
	data, _ := s.cache.Get(ctx, s.projectionKey(id))
	if data == nil {
		return nil
	}
	var cached model.PublicUser
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *authService) storeProjection(ctx context.Context, user *model.PublicUser) {
	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.projectionKey(user.ID), payload, projectionTTL)
	}
}
