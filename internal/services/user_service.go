package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/auth"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/validate"
)

type UserService struct{ r repo.Users }

func NewUserService(r repo.Users) *UserService { return &UserService{r: r} }

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if err := validate.Check(
		validate.Required("name", name),
		validate.Required("email", email),
		validate.Email("email", email),
		validate.Required("password", password),
	).Err(); err != nil {
		return models.User{}, apperr.Validation(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.r.Create(ctx, models.User{Name: name, Email: email, PasswordHash: hash})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, apperr.Conflict("User already exists")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks credentials. An unknown e-mail is NotFound, a wrong
// password is Unauthenticated.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if err := validate.Check(
		validate.Required("email", email),
		validate.Required("password", password),
	).Err(); err != nil {
		return models.User{}, apperr.Validation(err)
	}

	u, err := s.r.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, apperr.Unauthenticated("Invalid credentials")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, apperr.NotFound("User not found")
	}
	return u, err
}
