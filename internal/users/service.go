package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/telemetry"
)

const listLimit = 50

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// LoginWithGoogle finds or creates the account for a Google identity, links
// the Google id to an existing email account, and records the login time.
func (s *Service) LoginWithGoogle(ctx context.Context, profile GoogleProfile) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email := strings.TrimSpace(profile.Email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email not provided by google", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = "User"
		}
		user = User{
			ID:          uuid.NewString(),
			GoogleID:    profile.ID,
			Email:       email,
			Name:        name,
			PictureURL:  profile.Picture,
			Role:        RoleStudent,
			IsValidated: true,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return User{}, err
		}
		telemetry.Info("users.created", map[string]any{"user_id": user.ID, "source": "google"})
	case err != nil:
		return User{}, err
	case user.GoogleID == "":
		user.GoogleID = profile.ID
		if user.PictureURL == "" {
			user.PictureURL = profile.Picture
		}
		user.IsValidated = true
		if err := s.Repo.Update(ctx, user); err != nil {
			return User{}, err
		}
		telemetry.Info("users.google_linked", map[string]any{"user_id": user.ID})
	}

	now := s.now()
	if err := s.Repo.TouchLogin(ctx, user.ID, now); err != nil {
		return User{}, err
	}
	user.LastLoginAt = &now
	return user, nil
}

// Create registers an account directly, without an OAuth identity.
func (s *Service) Create(ctx context.Context, email, name, role string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	normalized, ok := NormalizeRole(role)
	if !ok {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	user := User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        strings.TrimSpace(name),
		Role:        normalized,
		IsValidated: true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// Principal reports the current role and validation state of a token subject.
func (s *Service) Principal(ctx context.Context, userID string) (middleware.Principal, error) {
	user, err := s.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return middleware.Principal{}, middleware.ErrUnknownPrincipal
	}
	if err != nil {
		return middleware.Principal{}, err
	}
	return middleware.Principal{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Validated: user.IsValidated,
	}, nil
}

// List returns up to the first 50 accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx, listLimit)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
