package profile

import (
	"context"
	"errors"
	"strings"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/session"

	"go.uber.org/zap"
)

// Service is the profile store adapter used by handlers and the session hydration hook.
type Service interface {
	// GetProfile returns nil, nil when the user has no stored profile yet.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, userID string, seed Seed) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, changes Changes) (*Profile, error)
}

type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger.Named("profile_service")}
}

func (s *ServiceImplementation) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	p, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load profile", zap.String("uid", userID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// CreateProfile is idempotent: an existing profile is returned untouched.
func (s *ServiceImplementation) CreateProfile(ctx context.Context, userID string, seed Seed) (*Profile, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	p := &Profile{
		ID:          userID,
		DisplayName: strings.TrimSpace(seed.DisplayName),
		Email:       strings.ToLower(strings.TrimSpace(seed.Email)),
		PhotoURL:    seed.PhotoURL,
		Purchases:   []Record{},
		Sales:       []Record{},
	}
	created, err := s.repo.CreateIfAbsent(ctx, p)
	if err != nil {
		s.logger.Error("Failed to create profile", zap.String("uid", userID), zap.Error(err))
		return nil, err
	}
	if created {
		s.logger.Info("Profile created", zap.String("uid", userID))
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *ServiceImplementation) UpdateProfile(ctx context.Context, userID string, changes Changes) (*Profile, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	if changes.Empty() {
		return nil, common.NewValidationAPIError(map[string]string{"profile": "Provide at least one field to update."})
	}
	if changes.DisplayName != nil && strings.TrimSpace(*changes.DisplayName) == "" {
		return nil, common.NewValidationAPIError(map[string]string{"display_name": "The display_name field must not be blank."})
	}
	if err := s.repo.Update(ctx, userID, changes); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// DefaultsFromUser derives view defaults from the session user.
func DefaultsFromUser(u *session.User) Defaults {
	if u == nil {
		return Defaults{}
	}
	return Defaults{DisplayName: u.DisplayName(), Email: u.Email, PhotoURL: u.PhotoURL}
}

// HydrationListener creates the profile of every user that signs in.
func HydrationListener(svc Service) session.Listener {
	return func(ctx context.Context, u *session.User) error {
		if u == nil {
			return nil
		}
		_, err := svc.CreateProfile(ctx, u.ID, Seed{DisplayName: u.DisplayName(), Email: u.Email, PhotoURL: u.PhotoURL})
		return err
	}
}
