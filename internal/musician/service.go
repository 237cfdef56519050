package musician

import (
	"context"
	"strings"

	"gigmarket_backend/internal/common"

	"go.uber.org/zap"
)

type Service interface {
	ListMusicians(ctx context.Context) ([]Musician, error)
	CreateMusician(ctx context.Context, req CreateMusicianRequest) (*Musician, error)
}

type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger.Named("musician_service")}
}

func (s *ServiceImplementation) ListMusicians(ctx context.Context) ([]Musician, error) {
	musicians, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list musicians", zap.Error(err))
		return nil, err
	}
	return musicians, nil
}

func (s *ServiceImplementation) CreateMusician(ctx context.Context, req CreateMusicianRequest) (*Musician, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewValidationAPIError(map[string]string{"name": "The name field is required."})
	}
	m := &Musician{Name: name, Bio: strings.TrimSpace(req.Bio)}
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create musician", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Musician created", zap.Uint("id", m.ID))
	return m, nil
}
