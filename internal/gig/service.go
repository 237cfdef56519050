package gig

import (
	"context"
	"errors"
	"strings"
	"time"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/profile"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ProfileReader looks up the owner's stored display name.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
}

// Service is the gig catalog.
type Service interface {
	ListGigs(ctx context.Context, ownerID string, limit int) ([]Gig, error)
	CreateGig(ctx context.Context, owner Owner, in CreateGigInput) (*Gig, error)
	GetGig(ctx context.Context, id string) (*Gig, error)
	MarkTaken(ctx context.Context, id, buyerID string) error
	// Refresh drops cached list results so the next read sees the store.
	Refresh(ctx context.Context)
	Search(ctx context.Context, query string, limit int) ([]Gig, error)
	// SyncIndex pushes every stored gig to the search index and returns how many were sent.
	SyncIndex(ctx context.Context) (int, error)
}

type ServiceImplementation struct {
	repo         Repository
	cache        ListCache
	indexer      Indexer
	profiles     ProfileReader
	defaultLimit int
	maxLimit     int
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(repo Repository, cache ListCache, indexer Indexer, profiles ProfileReader, cfg *config.Config, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:         repo,
		cache:        cache,
		indexer:      indexer,
		profiles:     profiles,
		defaultLimit: cfg.GigListDefaultLimit,
		maxLimit:     cfg.GigListMaxLimit,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.Named("gig_service"),
	}
}

func (s *ServiceImplementation) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *ServiceImplementation) ListGigs(ctx context.Context, ownerID string, limit int) ([]Gig, error) {
	filter := ListFilter{OwnerID: ownerID, Limit: s.clampLimit(limit)}
	if gigs, ok := s.cache.Get(ctx, filter); ok {
		return gigs, nil
	}
	gigs, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list gigs", zap.String("owner", ownerID), zap.Error(err))
		return nil, err
	}
	s.cache.Set(ctx, filter, gigs)
	return gigs, nil
}

func validateCreate(in CreateGigInput) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "The title field is required."
	} else if len(in.Title) > 255 {
		errs["title"] = "The title field may not be greater than 255 characters."
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "The description field is required."
	}
	if in.Price == nil {
		errs["price"] = "The price field is required."
	} else if price := in.Price.Round(2); !price.IsPositive() {
		errs["price"] = "The price field must be at least 0.01."
	} else if price.GreaterThan(MaxPrice) {
		errs["price"] = "The price field may not be greater than " + MaxPrice.StringFixed(2) + "."
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		errs["payment_method"] = "The payment_method field must be one of the following values: cash points both."
	}
	return errs
}

func (s *ServiceImplementation) username(ctx context.Context, owner Owner) string {
	var stored string
	if s.profiles != nil {
		p, err := s.profiles.GetProfile(ctx, owner.ID)
		if err != nil {
			s.logger.Warn("Owner profile lookup failed; using session name", zap.String("uid", owner.ID), zap.Error(err))
		} else if p != nil {
			stored = p.DisplayName
		}
	}
	for _, candidate := range []string{stored, owner.Name, owner.Email} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return UnknownUsername
}

func (s *ServiceImplementation) CreateGig(ctx context.Context, owner Owner, in CreateGigInput) (*Gig, error) {
	if owner.ID == "" {
		return nil, common.ErrUnauthorized
	}
	if errs := validateCreate(in); len(errs) > 0 {
		return nil, common.NewValidationAPIError(errs)
	}

	method := in.PaymentMethod
	if method == "" {
		method = PaymentBoth
	}
	price := in.Price.Round(2)
	title := strings.TrimSpace(in.Title)

	g := &Gig{
		Title:               title,
		Description:         strings.TrimSpace(in.Description),
		Slug:                slug.Make(title),
		Price:               price,
		Points:              PointsForPrice(price),
		PaymentMethod:       method,
		UserID:              owner.ID,
		Username:            s.username(ctx, owner),
		ContactInstructions: strings.TrimSpace(in.ContactInstructions),
		OneTimeOnly:         in.OneTimeOnly,
		Status:              StatusAvailable,
		CreatedAt:           s.now(),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("Failed to create gig", zap.String("uid", owner.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Gig created", zap.String("gig_id", g.ID), zap.String("uid", owner.ID), zap.Int64("points", g.Points))

	if err := s.indexer.Index(ctx, g); err != nil {
		s.logger.Warn("Failed to index new gig", zap.String("gig_id", g.ID), zap.Error(err))
	}
	s.Refresh(ctx)
	return g, nil
}

func (s *ServiceImplementation) GetGig(ctx context.Context, id string) (*Gig, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrBadRequest.WithDetails("Gig ID is required.")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) MarkTaken(ctx context.Context, id, buyerID string) error {
	if err := s.repo.MarkTaken(ctx, id, buyerID, s.now()); err != nil {
		return err
	}
	if g, err := s.repo.FindByID(ctx, id); err == nil {
		if err := s.indexer.Index(ctx, g); err != nil {
			s.logger.Warn("Failed to reindex taken gig", zap.String("gig_id", id), zap.Error(err))
		}
	}
	s.Refresh(ctx)
	return nil
}

func (s *ServiceImplementation) Refresh(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate gig list cache", zap.Error(err))
	}
}

// Search uses the index when available and otherwise filters the newest gigs by substring.
func (s *ServiceImplementation) Search(ctx context.Context, query string, limit int) ([]Gig, error) {
	limit = s.clampLimit(limit)
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListGigs(ctx, "", limit)
	}

	gigs, err := s.indexer.Search(ctx, query, limit)
	if err == nil {
		return gigs, nil
	}
	if !errors.Is(err, ErrSearchUnavailable) {
		s.logger.Warn("Search index query failed; falling back to store scan", zap.Error(err))
	}

	recent, err := s.repo.List(ctx, ListFilter{Limit: s.maxLimit})
	if err != nil {
		return nil, err
	}
	return filterBySubstring(recent, query, limit), nil
}

func filterBySubstring(gigs []Gig, query string, limit int) []Gig {
	needle := strings.ToLower(query)
	out := []Gig{}
	for _, g := range gigs {
		if strings.Contains(strings.ToLower(g.Title), needle) ||
			strings.Contains(strings.ToLower(g.Description), needle) ||
			strings.Contains(strings.ToLower(g.Username), needle) {
			out = append(out, g)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (s *ServiceImplementation) SyncIndex(ctx context.Context) (int, error) {
	gigs, err := s.repo.FindAllForSync(ctx)
	if err != nil {
		return 0, err
	}
	if len(gigs) == 0 {
		return 0, nil
	}
	if err := s.indexer.BulkIndex(ctx, gigs); err != nil {
		return 0, err
	}
	return len(gigs), nil
}
