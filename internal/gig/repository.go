package gig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket_backend/internal/common"

	"gorm.io/gorm"
)

// Repository stores gigs.
type Repository interface {
	Create(ctx context.Context, g *Gig) error
	FindByID(ctx context.Context, id string) (*Gig, error)
	// List returns gigs newest first, at most filter.Limit of them.
	List(ctx context.Context, filter ListFilter) ([]Gig, error)
	// MarkTaken flips an available gig to taken. A gig that is already taken yields CONFLICT.
	MarkTaken(ctx context.Context, id, buyerID string, at time.Time) error
	FindAllForSync(ctx context.Context) ([]Gig, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func gigNotFound(id string) *common.APIError {
	return common.ErrNotFound.WithDetails(fmt.Sprintf("Gig %s not found.", id))
}

func gigTaken(id string) *common.APIError {
	return common.ErrConflict.WithMessage("This gig has already been taken.").WithDetails(map[string]string{"gig_id": id})
}

func (r *gormRepository) Create(ctx context.Context, g *Gig) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("creating gig: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Gig, error) {
	var g Gig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gigNotFound(id)
		}
		return nil, fmt.Errorf("finding gig %s: %w", id, err)
	}
	return &g, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Gig, error) {
	query := r.db.WithContext(ctx).Model(&Gig{})
	if filter.OwnerID != "" {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	var gigs []Gig
	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("listing gigs: %w", err)
	}
	return gigs, nil
}

func (r *gormRepository) MarkTaken(ctx context.Context, id, buyerID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&Gig{}).
		Where("id = ? AND status <> ?", id, StatusTaken).
		Updates(map[string]interface{}{"status": StatusTaken, "taken_by": buyerID, "taken_at": at})
	if res.Error != nil {
		return fmt.Errorf("marking gig %s taken: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return gigTaken(id)
}

func (r *gormRepository) FindAllForSync(ctx context.Context) ([]Gig, error) {
	var gigs []Gig
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("loading gigs for sync: %w", err)
	}
	return gigs, nil
}
