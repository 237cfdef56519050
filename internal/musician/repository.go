package musician

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Musician, error)
	Create(ctx context.Context, m *Musician) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]Musician, error) {
	musicians := []Musician{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&musicians).Error; err != nil {
		return nil, fmt.Errorf("listing musicians: %w", err)
	}
	return musicians, nil
}

func (r *gormRepository) Create(ctx context.Context, m *Musician) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("creating musician: %w", err)
	}
	return nil
}
