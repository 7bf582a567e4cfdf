// Package repos provides access to the persistent records of the
// hiring lifecycle.
package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// CategoryRepository provides read access to the category directory.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Exists reports whether an active category with the given id exists.
func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where(&models.Category{Model: gorm.Model{ID: id}, Active: true}).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up category: %w", err)
	}
	return true, nil
}

// List returns all active categories.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where(&models.Category{Active: true}).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}
