// internal/store/bundles.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

func (s *Store) AddBundleItem(ctx context.Context, item *models.BundleItem) (*models.BundleItem, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BundleItem{}).
			Where("product_id = ?", item.ProductID).
			Count(&count).Error; err != nil {
			return err
		}
		item.Position = int(count)
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return item, nil
}

// RemoveBundleItem deletes the line at the positional index and closes
// the gap so positions stay dense.
func (s *Store) RemoveBundleItem(ctx context.Context, bundleID uuid.UUID, index int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.BundleItem
		if err := tx.Where("product_id = ?", bundleID).
			Order("position ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if index < 0 || index >= len(items) {
			return catalog.ErrIndexOutOfRange
		}

		if err := tx.Delete(&items[index]).Error; err != nil {
			return err
		}
		for i := index + 1; i < len(items); i++ {
			if err := tx.Model(&items[i]).Update("position", i-1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetBundleItems(ctx context.Context, bundleID uuid.UUID) ([]models.BundleItem, error) {
	var items []models.BundleItem
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", bundleID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return items, nil
}
