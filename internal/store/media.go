// internal/store/media.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

func (s *Store) CreateMedia(ctx context.Context, media *models.Media) error {
	if err := s.db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *Store) FindMedia(ctx context.Context, mediaID uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := s.db.WithContext(ctx).Preload("File").
		First(&media, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &media, nil
}

// ListMedia returns the product's media in manual order. A limit of
// zero means no limit.
func (s *Store) ListMedia(ctx context.Context, productID uuid.UUID, tags []string, limit, offset int) ([]models.Media, error) {
	query := s.db.WithContext(ctx).Preload("File").
		Where("product_id = ?", productID).
		Order("sort_key ASC, created_at ASC")
	if len(tags) > 0 {
		query = query.Where("tags && ?", pqArray(tags))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var media []models.Media
	if err := query.Find(&media).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return media, nil
}

func (s *Store) DeleteMedia(ctx context.Context, mediaID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", mediaID).Delete(&models.MediaText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Media{}, "id = ?", mediaID).Error
	})
}

// UpdateManualOrder applies the sort-key batch inside one transaction;
// an unknown media id rolls the whole batch back.
func (s *Store) UpdateManualOrder(ctx context.Context, updates []catalog.SortKeyUpdate) ([]models.Media, error) {
	var result []models.Media
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			var media models.Media
			if err := tx.First(&media, "id = ?", update.MediaID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("media %s not found", update.MediaID)
				}
				return err
			}
			if err := tx.Model(&media).Update("sort_key", update.SortKey).Error; err != nil {
				return err
			}
			media.SortKey = update.SortKey
			result = append(result, media)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update manual order: %w", err)
	}
	return result, nil
}

func (s *Store) UpsertMediaTexts(ctx context.Context, mediaID uuid.UUID, texts []catalog.TextInput) ([]models.MediaText, error) {
	var result []models.MediaText
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range texts {
			var text models.MediaText
			err := tx.Where("media_id = ? AND locale = ?", mediaID, input.Locale).
				First(&text).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			text.MediaID = mediaID
			text.Locale = input.Locale
			if input.Title != "" {
				text.Title = input.Title
			}
			if input.Subtitle != "" {
				text.Subtitle = input.Subtitle
			}

			if err := tx.Save(&text).Error; err != nil {
				return err
			}
			result = append(result, text)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return result, nil
}

func (s *Store) GetMediaTexts(ctx context.Context, mediaID uuid.UUID) ([]models.MediaText, error) {
	var texts []models.MediaText
	if err := s.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("locale ASC").
		Find(&texts).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return texts, nil
}
