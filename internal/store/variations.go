// internal/store/variations.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

func (s *Store) FindVariation(ctx context.Context, variationID uuid.UUID) (*models.Variation, error) {
	var variation models.Variation
	if err := s.db.WithContext(ctx).First(&variation, "id = ?", variationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &variation, nil
}

func (s *Store) FindVariations(ctx context.Context, productID uuid.UUID) ([]models.Variation, error) {
	var variations []models.Variation
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variations).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return variations, nil
}

func (s *Store) CreateVariation(ctx context.Context, variation *models.Variation) error {
	if err := s.db.WithContext(ctx).Create(variation).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *Store) DeleteVariation(ctx context.Context, variationID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variation_id = ?", variationID).Delete(&models.VariationText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Variation{}, "id = ?", variationID).Error
	})
}

func (s *Store) AddVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	variation, err := s.FindVariation(ctx, variationID)
	if err != nil {
		return nil, err
	}
	if variation == nil {
		return nil, fmt.Errorf("variation %s not found", variationID)
	}

	for _, option := range variation.Options {
		if option == value {
			return variation, nil
		}
	}
	variation.Options = append(variation.Options, value)

	if err := s.db.WithContext(ctx).Model(variation).
		Update("options", pq.StringArray(variation.Options)).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return variation, nil
}

func (s *Store) RemoveVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	variation, err := s.FindVariation(ctx, variationID)
	if err != nil {
		return nil, err
	}
	if variation == nil {
		return nil, fmt.Errorf("variation %s not found", variationID)
	}

	options := make(pq.StringArray, 0, len(variation.Options))
	for _, option := range variation.Options {
		if option != value {
			options = append(options, option)
		}
	}
	variation.Options = options

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(variation).Update("options", options).Error; err != nil {
			return err
		}
		// Option texts go with the option.
		return tx.Where("variation_id = ? AND option_value = ?", variationID, value).
			Delete(&models.VariationText{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return variation, nil
}

func (s *Store) UpsertVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string, texts []catalog.TextInput) ([]models.VariationText, error) {
	var result []models.VariationText
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range texts {
			var text models.VariationText
			err := tx.Where("variation_id = ? AND locale = ? AND option_value = ?",
				variationID, input.Locale, optionValue).First(&text).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			text.VariationID = variationID
			text.Locale = input.Locale
			text.OptionValue = optionValue
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

func (s *Store) GetVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string) ([]models.VariationText, error) {
	var texts []models.VariationText
	if err := s.db.WithContext(ctx).
		Where("variation_id = ? AND option_value = ?", variationID, optionValue).
		Order("locale ASC").
		Find(&texts).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return texts, nil
}
