// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

// Store is the gorm-backed domain store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ catalog.Store = (*Store)(nil)

func (s *Store) FindProduct(ctx context.Context, query catalog.ProductQuery) (*models.Product, error) {
	db := s.db.WithContext(ctx).Model(&models.Product{})

	switch {
	case query.ProductID != nil:
		db = db.Where("products.id = ?", *query.ProductID)
	case query.Slug != "":
		db = db.Joins("JOIN product_texts ON product_texts.product_id = products.id").
			Where("product_texts.slug = ?", query.Slug)
	case query.SKU != "":
		db = db.Where("warehousing_sku = ?", query.SKU)
	default:
		return nil, fmt.Errorf("empty product query")
	}

	var product models.Product
	if err := db.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *Store) FindProducts(ctx context.Context, opts catalog.ListOptions) ([]models.Product, error) {
	var products []models.Product
	query := s.productListQuery(ctx, opts).
		Order("sequence ASC, created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset)
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *Store) CountProducts(ctx context.Context, opts catalog.ListOptions) (int64, error) {
	var total int64
	if err := s.productListQuery(ctx, opts).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (s *Store) productListQuery(ctx context.Context, opts catalog.ListOptions) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Distinct("products.*")

	if !opts.IncludeDrafts {
		query = query.Where("products.status = ?", models.ProductStatusActive)
	}
	if len(opts.Tags) > 0 {
		query = query.Where("products.tags && ?", pq.StringArray(opts.Tags))
	}
	if len(opts.Slugs) > 0 || opts.QueryString != "" {
		query = query.Joins("JOIN product_texts ON product_texts.product_id = products.id")
	}
	if len(opts.Slugs) > 0 {
		query = query.Where("product_texts.slug IN ?", opts.Slugs)
	}
	if opts.QueryString != "" {
		term := "%" + strings.ToLower(opts.QueryString) + "%"
		query = query.Where(
			"LOWER(product_texts.title) LIKE ? OR LOWER(product_texts.subtitle) LIKE ? OR LOWER(product_texts.description) LIKE ?",
			term, term, term,
		)
	}

	return query
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]interface{}) (*models.Product, error) {
	cols := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		switch key {
		case "warehousing":
			w := value.(models.Warehousing)
			cols["warehousing_sku"] = w.SKU
			cols["warehousing_base_unit"] = w.BaseUnit
		case "supply":
			sp := value.(models.Supply)
			cols["supply_weight_in_gram"] = sp.WeightInGram
			cols["supply_height_in_mm"] = sp.HeightInMM
			cols["supply_length_in_mm"] = sp.LengthInMM
			cols["supply_width_in_mm"] = sp.WidthInMM
		case "tags":
			cols["tags"] = pq.StringArray(value.([]string))
		default:
			cols[key] = value
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.FindProduct(ctx, catalog.ProductQuery{ProductID: &productID})
}

func (s *Store) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	// Owned sub-resources go with the product; assignments pointing AT
	// the product from other proxies are detached too.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.Variation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ? OR assigned_product_id = ?", productID, productID).
			Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", productID).Error
	})
}

// Publish validates the transition and moves a draft product to active.
// A product that is not a draft, has no titled text or carries no
// pricing is refused, not an error.
func (s *Store) Publish(ctx context.Context, product *models.Product) (bool, error) {
	if product.Status != models.ProductStatusDraft {
		return false, nil
	}

	var titled int64
	if err := s.db.WithContext(ctx).Model(&models.ProductText{}).
		Where("product_id = ? AND title <> ''", product.ID).
		Count(&titled).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if titled == 0 || len(product.Commerce) == 0 {
		return false, nil
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"status":       models.ProductStatusActive,
			"published_at": &now,
		}).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}

func (s *Store) Unpublish(ctx context.Context, product *models.Product) (bool, error) {
	if product.Status != models.ProductStatusActive {
		return false, nil
	}

	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"status":       models.ProductStatusDraft,
			"published_at": nil,
		}).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}

func (s *Store) UpsertProductTexts(ctx context.Context, productID uuid.UUID, texts []catalog.TextInput) ([]models.ProductText, error) {
	var result []models.ProductText
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range texts {
			var text models.ProductText
			err := tx.Where("product_id = ? AND locale = ?", productID, input.Locale).
				First(&text).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			text.ProductID = productID
			text.Locale = input.Locale
			applyProductTextInput(&text, input)

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

func (s *Store) GetProductTexts(ctx context.Context, productID uuid.UUID) ([]models.ProductText, error) {
	var texts []models.ProductText
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("locale ASC").
		Find(&texts).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return texts, nil
}

func applyProductTextInput(text *models.ProductText, input catalog.TextInput) {
	if input.Slug != "" {
		text.Slug = input.Slug
	}
	if input.Title != "" {
		text.Title = input.Title
	}
	if input.Subtitle != "" {
		text.Subtitle = input.Subtitle
	}
	if input.Description != "" {
		text.Description = input.Description
	}
	if input.Vendor != "" {
		text.Vendor = input.Vendor
	}
	if input.Brand != "" {
		text.Brand = input.Brand
	}
	if input.Labels != nil {
		text.Labels = input.Labels
	}
}
