// internal/store/reviews.go
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/commercekit/catalog-backend/internal/catalog"
	"github.com/commercekit/catalog-backend/internal/models"
)

var reviewSortFields = []string{"created_at", "updated_at", "rating"}

func (s *Store) ListReviews(ctx context.Context, productID uuid.UUID, opts catalog.ReviewListOptions) ([]models.Review, error) {
	query := s.reviewQuery(ctx, productID, opts)

	sortField := "created_at"
	for _, field := range reviewSortFields {
		if field == opts.Sort {
			sortField = field
			break
		}
	}
	order := "desc"
	if opts.Order == "asc" {
		order = "asc"
	}

	var reviews []models.Review
	if err := query.Order(sortField + " " + order).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return reviews, nil
}

func (s *Store) CountReviews(ctx context.Context, productID uuid.UUID, opts catalog.ReviewListOptions) (int64, error) {
	var total int64
	if err := s.reviewQuery(ctx, productID, opts).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return total, nil
}

func (s *Store) reviewQuery(ctx context.Context, productID uuid.UUID, opts catalog.ReviewListOptions) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ?", productID)
	if opts.QueryString != "" {
		term := "%" + strings.ToLower(opts.QueryString) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(review) LIKE ?", term, term)
	}
	return query
}

func pqArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}
