// internal/catalog/query_ops.go
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/utils"
)

type ReviewsRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	Limit       int       `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset      int       `json:"offset,omitempty" validate:"omitempty,min=0"`
	QueryString string    `json:"query_string,omitempty"`
	Sort        string    `json:"sort,omitempty"`
	Order       string    `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// UpdateProductTexts upserts localized product texts; a failure on any
// locale fails the whole operation.
func (p *Processor) UpdateProductTexts(ctx context.Context, productID uuid.UUID, texts []TextInput) ([]models.ProductText, error) {
	for _, text := range texts {
		if err := utils.ValidateStruct(text); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
	}
	if _, err := p.loadProductByID(ctx, productID); err != nil {
		return nil, err
	}

	updated, err := p.store.UpsertProductTexts(ctx, productID, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to update texts on product %s: %w", productID, err)
	}
	return updated, nil
}

func (p *Processor) GetProductTexts(ctx context.Context, productID uuid.UUID) ([]models.ProductText, error) {
	if _, err := p.loadProductByID(ctx, productID); err != nil {
		return nil, err
	}
	return p.store.GetProductTexts(ctx, productID)
}

func (p *Processor) GetReviews(ctx context.Context, req ReviewsRequest) ([]models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if _, err := p.loadProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	return p.store.ListReviews(ctx, req.ProductID, reviewListOptions(req))
}

func (p *Processor) CountReviews(ctx context.Context, req ReviewsRequest) (int64, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	if _, err := p.loadProductByID(ctx, req.ProductID); err != nil {
		return 0, err
	}
	return p.store.CountReviews(ctx, req.ProductID, reviewListOptions(req))
}

// GetSiblings returns the products assigned to the same proxies as the
// given product. For a configurable product that is its own assigned
// set; for a concrete product, every proxy holding an assignment to it
// is resolved with an empty vector (all assignments) and the product
// itself is filtered out.
func (p *Processor) GetSiblings(ctx context.Context, productID uuid.UUID, includeInactive bool) ([]models.Product, error) {
	product, err := p.loadProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	proxyIDs := []uuid.UUID{}
	if product.Type == models.ProductTypeConfigurable {
		proxyIDs = append(proxyIDs, product.ID)
	} else {
		proxyIDs, err = p.store.ProxyIDsFor(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve proxies of product %s: %w", productID, err)
		}
	}

	seen := map[uuid.UUID]bool{productID: true}
	siblings := []models.Product{}
	for _, proxyID := range proxyIDs {
		assigned, err := p.store.ProxyProducts(ctx, proxyID, Vector{}, includeInactive)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve assignments of proxy %s: %w", proxyID, err)
		}
		for _, sibling := range assigned {
			if seen[sibling.ID] {
				continue
			}
			seen[sibling.ID] = true
			siblings = append(siblings, sibling)
		}
	}
	return siblings, nil
}

func reviewListOptions(req ReviewsRequest) ReviewListOptions {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	return ReviewListOptions{
		Limit:       limit,
		Offset:      req.Offset,
		QueryString: req.QueryString,
		Sort:        req.Sort,
		Order:       req.Order,
	}
}
