// internal/catalog/bundle_ops.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/utils"
)

type AddBundleItemRequest struct {
	BundleID      uuid.UUID              `json:"bundle_id" validate:"required"`
	ProductID     uuid.UUID              `json:"product_id" validate:"required"`
	Quantity      int                    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Configuration map[string]interface{} `json:"configuration,omitempty"`
}

// AddBundleItem appends a (product, quantity) line to a bundle. The
// bundle must be a bundle product and the referenced product must exist
// before anything is written; quantity defaults to 1.
func (p *Processor) AddBundleItem(ctx context.Context, req AddBundleItemRequest) (*models.BundleItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	bundle, err := p.loadProductByID(ctx, req.BundleID)
	if err != nil {
		return nil, err
	}
	if err := requireType(bundle, models.ProductTypeBundle); err != nil {
		return nil, err
	}
	if _, err := p.loadProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	configuration := req.Configuration
	if configuration == nil {
		configuration = map[string]interface{}{}
	}

	item := &models.BundleItem{
		ProductID:         req.BundleID,
		AssignedProductID: req.ProductID,
		Quantity:          quantity,
		Configuration:     models.JSONB(configuration),
	}
	created, err := p.store.AddBundleItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to add bundle item to product %s: %w", req.BundleID, err)
	}

	p.log.WithFields(logrus.Fields{
		"bundle_id":  req.BundleID,
		"product_id": req.ProductID,
		"quantity":   quantity,
	}).Info("bundle item added")

	return created, nil
}

// RemoveBundleItem removes one line by positional index. An index past
// the end of the list is a validation failure and leaves the bundle
// untouched.
func (p *Processor) RemoveBundleItem(ctx context.Context, bundleID uuid.UUID, index int) error {
	bundle, err := p.loadProductByID(ctx, bundleID)
	if err != nil {
		return err
	}
	if err := requireType(bundle, models.ProductTypeBundle); err != nil {
		return err
	}
	if index < 0 {
		return &ValidationError{Reason: fmt.Sprintf("bundle item index %d is negative", index)}
	}

	if err := p.store.RemoveBundleItem(ctx, bundleID, index); err != nil {
		if errors.Is(err, ErrIndexOutOfRange) {
			return &ValidationError{Reason: fmt.Sprintf("bundle item index %d is out of range", index)}
		}
		return fmt.Errorf("failed to remove bundle item %d from product %s: %w", index, bundleID, err)
	}
	return nil
}

func (p *Processor) GetBundleItems(ctx context.Context, bundleID uuid.UUID) ([]models.BundleItem, error) {
	bundle, err := p.loadProductByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if err := requireType(bundle, models.ProductTypeBundle); err != nil {
		return nil, err
	}
	return p.store.GetBundleItems(ctx, bundleID)
}
