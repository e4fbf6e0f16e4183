// internal/catalog/variation_ops.go
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

type CreateVariationRequest struct {
	ProductID uuid.UUID            `json:"product_id" validate:"required"`
	Key       string               `json:"key" validate:"required,max=100"`
	Type      models.VariationType `json:"type" validate:"required,oneof=SWITCH SINGLE_CHOICE MULTI_CHOICE"`
	Options   []string             `json:"options,omitempty"`
	Texts     []TextInput          `json:"texts,omitempty" validate:"omitempty,dive"`
}

// VectorEntry is one (variationKey, optionValue) pair of an input
// vector before normalization.
type VectorEntry struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type AddAssignmentRequest struct {
	ProxyID           uuid.UUID     `json:"proxy_id" validate:"required"`
	AssignedProductID uuid.UUID     `json:"assigned_product_id" validate:"required"`
	Vectors           []VectorEntry `json:"vectors" validate:"required,dive"`
}

type RemoveAssignmentRequest struct {
	ProxyID uuid.UUID     `json:"proxy_id" validate:"required"`
	Vectors []VectorEntry `json:"vectors" validate:"required,dive"`
}

func (p *Processor) CreateVariation(ctx context.Context, req CreateVariationRequest) (*models.Variation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product, err := p.loadProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := requireType(product, models.ProductTypeConfigurable); err != nil {
		return nil, err
	}

	variation := &models.Variation{
		ProductID: req.ProductID,
		Key:       req.Key,
		Type:      req.Type,
		Options:   req.Options,
	}
	if err := p.store.CreateVariation(ctx, variation); err != nil {
		return nil, fmt.Errorf("failed to create variation on product %s: %w", req.ProductID, err)
	}

	if len(req.Texts) > 0 {
		if _, err := p.store.UpsertVariationTexts(ctx, variation.ID, "", req.Texts); err != nil {
			return nil, fmt.Errorf("failed to attach texts to variation %s: %w", variation.ID, err)
		}
	}

	p.log.WithFields(logrus.Fields{
		"product_id":   req.ProductID,
		"variation_id": variation.ID,
		"key":          variation.Key,
	}).Info("variation created")

	return variation, nil
}

func (p *Processor) RemoveVariation(ctx context.Context, variationID uuid.UUID) error {
	if _, err := p.loadVariation(ctx, variationID); err != nil {
		return err
	}
	if err := p.store.DeleteVariation(ctx, variationID); err != nil {
		return fmt.Errorf("failed to remove variation %s: %w", variationID, err)
	}
	return nil
}

func (p *Processor) AddVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	if value == "" {
		return nil, &ValidationError{Reason: "option value is required"}
	}
	if _, err := p.loadVariation(ctx, variationID); err != nil {
		return nil, err
	}

	variation, err := p.store.AddVariationOption(ctx, variationID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to add option to variation %s: %w", variationID, err)
	}
	return variation, nil
}

func (p *Processor) RemoveVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error) {
	if value == "" {
		return nil, &ValidationError{Reason: "option value is required"}
	}
	if _, err := p.loadVariation(ctx, variationID); err != nil {
		return nil, err
	}

	variation, err := p.store.RemoveVariationOption(ctx, variationID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to remove option from variation %s: %w", variationID, err)
	}
	return variation, nil
}

// UpdateVariationTexts upserts localized texts scoped either to the
// variation (optionValue empty) or to one option value.
func (p *Processor) UpdateVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string, texts []TextInput) ([]models.VariationText, error) {
	for _, text := range texts {
		if err := utils.ValidateStruct(text); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
	}
	if _, err := p.loadVariation(ctx, variationID); err != nil {
		return nil, err
	}

	updated, err := p.store.UpsertVariationTexts(ctx, variationID, optionValue, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to update texts on variation %s: %w", variationID, err)
	}
	return updated, nil
}

func (p *Processor) GetVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string) ([]models.VariationText, error) {
	if _, err := p.loadVariation(ctx, variationID); err != nil {
		return nil, err
	}
	return p.store.GetVariationTexts(ctx, variationID, optionValue)
}

// AddAssignment binds a variation vector to a concrete product under a
// configurable proxy. The matrix is recomputed from the proxy's current
// variations on every call; a vector outside it is rejected before the
// store is touched. Vector uniqueness stays with the store: a conflict
// there surfaces as ConflictError, never a silent no-op.
func (p *Processor) AddAssignment(ctx context.Context, req AddAssignmentRequest) (*models.Assignment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	proxy, err := p.loadProductByID(ctx, req.ProxyID)
	if err != nil {
		return nil, err
	}
	if err := requireType(proxy, models.ProductTypeConfigurable); err != nil {
		return nil, err
	}
	if _, err := p.loadProductByID(ctx, req.AssignedProductID); err != nil {
		return nil, err
	}

	variations, err := p.store.FindVariations(ctx, req.ProxyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variations of product %s: %w", req.ProxyID, err)
	}

	vector := normalizeVector(req.Vectors)
	matrix := ComputeMatrix(variationDefs(variations))
	if !VectorExists(matrix, vector) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("vector %v is not a valid combination for product %s", vector, req.ProxyID),
		}
	}

	assignment, err := p.store.AddProxyAssignment(ctx, req.ProxyID, req.AssignedProductID, vector)
	if err != nil {
		if errors.Is(err, ErrAssignmentExists) {
			return nil, &ConflictError{
				Reason: fmt.Sprintf("assignment for vector %v already exists on product %s", vector, req.ProxyID),
			}
		}
		return nil, fmt.Errorf("failed to add assignment on product %s: %w", req.ProxyID, err)
	}

	p.log.WithFields(logrus.Fields{
		"proxy_id":    req.ProxyID,
		"assigned_id": req.AssignedProductID,
	}).Info("assignment added")

	return assignment, nil
}

// RemoveAssignment removes by vector without re-validating against the
// current matrix; removal is idempotent at the store layer.
func (p *Processor) RemoveAssignment(ctx context.Context, req RemoveAssignmentRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return &ValidationError{Reason: err.Error()}
	}

	proxy, err := p.loadProductByID(ctx, req.ProxyID)
	if err != nil {
		return err
	}
	if err := requireType(proxy, models.ProductTypeConfigurable); err != nil {
		return err
	}

	if err := p.store.RemoveAssignment(ctx, req.ProxyID, normalizeVector(req.Vectors)); err != nil {
		return fmt.Errorf("failed to remove assignment on product %s: %w", req.ProxyID, err)
	}
	return nil
}

func (p *Processor) GetProductAssignments(ctx context.Context, proxyID uuid.UUID) ([]models.Assignment, error) {
	proxy, err := p.loadProductByID(ctx, proxyID)
	if err != nil {
		return nil, err
	}
	if err := requireType(proxy, models.ProductTypeConfigurable); err != nil {
		return nil, err
	}
	return p.store.ProxyAssignments(ctx, proxyID)
}

// GetVariationProducts resolves the concrete products assigned under a
// proxy for a (possibly partial) vector; an empty vector matches all.
func (p *Processor) GetVariationProducts(ctx context.Context, proxyID uuid.UUID, vectors []VectorEntry, includeInactive bool) ([]models.Product, error) {
	proxy, err := p.loadProductByID(ctx, proxyID)
	if err != nil {
		return nil, err
	}
	if err := requireType(proxy, models.ProductTypeConfigurable); err != nil {
		return nil, err
	}
	return p.store.ProxyProducts(ctx, proxyID, normalizeVector(vectors), includeInactive)
}

func (p *Processor) loadVariation(ctx context.Context, variationID uuid.UUID) (*models.Variation, error) {
	variation, err := p.store.FindVariation(ctx, variationID)
	if err != nil {
		return nil, fmt.Errorf("variation lookup failed: %w", err)
	}
	if variation == nil {
		return nil, &VariationNotFoundError{VariationID: variationID.String()}
	}
	return variation, nil
}

func normalizeVector(entries []VectorEntry) Vector {
	vector := make(Vector, len(entries))
	for _, entry := range entries {
		vector[entry.Key] = entry.Value
	}
	return vector
}

func variationDefs(variations []models.Variation) []VariationDef {
	defs := make([]VariationDef, 0, len(variations))
	for _, variation := range variations {
		defs = append(defs, VariationDef{Key: variation.Key, Options: variation.Options})
	}
	return defs
}
