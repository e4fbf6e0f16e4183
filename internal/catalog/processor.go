// internal/catalog/processor.go
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/commercekit/catalog-backend/internal/files"
	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/pricing"
	"github.com/commercekit/catalog-backend/internal/utils"
)

const (
	DefaultListLimit = 50
)

// CallContext is the explicit caller context threaded through every
// operation instead of an ambient request-scoped singleton.
type CallContext struct {
	UserID       *uuid.UUID
	Locale       string
	CountryCode  string
	CurrencyCode string
}

// Processor is the product command façade: it validates product-type
// and state invariants and delegates persistence to the store, price
// computation to the engine and uploads to the file service. It holds
// no cache; entities are re-read on every operation.
type Processor struct {
	store      Store
	engine     pricing.Engine
	files      files.Service
	httpClient *http.Client
	log        *logrus.Entry
}

func NewProcessor(store Store, engine pricing.Engine, fileService files.Service) *Processor {
	return &Processor{
		store:      store,
		engine:     engine,
		files:      fileService,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logrus.WithField("component", "catalog.processor"),
	}
}

type CreateProductRequest struct {
	Type     models.ProductType     `json:"type" validate:"required,oneof=SIMPLE_PRODUCT CONFIGURABLE_PRODUCT BUNDLE_PRODUCT PLAN_PRODUCT TOKENIZED_PRODUCT"`
	Tags     []string               `json:"tags,omitempty"`
	Sequence int                    `json:"sequence,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	Texts    []TextInput            `json:"texts,omitempty" validate:"omitempty,dive"`
}

// UpdateProductRequest is a partial update: nil fields are left
// untouched. Payload fields are type-gated; plan and tokenization are
// additionally gated to draft products.
type UpdateProductRequest struct {
	Tags         *[]string              `json:"tags,omitempty"`
	Sequence     *int                   `json:"sequence,omitempty"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
	Warehousing  *models.Warehousing    `json:"warehousing,omitempty"`
	Supply       *models.Supply         `json:"supply,omitempty"`
	Plan         map[string]interface{} `json:"plan,omitempty"`
	Tokenization map[string]interface{} `json:"tokenization,omitempty"`
	Commerce     models.PriceTiers      `json:"commerce,omitempty"`
}

type ListProductsRequest struct {
	Limit         int      `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset        int      `json:"offset,omitempty" validate:"omitempty,min=0"`
	Tags          []string `json:"tags,omitempty"`
	Slugs         []string `json:"slugs,omitempty"`
	QueryString   string   `json:"query_string,omitempty"`
	IncludeDrafts bool     `json:"include_drafts,omitempty"`
}

func (p *Processor) CreateProduct(ctx context.Context, call CallContext, req CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product := &models.Product{
		Type:     req.Type,
		Status:   models.ProductStatusDraft,
		Sequence: req.Sequence,
		Tags:     req.Tags,
		Meta:     models.JSONB(req.Meta),
	}
	if err := p.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if len(req.Texts) > 0 {
		if _, err := p.store.UpsertProductTexts(ctx, product.ID, req.Texts); err != nil {
			return nil, fmt.Errorf("failed to attach texts to product %s: %w", product.ID, err)
		}
	}

	p.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"type":       product.Type,
	}).Info("product created")

	return product, nil
}

func (p *Processor) GetProduct(ctx context.Context, query ProductQuery) (*models.Product, error) {
	return p.loadProduct(ctx, query)
}

func (p *Processor) UpdateProduct(ctx context.Context, call CallContext, productID uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := p.loadProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// All type and status gates run before any store write so a
	// rejected update leaves the record untouched.
	updates := make(map[string]interface{})

	if req.Warehousing != nil {
		if err := requireType(product, models.ProductTypeSimple); err != nil {
			return nil, err
		}
		updates["warehousing"] = *req.Warehousing
	}
	if req.Supply != nil {
		if err := requireType(product, models.ProductTypeSimple); err != nil {
			return nil, err
		}
		updates["supply"] = *req.Supply
	}
	if req.Plan != nil {
		if err := requireType(product, models.ProductTypePlan); err != nil {
			return nil, err
		}
		if product.Status != models.ProductStatusDraft {
			return nil, &WrongStatusError{ProductID: product.ID.String(), Status: product.Status}
		}
		updates["plan"] = models.JSONB(req.Plan)
	}
	if req.Tokenization != nil {
		if err := requireType(product, models.ProductTypeTokenized); err != nil {
			return nil, err
		}
		if product.Status != models.ProductStatusDraft {
			return nil, &WrongStatusError{ProductID: product.ID.String(), Status: product.Status}
		}
		updates["tokenization"] = models.JSONB(req.Tokenization)
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.Sequence != nil {
		updates["sequence"] = *req.Sequence
	}
	if req.Meta != nil {
		updates["meta"] = models.JSONB(req.Meta)
	}
	if req.Commerce != nil {
		updates["commerce"] = req.Commerce
	}

	if len(updates) == 0 {
		return product, nil
	}

	updated, err := p.store.UpdateProduct(ctx, productID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", productID, err)
	}
	return updated, nil
}

func (p *Processor) RemoveProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := p.loadProductByID(ctx, productID); err != nil {
		return err
	}
	if err := p.store.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to remove product %s: %w", productID, err)
	}

	p.log.WithField("product_id", productID).Info("product removed")
	return nil
}

func (p *Processor) ListProducts(ctx context.Context, req ListProductsRequest) ([]models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return p.store.FindProducts(ctx, listOptions(req))
}

func (p *Processor) CountProducts(ctx context.Context, req ListProductsRequest) (int64, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	return p.store.CountProducts(ctx, listOptions(req))
}

// UpdateStatus runs one publish/unpublish transition. A transition the
// store refuses surfaces as WrongStatusError carrying the current
// status; publishing an already active product is such a refusal.
func (p *Processor) UpdateStatus(ctx context.Context, productID uuid.UUID, action models.StatusAction) (*models.Product, error) {
	product, err := p.loadProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var ok bool
	switch action {
	case models.StatusActionPublish:
		ok, err = p.store.Publish(ctx, product)
	case models.StatusActionUnpublish:
		ok, err = p.store.Unpublish(ctx, product)
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported status action %q", action)}
	}
	if err != nil {
		return nil, fmt.Errorf("status transition %s on product %s failed: %w", action, productID, err)
	}
	if !ok {
		return nil, &WrongStatusError{ProductID: productID.String(), Status: product.Status}
	}

	updated, err := p.loadProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"product_id": productID,
		"action":     action,
		"status":     updated.Status,
	}).Info("product status updated")

	return updated, nil
}

// loadProduct resolves a product query or returns the typed not-found
// error carrying the lookup that was used.
func (p *Processor) loadProduct(ctx context.Context, query ProductQuery) (*models.Product, error) {
	if query.IsZero() {
		return nil, &ValidationError{Reason: "one of product id, slug or sku is required"}
	}

	product, err := p.store.FindProduct(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	if product == nil {
		notFound := &ProductNotFoundError{Slug: query.Slug, SKU: query.SKU}
		if query.ProductID != nil {
			notFound.ProductID = query.ProductID.String()
		}
		return nil, notFound
	}
	return product, nil
}

func (p *Processor) loadProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return p.loadProduct(ctx, ProductQuery{ProductID: &productID})
}

func requireType(product *models.Product, required models.ProductType) error {
	if product.Type != required {
		return &WrongTypeError{
			ProductID: product.ID.String(),
			Received:  product.Type,
			Required:  required,
		}
	}
	return nil
}

func listOptions(req ListProductsRequest) ListOptions {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	return ListOptions{
		Limit:         limit,
		Offset:        req.Offset,
		Tags:          req.Tags,
		Slugs:         req.Slugs,
		QueryString:   req.QueryString,
		IncludeDrafts: req.IncludeDrafts,
	}
}
