// internal/catalog/interfaces.go
package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/models"
)

// ProductQuery identifies one product by id, slug or SKU. Exactly one
// selector must be set; the processor rejects empty queries.
type ProductQuery struct {
	ProductID *uuid.UUID
	Slug      string
	SKU       string
}

func (q ProductQuery) IsZero() bool {
	return q.ProductID == nil && q.Slug == "" && q.SKU == ""
}

// ListOptions carries product list/count filters.
type ListOptions struct {
	Limit         int
	Offset        int
	Tags          []string
	Slugs         []string
	QueryString   string
	IncludeDrafts bool
}

// ReviewListOptions carries review pagination, query and sort.
type ReviewListOptions struct {
	Limit       int
	Offset      int
	QueryString string
	Sort        string
	Order       string
}

// TextInput is one localized text upsert.
type TextInput struct {
	Locale      string `json:"locale" validate:"required"`
	Slug        string `json:"slug,omitempty"`
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// SortKeyUpdate is one entry of a media reorder batch.
type SortKeyUpdate struct {
	MediaID uuid.UUID `json:"media_id" validate:"required"`
	SortKey int       `json:"sort_key"`
}

// ProductStore is the persistence boundary for products and their
// texts. Find operations return (nil, nil) when nothing matches.
type ProductStore interface {
	FindProduct(ctx context.Context, query ProductQuery) (*models.Product, error)
	FindProducts(ctx context.Context, opts ListOptions) ([]models.Product, error)
	CountProducts(ctx context.Context, opts ListOptions) (int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Publish and Unpublish return false when the transition is refused
	// (missing required fields, wrong current status).
	Publish(ctx context.Context, product *models.Product) (bool, error)
	Unpublish(ctx context.Context, product *models.Product) (bool, error)

	UpsertProductTexts(ctx context.Context, productID uuid.UUID, texts []TextInput) ([]models.ProductText, error)
	GetProductTexts(ctx context.Context, productID uuid.UUID) ([]models.ProductText, error)
}

// VariationStore persists variations and their texts.
type VariationStore interface {
	FindVariation(ctx context.Context, variationID uuid.UUID) (*models.Variation, error)
	FindVariations(ctx context.Context, productID uuid.UUID) ([]models.Variation, error)
	CreateVariation(ctx context.Context, variation *models.Variation) error
	DeleteVariation(ctx context.Context, variationID uuid.UUID) error
	AddVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error)
	RemoveVariationOption(ctx context.Context, variationID uuid.UUID, value string) (*models.Variation, error)

	// OptionValue scopes texts to one option; empty means the variation
	// itself.
	UpsertVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string, texts []TextInput) ([]models.VariationText, error)
	GetVariationTexts(ctx context.Context, variationID uuid.UUID, optionValue string) ([]models.VariationText, error)
}

// AssignmentStore persists proxy assignments. AddProxyAssignment returns
// ErrAssignmentExists when the vector is already bound; vector-level
// uniqueness is enforced here, not in the processor.
type AssignmentStore interface {
	AddProxyAssignment(ctx context.Context, proxyID, assignedProductID uuid.UUID, vector Vector) (*models.Assignment, error)
	RemoveAssignment(ctx context.Context, proxyID uuid.UUID, vector Vector) error
	ProxyAssignments(ctx context.Context, proxyID uuid.UUID) ([]models.Assignment, error)

	// ProxyProducts resolves assigned products matching the (possibly
	// partial) vector; an empty vector matches every assignment.
	ProxyProducts(ctx context.Context, proxyID uuid.UUID, vector Vector, includeInactive bool) ([]models.Product, error)

	// ProxyIDsFor returns the proxies holding an assignment to the
	// given concrete product.
	ProxyIDsFor(ctx context.Context, assignedProductID uuid.UUID) ([]uuid.UUID, error)
}

// BundleStore persists bundle composition. RemoveBundleItem returns
// ErrIndexOutOfRange for an index past the end of the list.
type BundleStore interface {
	AddBundleItem(ctx context.Context, item *models.BundleItem) (*models.BundleItem, error)
	RemoveBundleItem(ctx context.Context, bundleID uuid.UUID, index int) error
	GetBundleItems(ctx context.Context, bundleID uuid.UUID) ([]models.BundleItem, error)
}

// MediaStore persists product media and media texts. UpdateManualOrder
// applies the whole batch atomically.
type MediaStore interface {
	CreateMedia(ctx context.Context, media *models.Media) error
	FindMedia(ctx context.Context, mediaID uuid.UUID) (*models.Media, error)
	ListMedia(ctx context.Context, productID uuid.UUID, tags []string, limit, offset int) ([]models.Media, error)
	DeleteMedia(ctx context.Context, mediaID uuid.UUID) error
	UpdateManualOrder(ctx context.Context, updates []SortKeyUpdate) ([]models.Media, error)
	UpsertMediaTexts(ctx context.Context, mediaID uuid.UUID, texts []TextInput) ([]models.MediaText, error)
	GetMediaTexts(ctx context.Context, mediaID uuid.UUID) ([]models.MediaText, error)
}

// ReviewStore reads product reviews.
type ReviewStore interface {
	ListReviews(ctx context.Context, productID uuid.UUID, opts ReviewListOptions) ([]models.Review, error)
	CountReviews(ctx context.Context, productID uuid.UUID, opts ReviewListOptions) (int64, error)
}

// Store is the full domain store the processor operates against.
type Store interface {
	ProductStore
	VariationStore
	AssignmentStore
	BundleStore
	MediaStore
	ReviewStore
}
