// internal/catalog/dispatch.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/models"
)

// Operation is the public name of one processor action. The enum and
// its dispatch switch are part of the public contract: every operation
// the processor exposes must be listed here and handled below, which
// the dispatch test enforces over AllOperations.
type Operation string

const (
	OpCreate       Operation = "CREATE"
	OpUpdate       Operation = "UPDATE"
	OpRemove       Operation = "REMOVE"
	OpGet          Operation = "GET"
	OpList         Operation = "LIST"
	OpCount        Operation = "COUNT"
	OpUpdateStatus Operation = "UPDATE_STATUS"

	OpAddMedia         Operation = "ADD_MEDIA"
	OpRemoveMedia      Operation = "REMOVE_MEDIA"
	OpReorderMedia     Operation = "REORDER_MEDIA"
	OpGetMedia         Operation = "GET_MEDIA"
	OpUpdateMediaTexts Operation = "UPDATE_MEDIA_TEXTS"
	OpGetMediaTexts    Operation = "GET_MEDIA_TEXTS"

	OpCreateVariation       Operation = "CREATE_VARIATION"
	OpRemoveVariation       Operation = "REMOVE_VARIATION"
	OpAddVariationOption    Operation = "ADD_VARIATION_OPTION"
	OpRemoveVariationOption Operation = "REMOVE_VARIATION_OPTION"
	OpUpdateVariationTexts  Operation = "UPDATE_VARIATION_TEXTS"
	OpGetVariationTexts     Operation = "GET_VARIATION_TEXTS"

	OpAddAssignment         Operation = "ADD_ASSIGNMENT"
	OpRemoveAssignment      Operation = "REMOVE_ASSIGNMENT"
	OpGetProductAssignments Operation = "GET_PRODUCT_ASSIGNMENTS"
	OpGetVariationProducts  Operation = "GET_VARIATION_PRODUCTS"

	OpAddBundleItem    Operation = "ADD_BUNDLE_ITEM"
	OpRemoveBundleItem Operation = "REMOVE_BUNDLE_ITEM"
	OpGetBundleItems   Operation = "GET_BUNDLE_ITEMS"

	OpGetCatalogPrice    Operation = "GET_CATALOG_PRICE"
	OpSimulatePrice      Operation = "SIMULATE_PRICE"
	OpSimulatePriceRange Operation = "SIMULATE_PRICE_RANGE"

	OpUpdateProductTexts Operation = "UPDATE_PRODUCT_TEXTS"
	OpGetProductTexts    Operation = "GET_PRODUCT_TEXTS"
	OpGetReviews         Operation = "GET_REVIEWS"
	OpCountReviews       Operation = "COUNT_REVIEWS"
	OpGetSiblings        Operation = "GET_SIBLINGS"
)

// AllOperations enumerates the full public operation set.
var AllOperations = []Operation{
	OpCreate, OpUpdate, OpRemove, OpGet, OpList, OpCount, OpUpdateStatus,
	OpAddMedia, OpRemoveMedia, OpReorderMedia, OpGetMedia, OpUpdateMediaTexts, OpGetMediaTexts,
	OpCreateVariation, OpRemoveVariation, OpAddVariationOption, OpRemoveVariationOption,
	OpUpdateVariationTexts, OpGetVariationTexts,
	OpAddAssignment, OpRemoveAssignment, OpGetProductAssignments, OpGetVariationProducts,
	OpAddBundleItem, OpRemoveBundleItem, OpGetBundleItems,
	OpGetCatalogPrice, OpSimulatePrice, OpSimulatePriceRange,
	OpUpdateProductTexts, OpGetProductTexts, OpGetReviews, OpCountReviews, OpGetSiblings,
}

// lookupPayload is the wire form of a ProductQuery.
type lookupPayload struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Slug      string     `json:"slug,omitempty"`
	SKU       string     `json:"sku,omitempty"`
}

func (l lookupPayload) query() ProductQuery {
	return ProductQuery{ProductID: l.ProductID, Slug: l.Slug, SKU: l.SKU}
}

type updatePayload struct {
	ProductID uuid.UUID `json:"product_id"`
	UpdateProductRequest
}

type updateStatusPayload struct {
	ProductID uuid.UUID           `json:"product_id"`
	Action    models.StatusAction `json:"action"`
}

type mediaIDPayload struct {
	MediaID uuid.UUID `json:"media_id"`
}

type reorderMediaPayload struct {
	SortKeys []SortKeyUpdate `json:"sort_keys"`
}

type mediaTextsPayload struct {
	MediaID uuid.UUID   `json:"media_id"`
	Texts   []TextInput `json:"texts"`
}

type variationIDPayload struct {
	VariationID uuid.UUID `json:"variation_id"`
}

type variationOptionPayload struct {
	VariationID uuid.UUID `json:"variation_id"`
	Value       string    `json:"value"`
}

type variationTextsPayload struct {
	VariationID uuid.UUID   `json:"variation_id"`
	OptionValue string      `json:"option_value,omitempty"`
	Texts       []TextInput `json:"texts,omitempty"`
}

type proxyPayload struct {
	ProxyID         uuid.UUID     `json:"proxy_id"`
	Vectors         []VectorEntry `json:"vectors,omitempty"`
	IncludeInactive bool          `json:"include_inactive,omitempty"`
}

type bundlePayload struct {
	BundleID uuid.UUID `json:"bundle_id"`
	Index    int       `json:"index,omitempty"`
}

type pricePayload struct {
	lookupPayload
	Quantity     int           `json:"quantity,omitempty"`
	CurrencyCode string        `json:"currency_code,omitempty"`
	UseNetPrice  bool          `json:"use_net_price,omitempty"`
	Vectors      []VectorEntry `json:"vectors,omitempty"`
}

type productTextsPayload struct {
	ProductID uuid.UUID   `json:"product_id"`
	Texts     []TextInput `json:"texts,omitempty"`
}

type siblingsPayload struct {
	ProductID       uuid.UUID `json:"product_id"`
	IncludeInactive bool      `json:"include_inactive,omitempty"`
}

// Dispatch decodes payload for the named operation and invokes its
// handler. Unknown operations fail with ErrUnknownOperation.
func (p *Processor) Dispatch(ctx context.Context, call CallContext, op Operation, payload json.RawMessage) (interface{}, error) {
	switch op {
	case OpCreate:
		var req CreateProductRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.CreateProduct(ctx, call, req)

	case OpUpdate:
		var req updatePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.UpdateProduct(ctx, call, req.ProductID, req.UpdateProductRequest)

	case OpRemove:
		var req lookupPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if req.ProductID == nil {
			return nil, &ValidationError{Reason: "product id is required"}
		}
		return nil, p.RemoveProduct(ctx, *req.ProductID)

	case OpGet:
		var req lookupPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetProduct(ctx, req.query())

	case OpList:
		var req ListProductsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.ListProducts(ctx, req)

	case OpCount:
		var req ListProductsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.CountProducts(ctx, req)

	case OpUpdateStatus:
		var req updateStatusPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.UpdateStatus(ctx, req.ProductID, req.Action)

	case OpAddMedia:
		var req AddMediaRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.AddMedia(ctx, req)

	case OpRemoveMedia:
		var req mediaIDPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, p.RemoveMedia(ctx, req.MediaID)

	case OpReorderMedia:
		var req reorderMediaPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.ReorderMedia(ctx, req.SortKeys)

	case OpGetMedia:
		var req GetMediaRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetMedia(ctx, req)

	case OpUpdateMediaTexts:
		var req mediaTextsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.UpdateMediaTexts(ctx, req.MediaID, req.Texts)

	case OpGetMediaTexts:
		var req mediaIDPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetMediaTexts(ctx, req.MediaID)

	case OpCreateVariation:
		var req CreateVariationRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.CreateVariation(ctx, req)

	case OpRemoveVariation:
		var req variationIDPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, p.RemoveVariation(ctx, req.VariationID)

	case OpAddVariationOption:
		var req variationOptionPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.AddVariationOption(ctx, req.VariationID, req.Value)

	case OpRemoveVariationOption:
		var req variationOptionPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.RemoveVariationOption(ctx, req.VariationID, req.Value)

	case OpUpdateVariationTexts:
		var req variationTextsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.UpdateVariationTexts(ctx, req.VariationID, req.OptionValue, req.Texts)

	case OpGetVariationTexts:
		var req variationTextsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetVariationTexts(ctx, req.VariationID, req.OptionValue)

	case OpAddAssignment:
		var req AddAssignmentRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.AddAssignment(ctx, req)

	case OpRemoveAssignment:
		var req RemoveAssignmentRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, p.RemoveAssignment(ctx, req)

	case OpGetProductAssignments:
		var req proxyPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetProductAssignments(ctx, req.ProxyID)

	case OpGetVariationProducts:
		var req proxyPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetVariationProducts(ctx, req.ProxyID, req.Vectors, req.IncludeInactive)

	case OpAddBundleItem:
		var req AddBundleItemRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.AddBundleItem(ctx, req)

	case OpRemoveBundleItem:
		var req bundlePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, p.RemoveBundleItem(ctx, req.BundleID, req.Index)

	case OpGetBundleItems:
		var req bundlePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetBundleItems(ctx, req.BundleID)

	case OpGetCatalogPrice:
		var req pricePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetCatalogPrice(ctx, call, CatalogPriceRequest{
			Query:        req.query(),
			Quantity:     req.Quantity,
			CurrencyCode: req.CurrencyCode,
		})

	case OpSimulatePrice:
		var req pricePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.SimulatePrice(ctx, call, simulateRequest(req))

	case OpSimulatePriceRange:
		var req pricePayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.SimulatePriceRange(ctx, call, simulateRequest(req))

	case OpUpdateProductTexts:
		var req productTextsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.UpdateProductTexts(ctx, req.ProductID, req.Texts)

	case OpGetProductTexts:
		var req productTextsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetProductTexts(ctx, req.ProductID)

	case OpGetReviews:
		var req ReviewsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetReviews(ctx, req)

	case OpCountReviews:
		var req ReviewsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.CountReviews(ctx, req)

	case OpGetSiblings:
		var req siblingsPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return p.GetSiblings(ctx, req.ProductID, req.IncludeInactive)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
}

func decode(payload json.RawMessage, target interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid payload: %v", err)}
	}
	return nil
}

func simulateRequest(req pricePayload) SimulatePriceRequest {
	return SimulatePriceRequest{
		Query:        req.query(),
		Quantity:     req.Quantity,
		CurrencyCode: req.CurrencyCode,
		UseNetPrice:  req.UseNetPrice,
		Vectors:      req.Vectors,
	}
}
