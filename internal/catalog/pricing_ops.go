// internal/catalog/pricing_ops.go
package catalog

import (
	"context"
	"fmt"

	"github.com/commercekit/catalog-backend/internal/models"
	"github.com/commercekit/catalog-backend/internal/pricing"
	"github.com/commercekit/catalog-backend/internal/utils"
)

type CatalogPriceRequest struct {
	Query        ProductQuery `json:"-"`
	Quantity     int          `json:"quantity,omitempty" validate:"omitempty,min=1"`
	CurrencyCode string       `json:"currency_code,omitempty" validate:"omitempty,len=3"`
}

type SimulatePriceRequest struct {
	Query        ProductQuery  `json:"-"`
	Quantity     int           `json:"quantity,omitempty" validate:"omitempty,min=1"`
	CurrencyCode string        `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	UseNetPrice  bool          `json:"use_net_price,omitempty"`
	Vectors      []VectorEntry `json:"vectors,omitempty" validate:"omitempty,dive"`
}

// PriceRange is the simulated {min,max} pair for a configurable
// product.
type PriceRange struct {
	Min pricing.Price `json:"min"`
	Max pricing.Price `json:"max"`
}

// GetCatalogPrice returns the stored commerce tier matching the
// caller's currency, country and quantity. Unlike the simulate
// operations it does not run the pricing engine: the catalog price is
// the listed tier as stored, without tax or engine adjustments.
func (p *Processor) GetCatalogPrice(ctx context.Context, call CallContext, req CatalogPriceRequest) (*pricing.Price, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product, err := p.loadProduct(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = call.CurrencyCode
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	tier, found := pricing.BestTier(product.Commerce, currency, call.CountryCode, quantity)
	if !found {
		return nil, nil
	}
	return &pricing.Price{
		Amount:       tier.Amount,
		CurrencyCode: tier.CurrencyCode,
		CountryCode:  tier.CountryCode,
		IsNetPrice:   tier.IsNetPrice,
		IsTaxable:    tier.IsTaxable,
	}, nil
}

// SimulatePrice runs the pricing engine for the product and annotates
// the unit price with the requested net flag and the engine-derived
// taxability (tax sum greater than zero).
func (p *Processor) SimulatePrice(ctx context.Context, call CallContext, req SimulatePriceRequest) (*pricing.Price, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product, err := p.loadProduct(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	simulated, err := p.simulate(ctx, call, product, req)
	if err != nil {
		return nil, err
	}

	price := simulated.UnitPrice(req.UseNetPrice)
	price.IsTaxable = simulated.TaxSum() > 0
	return &price, nil
}

// SimulatePriceRange returns the simulated {min,max} pair for a
// configurable product. Both bounds currently come from one simulation
// of the proxy's own pricing context; per-assignment simulation is the
// concrete follow-up that will spread them.
func (p *Processor) SimulatePriceRange(ctx context.Context, call CallContext, req SimulatePriceRequest) (*PriceRange, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	product, err := p.loadProduct(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if err := requireType(product, models.ProductTypeConfigurable); err != nil {
		return nil, err
	}

	simulated, err := p.simulate(ctx, call, product, req)
	if err != nil {
		return nil, err
	}

	price := simulated.UnitPrice(req.UseNetPrice)
	price.IsTaxable = simulated.TaxSum() > 0
	return &PriceRange{Min: price, Max: price}, nil
}

func (p *Processor) simulate(ctx context.Context, call CallContext, product *models.Product, req SimulatePriceRequest) (*pricing.Pricing, error) {
	currency := req.CurrencyCode
	if currency == "" {
		currency = call.CurrencyCode
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	simulated, err := p.engine.SimulateProductPricing(ctx, pricing.Context{
		Product:       product,
		UserID:        call.UserID,
		CountryCode:   call.CountryCode,
		CurrencyCode:  currency,
		Quantity:      quantity,
		Configuration: normalizeVector(req.Vectors),
	})
	if err != nil {
		return nil, fmt.Errorf("price simulation for product %s failed: %w", product.ID, err)
	}
	return simulated, nil
}
