// internal/pricing/engine.go
package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-backend/internal/models"
)

// Context is the explicit pricing context: no ambient request state.
type Context struct {
	Product       *models.Product
	UserID        *uuid.UUID
	CountryCode   string
	CurrencyCode  string
	Quantity      int
	Configuration map[string]string
}

// Price is a normalized amount in minor units.
type Price struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	CountryCode  string `json:"country_code,omitempty"`
	IsNetPrice   bool   `json:"is_net_price"`
	IsTaxable    bool   `json:"is_taxable"`
}

// Pricing is a computed simulation result.
type Pricing struct {
	CurrencyCode string
	CountryCode  string
	gross        int64
	tax          int64
}

func NewPricing(currencyCode, countryCode string, gross, tax int64) *Pricing {
	return &Pricing{
		CurrencyCode: currencyCode,
		CountryCode:  countryCode,
		gross:        gross,
		tax:          tax,
	}
}

// UnitPrice returns the simulated unit amount, net of tax when
// useNetPrice is set.
func (p *Pricing) UnitPrice(useNetPrice bool) Price {
	amount := p.gross
	if useNetPrice {
		amount -= p.tax
	}
	return Price{
		Amount:       amount,
		CurrencyCode: p.CurrencyCode,
		CountryCode:  p.CountryCode,
		IsNetPrice:   useNetPrice,
	}
}

// TaxSum returns the simulated tax portion.
func (p *Pricing) TaxSum() int64 {
	return p.tax
}

// Engine computes a pricing simulation for a context.
type Engine interface {
	SimulateProductPricing(ctx context.Context, pctx Context) (*Pricing, error)
}
