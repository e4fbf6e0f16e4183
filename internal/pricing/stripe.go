// internal/pricing/stripe.go
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/price"
)

// metaStripePriceKey is the product meta key carrying the id of the
// mirrored Stripe price.
const metaStripePriceKey = "stripe_price_id"

// StripeEngine resolves prices from a mirrored Stripe catalog for
// products that carry a stripe_price_id in their meta, and falls back
// to the wrapped engine for everything else.
type StripeEngine struct {
	fallback Engine
	log      *logrus.Entry
}

func NewStripeEngine(secretKey string, fallback Engine) *StripeEngine {
	stripe.Key = secretKey
	return &StripeEngine{
		fallback: fallback,
		log:      logrus.WithField("component", "pricing.stripe_engine"),
	}
}

func (e *StripeEngine) SimulateProductPricing(ctx context.Context, pctx Context) (*Pricing, error) {
	if pctx.Product == nil {
		return nil, fmt.Errorf("pricing context has no product")
	}

	priceID := stripePriceID(pctx.Product.Meta)
	if priceID == "" {
		return e.fallback.SimulateProductPricing(ctx, pctx)
	}

	p, err := price.Get(priceID, &stripe.PriceParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stripe price %s: %w", priceID, err)
	}

	if !strings.EqualFold(string(p.Currency), pctx.CurrencyCode) {
		e.log.WithFields(logrus.Fields{
			"product_id":      pctx.Product.ID,
			"stripe_price_id": priceID,
			"stripe_currency": p.Currency,
			"requested":       pctx.CurrencyCode,
		}).Debug("stripe price currency mismatch, falling back")
		return e.fallback.SimulateProductPricing(ctx, pctx)
	}

	// Stripe amounts are tax-exclusive unless the price says otherwise;
	// inclusive prices keep the amount and report no separate tax sum
	// since Stripe owns the split.
	return NewPricing(pctx.CurrencyCode, pctx.CountryCode, p.UnitAmount, 0), nil
}

func stripePriceID(meta map[string]interface{}) string {
	if meta == nil {
		return ""
	}
	if id, ok := meta[metaStripePriceKey].(string); ok {
		return id
	}
	return ""
}
