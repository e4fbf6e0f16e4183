// internal/pricing/tiers.go
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/commercekit/catalog-backend/internal/models"
)

// TierEngine prices products from their native commerce tiers. Tax is
// derived from a per-country VAT rate table (basis points).
type TierEngine struct {
	taxRates map[string]int64
	log      *logrus.Entry
}

var defaultTaxRates = map[string]int64{
	"CH": 810,
	"DE": 1900,
	"AT": 2000,
	"FR": 2000,
	"US": 0,
}

func NewTierEngine(taxRates map[string]int64) *TierEngine {
	if taxRates == nil {
		taxRates = defaultTaxRates
	}
	return &TierEngine{
		taxRates: taxRates,
		log:      logrus.WithField("component", "pricing.tier_engine"),
	}
}

// SimulateProductPricing picks the best matching tier for the context
// and derives gross and tax from it. No matching tier yields a zero
// pricing in the requested currency, not an error.
func (e *TierEngine) SimulateProductPricing(ctx context.Context, pctx Context) (*Pricing, error) {
	if pctx.Product == nil {
		return nil, fmt.Errorf("pricing context has no product")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quantity := pctx.Quantity
	if quantity < 1 {
		quantity = 1
	}

	tier, found := BestTier(pctx.Product.Commerce, pctx.CurrencyCode, pctx.CountryCode, quantity)
	if !found {
		e.log.WithFields(logrus.Fields{
			"product_id": pctx.Product.ID,
			"currency":   pctx.CurrencyCode,
			"country":    pctx.CountryCode,
		}).Debug("no matching price tier")
		return NewPricing(pctx.CurrencyCode, pctx.CountryCode, 0, 0), nil
	}

	gross := tier.Amount
	var tax int64
	if tier.IsTaxable {
		rate := e.taxRates[strings.ToUpper(pctx.CountryCode)]
		if tier.IsNetPrice {
			tax = gross * rate / 10000
			gross += tax
		} else {
			tax = gross * rate / (10000 + rate)
		}
	}

	return NewPricing(tier.CurrencyCode, pctx.CountryCode, gross, tax), nil
}

// BestTier selects the tier scoped to the given currency and country
// whose max quantity covers the requested quantity most tightly. Tiers
// with MaxQuantity zero act as the unbounded fallback; country-less
// tiers match any country.
func BestTier(tiers models.PriceTiers, currencyCode, countryCode string, quantity int) (models.PriceTier, bool) {
	var best models.PriceTier
	found := false

	for _, tier := range tiers {
		if !strings.EqualFold(tier.CurrencyCode, currencyCode) {
			continue
		}
		if tier.CountryCode != "" && !strings.EqualFold(tier.CountryCode, countryCode) {
			continue
		}
		if tier.MaxQuantity != 0 && tier.MaxQuantity < quantity {
			continue
		}

		if !found {
			best, found = tier, true
			continue
		}

		// A bounded tier beats the unbounded fallback; among bounded
		// tiers the tightest bound wins. Country-scoped beats global.
		switch {
		case best.CountryCode == "" && tier.CountryCode != "":
			best = tier
		case best.CountryCode != "" && tier.CountryCode == "":
		case best.MaxQuantity == 0 && tier.MaxQuantity != 0:
			best = tier
		case tier.MaxQuantity != 0 && tier.MaxQuantity < best.MaxQuantity:
			best = tier
		}
	}

	return best, found
}
