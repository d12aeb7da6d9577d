// Package pricing resolves per-pair and order prices for a listing's pricing
// configuration. All arithmetic is done in integer cents.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/solehaus/wholesale-backend/pkg/enums"
	"github.com/solehaus/wholesale-backend/pkg/money"
)

var (
	// ErrNoApplicableTier is returned when a tier-priced total is requested for a
	// quantity below every tier threshold. Callers should have checked MOQ first.
	ErrNoApplicableTier = errors.New("no applicable pricing tier")
	ErrUnknownMode      = errors.New("unknown pricing mode")
	ErrAmountOverflow   = errors.New("order total overflows")
)

// Tier is one quantity threshold and the per-pair price it unlocks.
type Tier struct {
	MinQty       int         `json:"min_qty"`
	PricePerPair money.Cents `json:"price_per_pair_cents"`
}

// Config is a listing's pricing configuration. FlatPricePerPair is only read in
// flat mode and Tiers only in tier mode.
type Config struct {
	Mode             enums.PricingMode
	FlatPricePerPair *money.Cents
	Tiers            []Tier
}

// Quote is a resolved order amount.
type Quote struct {
	UnitPrice money.Cents
	Total     money.Cents
	// Tier is set when the quote came from tier pricing.
	Tier *Tier
}

// ApplicableTier returns the tier with the greatest MinQty not exceeding qty.
func ApplicableTier(tiers []Tier, qty int) (Tier, bool) {
	sorted := SortedTiers(tiers)

	var best *Tier
	for i := range sorted {
		if qty >= sorted[i].MinQty {
			best = &sorted[i]
		}
	}
	if best == nil {
		return Tier{}, false
	}
	return *best, true
}

// OrderTotal computes the unit price and total for qty pairs. The boolean is
// false when there is nothing to price yet: a non-positive quantity, or flat
// mode without a flat price.
func OrderTotal(cfg Config, qty int) (Quote, bool, error) {
	if qty <= 0 {
		return Quote{}, false, nil
	}

	switch cfg.Mode {
	case enums.PricingModeFlat:
		if cfg.FlatPricePerPair == nil {
			return Quote{}, false, nil
		}
		total, ok := cfg.FlatPricePerPair.Mul(qty)
		if !ok {
			return Quote{}, false, ErrAmountOverflow
		}
		return Quote{UnitPrice: *cfg.FlatPricePerPair, Total: total}, true, nil

	case enums.PricingModeTier:
		tier, found := ApplicableTier(cfg.Tiers, qty)
		if !found {
			return Quote{}, false, fmt.Errorf("%w for quantity %d", ErrNoApplicableTier, qty)
		}
		total, ok := tier.PricePerPair.Mul(qty)
		if !ok {
			return Quote{}, false, ErrAmountOverflow
		}
		return Quote{UnitPrice: tier.PricePerPair, Total: total, Tier: &tier}, true, nil

	default:
		return Quote{}, false, fmt.Errorf("%w %q", ErrUnknownMode, cfg.Mode)
	}
}

// StartingUnitPrice is the "from" price shown before a quantity is chosen. In
// tier mode it is the lowest price across all tiers, which is not necessarily
// the price of the lowest threshold.
func StartingUnitPrice(cfg Config) (money.Cents, bool) {
	switch cfg.Mode {
	case enums.PricingModeFlat:
		if cfg.FlatPricePerPair == nil {
			return 0, false
		}
		return *cfg.FlatPricePerPair, true
	case enums.PricingModeTier:
		if len(cfg.Tiers) == 0 {
			return 0, false
		}
		lowest := cfg.Tiers[0].PricePerPair
		for _, tier := range cfg.Tiers[1:] {
			if tier.PricePerPair < lowest {
				lowest = tier.PricePerPair
			}
		}
		return lowest, true
	default:
		return 0, false
	}
}

// ValidateTiers checks a tier set before it is persisted.
func ValidateTiers(tiers []Tier) error {
	seen := make(map[int]struct{}, len(tiers))
	for i, tier := range tiers {
		if tier.MinQty <= 0 {
			return fmt.Errorf("tier %d: min_qty must be positive", i)
		}
		if tier.PricePerPair < 0 {
			return fmt.Errorf("tier %d: price_per_pair must not be negative", i)
		}
		if _, dup := seen[tier.MinQty]; dup {
			return fmt.Errorf("tier %d: duplicate min_qty %d", i, tier.MinQty)
		}
		seen[tier.MinQty] = struct{}{}
	}
	return nil
}

// SortedTiers returns a copy of tiers ordered by ascending MinQty.
func SortedTiers(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinQty < out[j].MinQty
	})
	return out
}
