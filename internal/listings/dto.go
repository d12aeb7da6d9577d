package listings

import (
	"time"

	"github.com/solehaus/wholesale-backend/internal/pricing"
	"github.com/solehaus/wholesale-backend/pkg/db/models"
	"github.com/solehaus/wholesale-backend/pkg/enums"
	"github.com/solehaus/wholesale-backend/pkg/money"
)

// ListingDTO is the listing payload returned to buyers and admins.
type ListingDTO struct {
	ID                    int64               `json:"id"`
	Title                 string              `json:"title"`
	Brand                 string              `json:"brand"`
	Colorway              *string             `json:"colorway,omitempty"`
	Description           *string             `json:"description,omitempty"`
	InventoryMode         enums.InventoryMode `json:"inventory_mode"`
	Sizes                 []string            `json:"sizes"`
	PairsPerCase          int                 `json:"pairs_per_case"`
	AvailablePairs        int                 `json:"available_pairs"`
	MOQ                   int                 `json:"moq"`
	PricingMode           enums.PricingMode   `json:"pricing_mode"`
	FlatPricePerPairCents *money.Cents        `json:"flat_price_per_pair_cents,omitempty"`
	Tiers                 []pricing.Tier      `json:"tiers"`
	StartingPriceCents    *money.Cents        `json:"starting_price_cents"`
	IsActive              bool                `json:"is_active"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// ListResult is one page of listings.
type ListResult struct {
	Listings   []ListingDTO `json:"listings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// QuoteDTO is the priced (or not yet priced) answer for a quantity.
type QuoteDTO struct {
	ListingID      int64             `json:"listing_id"`
	Quantity       int               `json:"quantity"`
	PricingMode    enums.PricingMode `json:"pricing_mode"`
	Priced         bool              `json:"priced"`
	UnitPriceCents *money.Cents      `json:"unit_price_cents,omitempty"`
	TotalCents     *money.Cents      `json:"total_cents,omitempty"`
	Tier           *pricing.Tier     `json:"tier,omitempty"`
}

// PricingInput is a validated repricing request.
type PricingInput struct {
	Mode             enums.PricingMode
	FlatPricePerPair *money.Cents
	Tiers            []pricing.Tier
}

// pricingConfig converts the stored decimals into the resolver's cents config.
func pricingConfig(listing *models.Listing) (pricing.Config, error) {
	flat, err := money.FromNullDecimal(listing.FlatPricePerPair)
	if err != nil {
		return pricing.Config{}, err
	}
	tiers := make([]pricing.Tier, 0, len(listing.Tiers))
	for _, row := range listing.Tiers {
		price, err := money.FromDecimal(row.PricePerPair)
		if err != nil {
			return pricing.Config{}, err
		}
		tiers = append(tiers, pricing.Tier{MinQty: row.MinQty, PricePerPair: price})
	}
	return pricing.Config{
		Mode:             listing.PricingMode,
		FlatPricePerPair: flat,
		Tiers:            tiers,
	}, nil
}

func newListingDTO(listing *models.Listing, cfg pricing.Config) ListingDTO {
	dto := ListingDTO{
		ID:                    listing.ID,
		Title:                 listing.Title,
		Brand:                 listing.Brand,
		Colorway:              listing.Colorway,
		Description:           listing.Description,
		InventoryMode:         listing.InventoryMode,
		Sizes:                 append([]string{}, listing.Sizes...),
		PairsPerCase:          listing.PairsPerCase,
		AvailablePairs:        listing.AvailablePairs,
		MOQ:                   listing.MOQ,
		PricingMode:           listing.PricingMode,
		FlatPricePerPairCents: cfg.FlatPricePerPair,
		Tiers:                 append([]pricing.Tier{}, cfg.Tiers...),
		IsActive:              listing.IsActive,
		CreatedAt:             listing.CreatedAt,
		UpdatedAt:             listing.UpdatedAt,
	}
	if start, ok := pricing.StartingUnitPrice(cfg); ok {
		dto.StartingPriceCents = money.Ptr(start)
	}
	return dto
}

func tierRows(tiers []pricing.Tier) []models.PricingTier {
	rows := make([]models.PricingTier, 0, len(tiers))
	for _, tier := range tiers {
		rows = append(rows, models.PricingTier{
			MinQty:       tier.MinQty,
			PricePerPair: tier.PricePerPair.Decimal(),
		})
	}
	return rows
}
