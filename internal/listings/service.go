package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/internal/pricing"
	"github.com/solehaus/wholesale-backend/pkg/db"
	"github.com/solehaus/wholesale-backend/pkg/db/models"
	"github.com/solehaus/wholesale-backend/pkg/enums"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/metrics"
	"github.com/solehaus/wholesale-backend/pkg/money"
	"github.com/solehaus/wholesale-backend/pkg/pagination"
)

// maxStoredPrice is the largest amount a numeric(10,2) column holds.
const maxStoredPrice money.Cents = 9_999_999_999

// Service exposes listing reads, quotes and admin repricing.
type Service interface {
	GetListing(ctx context.Context, id int64) (*ListingDTO, error)
	ListListings(ctx context.Context, params pagination.Params) (*ListResult, error)
	Quote(ctx context.Context, id int64, qty int) (*QuoteDTO, error)
	UpdatePricing(ctx context.Context, id int64, input PricingInput) (*ListingDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	metrics  *metrics.DomainMetrics
}

// NewService constructs a listing service. m may be nil.
func NewService(repo *Repository, dbClient *db.Client, m *metrics.DomainMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, metrics: m}, nil
}

func (s *service) GetListing(ctx context.Context, id int64) (*ListingDTO, error) {
	listing, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg, err := pricingConfig(listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored listing price is invalid")
	}
	dto := newListingDTO(listing, cfg)
	return &dto, nil
}

func (s *service) ListListings(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.ListActive(ctx, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list listings")
	}

	result := &ListResult{Listings: make([]ListingDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		cfg, err := pricingConfig(&rows[i])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored listing price is invalid")
		}
		result.Listings = append(result.Listings, newListingDTO(&rows[i], cfg))
	}
	return result, nil
}

// Quote prices qty pairs of the listing. A non-positive quantity, or a flat
// listing with no price set, yields an unpriced quote rather than an error.
func (s *service) Quote(ctx context.Context, id int64, qty int) (*QuoteDTO, error) {
	listing, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is not active")
	}

	dto := &QuoteDTO{ListingID: listing.ID, Quantity: qty, PricingMode: listing.PricingMode}
	if qty <= 0 {
		s.countQuote(listing.PricingMode, metrics.QuoteUnpriced)
		return dto, nil
	}
	if qty < listing.MOQ {
		s.countQuote(listing.PricingMode, metrics.QuoteRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is below the minimum order quantity").
			WithDetails(map[string]int{"moq": listing.MOQ, "quantity": qty})
	}

	cfg, err := pricingConfig(listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored listing price is invalid")
	}
	quote, ok, err := pricing.OrderTotal(cfg, qty)
	switch {
	case errors.Is(err, pricing.ErrNoApplicableTier):
		s.countQuote(listing.PricingMode, metrics.QuoteRejected)
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "no applicable pricing tier")
	case errors.Is(err, pricing.ErrAmountOverflow):
		s.countQuote(listing.PricingMode, metrics.QuoteRejected)
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order total is too large")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve listing price")
	}
	if !ok {
		s.countQuote(listing.PricingMode, metrics.QuoteUnpriced)
		return dto, nil
	}

	unit, total := quote.UnitPrice, quote.Total
	dto.Priced = true
	dto.UnitPriceCents = &unit
	dto.TotalCents = &total
	dto.Tier = quote.Tier
	s.countQuote(listing.PricingMode, metrics.QuotePriced)
	return dto, nil
}

// UpdatePricing switches the listing's pricing and rewrites its tier rows.
// Flat listings keep no tiers and tier listings keep no flat price.
func (s *service) UpdatePricing(ctx context.Context, id int64, input PricingInput) (*ListingDTO, error) {
	input, err := normalizePricingInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		listing, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
		}

		if input.Mode == enums.PricingModeTier && input.Tiers[0].MinQty > listing.MOQ {
			return pkgerrors.New(pkgerrors.CodeValidation, "lowest tier must apply at the minimum order quantity").
				WithDetails(map[string]int{"moq": listing.MOQ, "lowest_min_qty": input.Tiers[0].MinQty})
		}

		listing.PricingMode = input.Mode
		listing.FlatPricePerPair = decimal.NullDecimal{}
		var rows []models.PricingTier
		switch input.Mode {
		case enums.PricingModeFlat:
			listing.FlatPricePerPair = decimal.NullDecimal{Decimal: input.FlatPricePerPair.Decimal(), Valid: true}
		case enums.PricingModeTier:
			rows = tierRows(input.Tiers)
		}

		if _, err := txRepo.UpdateListing(ctx, listing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update listing")
		}
		if err := txRepo.ReplacePricingTiers(ctx, listing.ID, rows); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate pricing tier")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace pricing tiers")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.GetListing(ctx, id)
}

func (s *service) loadDetail(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := s.repo.GetListingDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	return listing, nil
}

func (s *service) countQuote(mode enums.PricingMode, outcome string) {
	if s.metrics != nil {
		s.metrics.IncQuote(string(mode), outcome)
	}
}

// normalizePricingInput checks the request shape and returns it with tiers in ascending order.
func normalizePricingInput(input PricingInput) (PricingInput, error) {
	switch input.Mode {
	case enums.PricingModeFlat:
		if input.FlatPricePerPair == nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "flat_price_per_pair_cents is required for flat pricing")
		}
		if *input.FlatPricePerPair < 0 || *input.FlatPricePerPair > maxStoredPrice {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "flat_price_per_pair_cents is out of range")
		}
		if len(input.Tiers) > 0 {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "tiers are not allowed with flat pricing")
		}
	case enums.PricingModeTier:
		if input.FlatPricePerPair != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "flat_price_per_pair_cents is not allowed with tier pricing")
		}
		if len(input.Tiers) == 0 {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required for tier pricing")
		}
		if err := pricing.ValidateTiers(input.Tiers); err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		for _, tier := range input.Tiers {
			if tier.PricePerPair > maxStoredPrice {
				return input, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d price is out of range", tier.MinQty))
			}
		}
		input.Tiers = pricing.SortedTiers(input.Tiers)
	default:
		return input, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown pricing mode %q", input.Mode))
	}
	return input, nil
}
