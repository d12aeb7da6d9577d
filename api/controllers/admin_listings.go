package controllers

import (
	"fmt"
	"net/http"

	"github.com/solehaus/wholesale-backend/api/responses"
	"github.com/solehaus/wholesale-backend/api/validators"
	"github.com/solehaus/wholesale-backend/internal/listings"
	"github.com/solehaus/wholesale-backend/internal/pricing"
	"github.com/solehaus/wholesale-backend/pkg/enums"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/logger"
	"github.com/solehaus/wholesale-backend/pkg/money"
)

// updatePricingRequest takes prices as decimal strings such as "89.99".
type updatePricingRequest struct {
	Mode             string               `json:"pricing_mode" validate:"required,oneof=flat tier"`
	FlatPricePerPair *string              `json:"flat_price_per_pair,omitempty" validate:"omitempty,price"`
	Tiers            []pricingTierRequest `json:"tiers" validate:"omitempty,max=20,dive"`
}

type pricingTierRequest struct {
	MinQty       int    `json:"min_qty" validate:"gt=0"`
	PricePerPair string `json:"price_per_pair" validate:"required,price"`
}

func (r updatePricingRequest) toInput() (listings.PricingInput, error) {
	mode, err := enums.ParsePricingMode(r.Mode)
	if err != nil {
		return listings.PricingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing_mode")
	}
	input := listings.PricingInput{Mode: mode}

	if r.FlatPricePerPair != nil {
		price, err := money.Parse(*r.FlatPricePerPair)
		if err != nil {
			return listings.PricingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flat_price_per_pair").
				WithDetails(map[string]string{"flat_price_per_pair": err.Error()})
		}
		input.FlatPricePerPair = &price
	}

	for i, tier := range r.Tiers {
		price, err := money.Parse(tier.PricePerPair)
		if err != nil {
			field := fmt.Sprintf("tiers[%d].price_per_pair", i)
			return listings.PricingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier price").
				WithDetails(map[string]string{field: err.Error()})
		}
		input.Tiers = append(input.Tiers, pricing.Tier{MinQty: tier.MinQty, PricePerPair: price})
	}
	return input, nil
}

// AdminUpdatePricing replaces a listing's pricing mode, flat price and tiers.
func AdminUpdatePricing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePricingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdatePricing(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"listing_id":   id,
				"pricing_mode": string(input.Mode),
				"tier_count":   len(input.Tiers),
			})
			logg.Info(ctx, "listing.pricing.updated")
		}
		responses.WriteSuccess(w, listing)
	}
}
