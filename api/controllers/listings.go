package controllers

import (
	"net/http"
	"strings"

	"github.com/solehaus/wholesale-backend/api/responses"
	"github.com/solehaus/wholesale-backend/api/validators"
	"github.com/solehaus/wholesale-backend/internal/listings"
	"github.com/solehaus/wholesale-backend/pkg/logger"
	"github.com/solehaus/wholesale-backend/pkg/pagination"
	"github.com/solehaus/wholesale-backend/pkg/types"
)

const listingIDParam = "listingId"

// ListListings pages through active listings, newest first.
func ListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListListings(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Page[listings.ListingDTO]{
			Items:      result.Listings,
			NextCursor: result.NextCursor,
		})
	}
}

func GetListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.GetListing(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

type quoteRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// QuoteListing prices a quantity of pairs for the signed-in buyer.
func QuoteListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), id, *req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
