package controllers

import (
	"net/http"
	"time"

	"github.com/solehaus/wholesale-backend/api/middleware"
	"github.com/solehaus/wholesale-backend/api/responses"
	"github.com/solehaus/wholesale-backend/api/validators"
	"github.com/solehaus/wholesale-backend/internal/auth"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/logger"
)

const maxEmailLength = 254

// CookieSettings carries the attributes shared by one kind of session cookie.
type CookieSettings struct {
	MaxAge time.Duration
	Secure bool
}

// BuyerLogin verifies buyer credentials and sets the buyer session cookie.
func BuyerLogin(svc auth.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Email = validators.SanitizeString(req.Email, maxEmailLength)

		result, err := svc.BuyerLogin(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		middleware.SetSessionCookie(w, middleware.BuyerCookieName, result.Token, cookie.MaxAge, cookie.Secure)
		responses.WriteSuccess(w, result)
	}
}

// BuyerLogout clears the buyer cookie. It succeeds without a session.
func BuyerLogout(cookie CookieSettings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSessionCookie(w, middleware.BuyerCookieName, cookie.Secure)
		responses.WriteNoContent(w)
	}
}

// BuyerMe returns the signed-in buyer.
func BuyerMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, ok := middleware.BuyerIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer session required"))
			return
		}
		buyer, err := svc.CurrentBuyer(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buyer)
	}
}

// AdminLogin checks the shared admin password and sets the admin cookie.
func AdminLogin(svc auth.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.AdminLoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminLogin(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		middleware.SetSessionCookie(w, middleware.AdminCookieName, result.Token, cookie.MaxAge, cookie.Secure)
		responses.WriteSuccess(w, map[string]bool{"admin": true})
	}
}

func AdminLogout(cookie CookieSettings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSessionCookie(w, middleware.AdminCookieName, cookie.Secure)
		responses.WriteNoContent(w)
	}
}
