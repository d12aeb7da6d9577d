package middleware

import (
	"net/http"

	"github.com/solehaus/wholesale-backend/api/responses"
	"github.com/solehaus/wholesale-backend/pkg/auth/session"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/logger"
)

type tokenVerifier interface {
	Verify(token string) (session.Identity, bool)
}

// BuyerSession verifies the buyer cookie and seeds the buyer id into the
// request context. A missing or invalid cookie leaves the request anonymous.
func BuyerSession(verifier tokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionCookie(r, BuyerCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity, ok := verifier.Verify(token)
			if !ok {
				if logg != nil {
					logg.Debug(r.Context(), "session.buyer.invalid")
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithBuyerID(r.Context(), identity.SubjectID)
			if logg != nil {
				ctx = logg.WithBuyerID(ctx, identity.SubjectID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminSession verifies the admin cookie and marks the context as admin.
func AdminSession(verifier tokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionCookie(r, AdminCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := verifier.Verify(token); !ok {
				if logg != nil {
					logg.Debug(r.Context(), "session.admin.invalid")
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithAdmin(r.Context())
			if logg != nil {
				ctx = logg.WithActorRole(ctx, session.AdminCodecName)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBuyer answers 401 unless BuyerSession seeded a buyer.
func RequireBuyer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := BuyerIDFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 401 unless AdminSession verified an admin cookie.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
