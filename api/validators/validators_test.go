package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "valid", body: `{"email":"a@b.example","password":"x"}`},
		{name: "unknown field", body: `{"email":"a@b.example","password":"x","role":"admin"}`, wantErr: true},
		{name: "trailing data", body: `{"email":"a@b.example","password":"x"}{}`, wantErr: true},
		{name: "bad email", body: `{"email":"nope","password":"x"}`, wantErr: true, field: "email"},
		{name: "missing password", body: `{"email":"a@b.example"}`, wantErr: true, field: "password"},
		{name: "not json", body: `email=a`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest loginBody
			err := DecodeJSONBody(req, &dest)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tt.field != "" {
				details, ok := typed.Details().(map[string]string)
				if !ok || details[tt.field] == "" {
					t.Fatalf("expected detail for %s, got %#v", tt.field, typed.Details())
				}
			}
		})
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=40&bad=x&big=500", nil)

	if v, err := ParseQueryInt(req, "limit", 25, 1, 100); err != nil || v != 40 {
		t.Fatalf("expected 40, got %d (%v)", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 25, 1, 100); err != nil || v != 25 {
		t.Fatalf("expected default 25, got %d (%v)", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 25, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseQueryInt(req, "big", 25, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestParsePathID(t *testing.T) {
	for raw, want := range map[string]int64{"17": 17, "0": 0, "-3": 0, "abc": 0} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("listingId", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		got, err := ParsePathID(req, "listingId")
		if want == 0 {
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("%q: expected validation error, got %v", raw, err)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("%q: expected %d, got %d (%v)", raw, want, got, err)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 3); got != "hel" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := SanitizeString(" hi ", 0); got != "hi" {
		t.Fatalf("expected trim only, got %q", got)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("Zoë Café", 3); got != "Zoë" {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}

type tierBody struct {
	Tiers []struct {
		MinQty       int    `json:"min_qty" validate:"gt=0"`
		PricePerPair string `json:"price_per_pair" validate:"required,price"`
	} `json:"tiers" validate:"dive"`
}

func TestDecodeJSONBodyNestedPriceErrors(t *testing.T) {
	body := `{"tiers":[{"min_qty":5,"price_per_pair":"12.50"},{"min_qty":0,"price_per_pair":"9.999"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest tierBody
	typed := pkgerrors.As(DecodeJSONBody(req, &dest))
	if typed == nil {
		t.Fatal("expected validation error")
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
	if details["tiers[1].min_qty"] == "" || details["tiers[1].price_per_pair"] == "" {
		t.Fatalf("expected indexed field paths, got %#v", details)
	}
	if _, ok := details["tiers[0].price_per_pair"]; ok {
		t.Fatalf("valid tier flagged: %#v", details)
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	body := `{"email":"a@b.example","password":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest loginBody
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "request body too large" {
		t.Fatalf("expected body size error, got %v", err)
	}
}
