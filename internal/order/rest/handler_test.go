package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	"github.com/dwikikusuma/shopcore/internal/order/app"
)

func TestMapErr(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input -> 400", fmt.Errorf("%w: bad", app.ErrInvalidInput), http.StatusBadRequest},
		{"item not found -> 404", fmt.Errorf("%w: x", invapp.ErrItemNotFound), http.StatusNotFound},
		{"order not found -> 404", fmt.Errorf("%w: x", app.ErrNotFound), http.StatusNotFound},
		{"insufficient stock -> 409", &invapp.InsufficientStockError{Requested: 3, Available: 1}, http.StatusConflict},
		{"invalid transition -> 409", fmt.Errorf("%w: x", app.ErrInvalidTransition), http.StatusConflict},
		{"anything else -> 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapErr(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("got %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestCheckoutRequestGuards(t *testing.T) {
	h := NewHandler(nil, func(r *http.Request) string { return r.Header.Get("X-User-ID") })
	mux := http.NewServeMux()
	h.Register(mux)

	t.Run("missing user -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("got %d, want 401", rec.Code)
		}
	})

	t.Run("malformed body -> 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{"))
		req.Header.Set("X-User-ID", "u-1")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", rec.Code)
		}
	})
}
