package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	"github.com/dwikikusuma/shopcore/internal/order/app"
	"github.com/dwikikusuma/shopcore/internal/order/domain"
	"github.com/dwikikusuma/shopcore/pkg/httpx"
)

type Handler struct {
	svc  *app.Service
	user func(*http.Request) string
}

func NewHandler(svc *app.Service, user func(*http.Request) string) *Handler {
	return &Handler{svc: svc, user: user}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.checkout)
	mux.HandleFunc("GET /orders", h.list)
	mux.HandleFunc("POST /orders/{id}/cancel", h.cancel)
	mux.HandleFunc("POST /orders/{id}/complete", h.complete)
}

type checkoutLine struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

type checkoutRequest struct {
	Lines []checkoutLine `json:"lines"`
}

type orderLineResponse struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int32  `json:"quantity"`
	Reviewed   bool   `json:"reviewed"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Status        string              `json:"status"`
	Currency      string              `json:"currency"`
	TotalQuantity int32               `json:"total_quantity"`
	TotalAmount   int64               `json:"total_amount"`
	Lines         []orderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	userID := h.user(r)
	if userID == "" {
		httpx.Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed body")
		return
	}

	lines := make([]domain.CheckoutLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.CheckoutLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	order, err := h.svc.Checkout(r.Context(), domain.CheckoutRequest{UserID: userID, Lines: lines})
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(order))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := h.user(r)
	if userID == "" {
		httpx.Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user")
		return
	}

	orders, err := h.svc.List(r.Context(), userID)
	if err != nil {
		mapErr(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toResponse(order))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	userID := h.user(r)
	if userID == "" {
		httpx.Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user")
		return
	}

	order, err := h.svc.Cancel(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}

func mapErr(w http.ResponseWriter, err error) {
	var stockErr *invapp.InsufficientStockError
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, invapp.ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, invapp.ErrItemNotFound):
		httpx.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", err.Error())
	case errors.Is(err, app.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &stockErr):
		httpx.Error(w, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, app.ErrInvalidTransition):
		httpx.Error(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func toResponse(order domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineResponse{
			ID:         line.ID,
			ItemID:     line.ItemID,
			Name:       line.Name,
			UnitAmount: line.UnitAmount,
			Quantity:   line.Quantity,
			Reviewed:   line.Reviewed,
		})
	}
	return orderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		Currency:      order.Currency,
		TotalQuantity: order.TotalQuantity,
		TotalAmount:   order.TotalAmount,
		Lines:         lines,
		CreatedAt:     order.CreatedAt,
	}
}
