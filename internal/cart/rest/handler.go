package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dwikikusuma/shopcore/internal/cart/app"
	"github.com/dwikikusuma/shopcore/internal/cart/domain"
	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
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
	mux.HandleFunc("GET /cart", h.get)
	mux.HandleFunc("POST /cart/items", h.addItems)
	mux.HandleFunc("DELETE /cart/{id}/items", h.removeLines)
}

type addLine struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

type addItemsRequest struct {
	Lines []addLine `json:"lines"`
}

type removeLinesRequest struct {
	LineIDs []string `json:"line_ids"`
}

type cartLineResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

type cartResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"user_id"`
	Lines  []cartLineResponse `json:"lines"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID := h.user(r)
	if userID == "" {
		httpx.Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user")
		return
	}

	cart, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(cart))
}

func (h *Handler) addItems(w http.ResponseWriter, r *http.Request) {
	userID := h.user(r)
	if userID == "" {
		httpx.Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user")
		return
	}

	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed body")
		return
	}

	lines := make([]domain.AddLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.AddLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	cart, err := h.svc.AddItems(r.Context(), userID, lines)
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(cart))
}

func (h *Handler) removeLines(w http.ResponseWriter, r *http.Request) {
	var req removeLinesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed body")
		return
	}

	cart, err := h.svc.RemoveLines(r.Context(), r.PathValue("id"), req.LineIDs)
	if err != nil {
		mapErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(cart))
}

func mapErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, invapp.ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, invapp.ErrItemNotFound):
		httpx.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", err.Error())
	case errors.Is(err, app.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func toResponse(cart domain.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, cartLineResponse{
			ID:       line.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}
	return cartResponse{ID: cart.ID, UserID: cart.UserID, Lines: lines}
}
