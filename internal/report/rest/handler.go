package rest

import (
	"net/http"
	"strconv"

	"github.com/dwikikusuma/shopcore/internal/report/app"
	"github.com/dwikikusuma/shopcore/internal/report/domain"
	"github.com/dwikikusuma/shopcore/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /report/summary", h.summary)
}

type countersResponse struct {
	UserCount   int64 `json:"user_count"`
	OrderCount  int64 `json:"order_count"`
	ItemCount   int64 `json:"item_count"`
	TotalAmount int64 `json:"total_amount"`
}

type spenderResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	TotalAmount int64  `json:"total_amount"`
}

type summaryResponse struct {
	Counters       countersResponse  `json:"counters"`
	MonthlyRevenue map[string]int64  `json:"monthly_revenue"`
	TopSpenders    []spenderResponse `json:"top_spenders"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(summary))
}

func toResponse(s domain.Summary) summaryResponse {
	monthly := make(map[string]int64, len(s.MonthlyRevenue))
	for month, total := range s.MonthlyRevenue {
		monthly[strconv.Itoa(month)] = total
	}

	spenders := make([]spenderResponse, 0, len(s.TopSpenders))
	for _, sp := range s.TopSpenders {
		spenders = append(spenders, spenderResponse{
			UserID:      sp.UserID,
			Name:        sp.Name,
			TotalAmount: sp.TotalAmount,
		})
	}

	return summaryResponse{
		Counters: countersResponse{
			UserCount:   s.Counters.UserCount,
			OrderCount:  s.Counters.OrderCount,
			ItemCount:   s.Counters.ItemCount,
			TotalAmount: s.Counters.TotalAmount,
		},
		MonthlyRevenue: monthly,
		TopSpenders:    spenders,
	}
}
