package application

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmease/workmatch/internal/listing"
	"github.com/farmease/workmatch/pkg/middleware"
	"github.com/farmease/workmatch/pkg/response"
)

// Handler handles HTTP requests for laborer applications
type Handler struct {
	service  *Service
	listings *listing.Service
}

// NewHandler creates a new application handler
func NewHandler(service *Service, listings *listing.Service) *Handler {
	return &Handler{service: service, listings: listings}
}

// Routes returns the router for application endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Apply)
	r.Get("/", h.ListApplied)
	r.Post("/withdraw", h.Withdraw)

	return r
}

// Apply handles POST /applications
// @Summary      Apply to a work listing
// @Description  Applications close at 23:00 on the day before the work date
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting laborer"
// @Param        request body ApplyRequest true "Application"
// @Success      201 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /applications [post]
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	laborerID, _ := middleware.GetUserID(r.Context())

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if _, err := h.service.Apply(r.Context(), laborerID, &req); err != nil {
		writeError(w, err, "Failed to submit application")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{
		"message": "Application submitted successfully! The farmer will contact you soon.",
	})
}

// Withdraw handles POST /applications/withdraw
// @Summary      Withdraw an application
// @Description  Withdrawals close at 23:59:59 on the day before the work date; the farmer is notified
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting laborer"
// @Param        request body WithdrawRequest true "Withdrawal"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /applications/withdraw [post]
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	laborerID, _ := middleware.GetUserID(r.Context())

	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Withdraw(r.Context(), laborerID, &req); err != nil {
		writeError(w, err, "Failed to withdraw application")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Application withdrawn successfully."})
}

// ListApplied handles GET /applications
// @Summary      List works I applied to
// @Tags         applications
// @Produce      json
// @Param        X-User-ID header string true "Acting laborer"
// @Success      200 {object} response.APIResponse{data=[]listing.WorkResponse}
// @Router       /applications [get]
func (h *Handler) ListApplied(w http.ResponseWriter, r *http.Request) {
	laborerID, _ := middleware.GetUserID(r.Context())

	works, err := h.service.ListApplied(r.Context(), laborerID)
	if err != nil {
		writeError(w, err, "Failed to fetch applied works")
		return
	}

	listing.WriteList(w, h.listings, works)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrFull):
		response.Error(w, http.StatusConflict, response.CodeFull, err.Error())
	case errors.Is(err, ErrAlreadyApplied):
		response.Error(w, http.StatusConflict, response.CodeAlreadyApplied, err.Error())
	case errors.Is(err, ErrNotApplied):
		response.Error(w, http.StatusBadRequest, response.CodeNotApplied, err.Error())
	default:
		listing.WriteError(w, err, fallback)
	}
}
