package listing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmease/workmatch/pkg/middleware"
	"github.com/farmease/workmatch/pkg/response"
)

// Handler handles HTTP requests for work listing operations
type Handler struct {
	service *Service
}

// NewHandler creates a new listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for listing endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/sweep", h.Sweep)
	r.Get("/{workId}", h.GetByWorkID)
	r.Post("/{workId}/cancel", h.Cancel)
	r.Delete("/{workId}", h.Delete)

	return r
}

// Create handles POST /works
// @Summary      Post a work listing
// @Description  The work date must be tomorrow or later and 1-50 laborers are required
// @Tags         works
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting farmer"
// @Param        request body CreateWorkRequest true "Listing"
// @Success      201 {object} response.APIResponse{data=CreateWorkResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /works [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserID(r.Context())

	var req CreateWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	work, err := h.service.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, err, "Failed to create work")
		return
	}

	response.JSON(w, http.StatusCreated, CreateWorkResponse{WorkID: work.WorkID})
}

// List handles GET /works
// @Summary      List work listings
// @Description  scope=mine lists the caller's own listings; otherwise area and state list open listings in that region
// @Tags         works
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        scope query string false "mine"
// @Param        area query string false "Area"
// @Param        state query string false "State"
// @Success      200 {object} response.APIResponse{data=[]WorkResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /works [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	q := r.URL.Query()

	var (
		works []*WorkListing
		err   error
	)
	switch {
	case q.Get("scope") == "mine":
		works, err = h.service.ListByOwner(r.Context(), userID)
	case q.Get("area") != "" || q.Get("state") != "":
		works, err = h.service.ListOpenInRegion(r.Context(), q.Get("area"), q.Get("state"))
	default:
		response.BadRequest(w, "Missing required parameters")
		return
	}
	if err != nil {
		WriteError(w, err, "Failed to list works")
		return
	}

	WriteList(w, h.service, works)
}

// GetByWorkID handles GET /works/{workId}
// @Summary      Get a work listing
// @Tags         works
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        workId path string true "Work ID"
// @Success      200 {object} response.APIResponse{data=WorkResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /works/{workId} [get]
func (h *Handler) GetByWorkID(w http.ResponseWriter, r *http.Request) {
	work, err := h.service.GetByWorkID(r.Context(), chi.URLParam(r, "workId"))
	if err != nil {
		WriteError(w, err, "Failed to get work")
		return
	}

	response.JSON(w, http.StatusOK, work.ToResponse(h.service.Rules()))
}

// Cancel handles POST /works/{workId}/cancel
// @Summary      Cancel a work listing
// @Description  Only the owner may cancel, before 23:59:59 on the day before the work date. The farmer and every applicant are notified.
// @Tags         works
// @Produce      json
// @Param        X-User-ID header string true "Acting farmer"
// @Param        workId path string true "Work ID"
// @Success      200 {object} response.APIResponse{data=WorkResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /works/{workId}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserID(r.Context())

	work, err := h.service.Cancel(r.Context(), chi.URLParam(r, "workId"), ownerID)
	if err != nil {
		WriteError(w, err, "Failed to cancel work")
		return
	}

	response.JSON(w, http.StatusOK, work.ToResponse(h.service.Rules()))
}

// Delete handles DELETE /works/{workId}
// @Summary      Delete a finished work listing
// @Description  Only completed or cancelled listings can be deleted, and only by their owner
// @Tags         works
// @Produce      json
// @Param        X-User-ID header string true "Acting farmer"
// @Param        workId path string true "Work ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /works/{workId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "workId"), ownerID); err != nil {
		WriteError(w, err, "Failed to delete work")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Work deleted successfully"})
}

// Sweep handles POST /works/sweep
// @Summary      Complete past listings
// @Tags         works
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Success      200 {object} response.APIResponse
// @Router       /works/sweep [post]
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Sweep(r.Context())
	if err != nil {
		WriteError(w, err, "Failed to update work statuses")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"updated_count": n})
}

// WriteList renders listings with their deadlines
func WriteList(w http.ResponseWriter, service *Service, works []*WorkListing) {
	out := make([]*WorkResponse, len(works))
	for i, work := range works {
		out[i] = work.ToResponse(service.Rules())
	}
	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{Total: len(out)})
}

// WriteError maps listing errors to API error responses
func WriteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFoundOrUnauthorized):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrUnauthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, response.CodeInvalidArgument, err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(w, http.StatusConflict, response.CodeInvalidState, err.Error())
	case errors.Is(err, ErrDeadlinePassed):
		response.Error(w, http.StatusConflict, response.CodeDeadlinePassed, err.Error())
	case errors.Is(err, ErrConflict):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
