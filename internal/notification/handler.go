package notification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/farmease/workmatch/pkg/middleware"
	"github.com/farmease/workmatch/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.GetUnreadCount)
	r.Post("/read", h.MarkRead)
	r.Post("/read-all", h.MarkAllAsRead)
	r.Post("/{id}/read", h.MarkAsRead)

	return r
}

// MarkReadRequest selects notifications to mark as read
type MarkReadRequest struct {
	IDs     []string `json:"ids"`
	MarkAll bool     `json:"mark_all"`
}

// MarkReadResponse reports how many notifications changed state
type MarkReadResponse struct {
	Modified int64 `json:"modified"`
}

// List handles GET /notifications
// @Summary      List my notifications
// @Description  Newest first, bounded by limit; unread_count is the full unread total
// @Tags         notifications
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        limit query int false "Maximum notifications returned" default(10)
// @Param        unread_only query bool false "Only unread notifications"
// @Success      200 {object} response.APIResponse{data=Inbox}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	inbox, err := h.service.List(r.Context(), userID, limit, unreadOnly)
	if err != nil {
		writeError(w, err, "Failed to list notifications")
		return
	}

	response.JSON(w, http.StatusOK, inbox)
}

// GetUnreadCount handles GET /notifications/unread-count
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	inbox, err := h.service.List(r.Context(), userID, 1, true)
	if err != nil {
		writeError(w, err, "Failed to get unread count")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"unread_count": inbox.UnreadCount})
}

// MarkRead handles POST /notifications/read
// @Summary      Mark notifications as read
// @Description  Marks the given ids, or every notification when mark_all is set. Only the caller's notifications are touched.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        request body MarkReadRequest true "Selection"
// @Success      200 {object} response.APIResponse{data=MarkReadResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /notifications/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	h.markRead(w, r, userID, req.IDs, req.MarkAll)
}

// MarkAsRead handles POST /notifications/{id}/read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	h.markRead(w, r, userID, []string{chi.URLParam(r, "id")}, false)
}

// MarkAllAsRead handles POST /notifications/read-all
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	h.markRead(w, r, userID, nil, true)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request, userID string, ids []string, markAll bool) {
	modified, err := h.service.MarkRead(r.Context(), userID, ids, markAll)
	if err != nil {
		writeError(w, err, "Failed to mark notifications as read")
		return
	}

	response.JSON(w, http.StatusOK, MarkReadResponse{Modified: modified})
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, response.CodeInvalidArgument, err.Error())
	case errors.Is(err, ErrMissingUser):
		response.Unauthorized(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
