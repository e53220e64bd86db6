// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/service"
	"github.com/abgdnv/shoecatalog/internal/validation"
	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service service.CatalogService
	logger  *slog.Logger
}

// NewHandler creates a new catalog Handler with the provided service.
func NewHandler(service service.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// lifecycleResponse is the body returned by soft delete, restore and hard delete.
type lifecycleResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *service.ItemDto `json:"data,omitempty"`
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/shoes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/suggest", h.Suggest)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.HardDelete)
			r.Patch("/soft-delete", h.SoftDelete)
			r.Patch("/restore", h.Restore)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// List returns one page of live items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to list shoes", "query", r.URL.RawQuery)
	list, err := h.service.List(r.Context(), r.URL.Query())
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch shoes")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully listed shoes", "total", list.Total, "count", len(list.Results))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Suggest returns autocomplete entries for the q parameter.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	q := r.URL.Query().Get("q")
	suggestions, err := h.service.Suggest(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch suggestions")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, suggestions)
}

// Get retrieves an item by its ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	mLogger.DebugContext(r.Context(), "Received request to find shoe by ID", "ID", id)
	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch shoe")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new item.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	input, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to create shoe")
		return
	}
	mLogger.InfoContext(r.Context(), "Shoe created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update applies a partial change to an item.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	input, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to update shoe")
		return
	}
	mLogger.InfoContext(r.Context(), "Shoe updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// SoftDelete hides an item from listings.
func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	item, err := h.service.SoftDelete(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to delete shoe")
		return
	}
	mLogger.InfoContext(r.Context(), "Shoe soft deleted", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, lifecycleResponse{Success: true, Message: "Shoe soft deleted successfully", Data: item})
}

// Restore makes a soft deleted item visible again.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	item, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to restore shoe")
		return
	}
	mLogger.InfoContext(r.Context(), "Shoe restored", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, lifecycleResponse{Success: true, Message: "Shoe restored successfully", Data: item})
}

// HardDelete permanently removes an item.
func (h *Handler) HardDelete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	if err := h.service.HardDelete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to delete shoe")
		return
	}
	mLogger.InfoContext(r.Context(), "Shoe permanently deleted", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, lifecycleResponse{Success: true, Message: "Shoe permanently deleted"})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decode reads a JSON object body. Numbers are kept as json.Number for the validator.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (validation.Input, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var input validation.Input
	if err := dec.Decode(&input); err != nil || input == nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return input, true
}

// respondServiceError maps service errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var vErr *perrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", vErr.Messages)
		web.RespondError(w, logger, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, perrors.ErrInvalidID):
		logger.WarnContext(r.Context(), "Invalid shoe ID", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid shoe ID")
	case errors.Is(err, perrors.ErrDuplicateName):
		logger.WarnContext(r.Context(), "Duplicate shoe name", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Shoe name already exists")
	case errors.Is(err, perrors.ErrItemNotFound):
		logger.WarnContext(r.Context(), "Shoe not found", "error", err)
		web.RespondError(w, logger, http.StatusNotFound, "Shoe not found")
	default:
		logger.ErrorContext(r.Context(), fallback, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, fallback)
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
