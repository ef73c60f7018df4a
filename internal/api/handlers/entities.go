package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/logging"
	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/pkg/ref"
)

// EntityReader is the catalog read surface the handlers consume.
type EntityReader interface {
	ListEntities(ctx context.Context, kind, namespace string) ([]models.Entity, error)
	GetEntity(ctx context.Context, kind, namespace, name string) (models.Entity, error)
	CountEntities(ctx context.Context) (map[string]int, error)
}

// EntityHandler handles catalog entity read endpoints.
type EntityHandler struct {
	store EntityReader
}

// NewEntityHandler creates a new entity read handler.
func NewEntityHandler(store EntityReader) *EntityHandler {
	return &EntityHandler{store: store}
}

// EntityListResponse represents a list of catalog entities.
type EntityListResponse struct {
	Items []models.Entity `json:"items"`
	Total int             `json:"total"`
}

// EntityCountResponse represents per-kind entity counts.
type EntityCountResponse struct {
	Counts map[string]int `json:"counts"`
}

// List handles GET /api/v1/entities with optional kind and namespace query
// filters.
func (h *EntityHandler) List(c *gin.Context) {
	kind := c.Query("kind")
	namespace := c.Query("namespace")

	if kind != "" && !models.ValidKind(kind) {
		respondError(c, http.StatusBadRequest, "invalid_kind", "Unknown entity kind: "+kind)
		return
	}

	entities, err := h.store.ListEntities(c.Request.Context(), kind, namespace)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to list entities", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to list entities")
		return
	}

	c.JSON(http.StatusOK, EntityListResponse{Items: entities, Total: len(entities)})
}

// Get handles GET /api/v1/entities/:kind/:namespace/:name.
func (h *EntityHandler) Get(c *gin.Context) {
	kind := c.Param("kind")
	namespace := c.Param("namespace")
	name := c.Param("name")

	if !models.ValidKind(kind) {
		respondError(c, http.StatusBadRequest, "invalid_kind", "Unknown entity kind: "+kind)
		return
	}

	entity, err := h.store.GetEntity(c.Request.Context(), kind, namespace, name)
	if errors.Is(err, models.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "Entity not found")
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to get entity", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to get entity")
		return
	}

	c.JSON(http.StatusOK, entity)
}

// GetByRef handles GET /api/v1/entities/by-ref with a compound
// "kind:namespace/name" reference in the ref query parameter.
func (h *EntityHandler) GetByRef(c *gin.Context) {
	parsed, err := ref.Parse(c.Query("ref"))
	if errors.Is(err, models.ErrInvalidKind) {
		respondError(c, http.StatusBadRequest, "invalid_kind", "Unknown entity kind in reference")
		return
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_ref", "Malformed entity reference")
		return
	}

	entity, err := h.store.GetEntity(c.Request.Context(), parsed.Kind, parsed.Namespace, parsed.Name)
	if errors.Is(err, models.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "Entity not found")
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to get entity", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to get entity")
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Counts handles GET /api/v1/entities/counts.
func (h *EntityHandler) Counts(c *gin.Context) {
	counts, err := h.store.CountEntities(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to count entities", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to count entities")
		return
	}
	c.JSON(http.StatusOK, EntityCountResponse{Counts: counts})
}
