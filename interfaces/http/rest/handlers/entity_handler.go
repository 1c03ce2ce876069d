package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
)

// EntityService is the application surface the handlers need
type EntityService interface {
	Store(ctx context.Context, body []byte) (shared.Identified, error)
	Get(ctx context.Context, tag, id string) (shared.Identified, error)
	ListByParent(ctx context.Context, parent string) ([]shared.Identified, error)
	ListScopedData(ctx context.Context, parent string) ([]*valueobjects.ScopedData, error)
	CurrentGoal(ctx context.Context, projectID string) (*valueobjects.Goal, error)
	RenderXML(ctx context.Context, body []byte) (string, error)
	ToXML(d shared.Data) (string, error)
	MaxDocumentBytes() int64
}

// EntityHandler handles entity-related HTTP requests
type EntityHandler struct {
	service EntityService
	logger  *zap.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(service EntityService, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		service: service,
		logger:  logger,
	}
}

// CreateEntity handles POST /entities
func (h *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	entity, err := h.service.Store(r.Context(), body)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/entities/"+entity.TypeTag()+"/"+entity.ID())
	h.respondDocument(w, http.StatusCreated, entity.JSON())
}

// GetEntity handles GET /entities/{type}/{id}
func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.service.Get(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	if wantsXML(r) {
		out, err := h.service.ToXML(entity)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondXML(w, http.StatusOK, out)
		return
	}
	h.respondDocument(w, http.StatusOK, entity.JSON())
}

// ListEntities handles GET /parents/{parent}/entities
func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByParent(r.Context(), chi.URLParam(r, "parent"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = item.JSON()
	}
	h.respondDocument(w, http.StatusOK, "["+strings.Join(docs, ",")+"]")
}

// ListScopedData handles GET /parents/{parent}/scoped-data
func (h *EntityHandler) ListScopedData(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListScopedData(r.Context(), chi.URLParam(r, "parent"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = item.JSON()
	}
	h.respondDocument(w, http.StatusOK, "["+strings.Join(docs, ",")+"]")
}

// GetCurrentGoal handles GET /projects/{id}/current-goal
func (h *EntityHandler) GetCurrentGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.service.CurrentGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondDocument(w, http.StatusOK, goal.JSON())
}

// RenderXML handles POST /render/xml. Nothing is stored.
func (h *EntityHandler) RenderXML(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out, err := h.service.RenderXML(r.Context(), body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondXML(w, http.StatusOK, out)
}

// readBody reads at most the service's document limit. Larger bodies are
// rejected without being buffered.
func (h *EntityHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := h.service.MaxDocumentBytes()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.NewDocumentTooLargeError(limit)
		}
		return nil, pkgerrors.NewReadError("body", err)
	}
	return body, nil
}

func wantsXML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, contentTypeXML) || strings.Contains(accept, "text/xml")
}

// respondDocument writes an already rendered JSON document
func (h *EntityHandler) respondDocument(w http.ResponseWriter, status int, doc string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, doc); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *EntityHandler) respondXML(w http.ResponseWriter, status int, doc string) {
	w.Header().Set("Content-Type", contentTypeXML)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, doc); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *EntityHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *EntityHandler) respondError(w http.ResponseWriter, err error) {
	status := pkgerrors.HTTPStatus(err)
	body := map[string]interface{}{
		"error":   true,
		"message": err.Error(),
		"code":    status,
	}

	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		body["type"] = appErr.Type
		if appErr.Code != "" {
			body["errorCode"] = appErr.Code
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}

	switch {
	case !pkgerrors.IsAppError(err):
		h.logger.Error("Unexpected error", zap.Error(err))
		body["message"] = http.StatusText(status)
	case status >= http.StatusInternalServerError:
		h.logger.Error("Request failed", zap.Error(err))
		body["message"] = http.StatusText(status)
	case pkgerrors.IsNotFound(err):
		h.logger.Debug("Entity not found", zap.Error(err))
	case pkgerrors.IsClientError(err):
		h.logger.Info("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	h.respondJSON(w, status, body)
}
