package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"funder/application/services"
	"funder/domain/config"
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	infraconfig "funder/infrastructure/config"
	"funder/infrastructure/messaging/eventbridge"
	"funder/infrastructure/observability"
	pkgerrors "funder/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepository keeps entities in a map for end-to-end router tests
type memoryRepository struct {
	items map[string]shared.Identified
}

func (m *memoryRepository) Save(_ context.Context, e shared.Identified) error {
	m.items[e.TypeTag()+"#"+e.ID()] = e
	return nil
}

func (m *memoryRepository) Get(_ context.Context, tag, id string) (shared.Identified, error) {
	e, ok := m.items[tag+"#"+id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(tag)
	}
	return e, nil
}

func (m *memoryRepository) ListByParent(context.Context, string, int) ([]shared.Identified, error) {
	return nil, nil
}

func newRouter(t *testing.T) (http.Handler, *observability.Collector) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewCollector("funder")
	service := services.NewEntityService(
		&memoryRepository{items: map[string]shared.Identified{}},
		eventbridge.NewNoopPublisher(logger),
		metrics,
		config.DefaultDomainConfig(),
		logger,
	)
	cfg := &infraconfig.Config{
		Environment:    "test",
		EnableMetrics:  true,
		EnableCORS:     true,
		AllowedOrigins: []string{"https://funder.example"},
	}
	return NewRouter(service, metrics, cfg, logger).Setup(), metrics
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","environment":"test"}`, rec.Body.String())
}

func TestStoreThenFetchAsXML(t *testing.T) {
	router, _ := newRouter(t)
	sd := valueobjects.ReconstructScopedData("sd-1", "p-1", "public", "title", "Roof")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/entities", strings.NewReader(sd.JSON())))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entities/scopedData/sd-1", nil)
	req.Header.Set("Accept", "application/xml")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<scoped-data `))
	assert.Contains(t, rec.Body.String(), `id="sd-1"`)
}

func TestUnknownTypeIsUnprocessable(t *testing.T) {
	router, _ := newRouter(t)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/entities", strings.NewReader(`{"_type":"widget"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `funder_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entities", nil)
	req.Header.Set("Origin", "https://funder.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://funder.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
