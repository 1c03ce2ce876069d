package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockService struct {
	mock.Mock
	limit int64
}

func (m *mockService) MaxDocumentBytes() int64 {
	if m.limit == 0 {
		return 1 << 20
	}
	return m.limit
}

func (m *mockService) Store(ctx context.Context, body []byte) (shared.Identified, error) {
	args := m.Called(ctx, body)
	entity, _ := args.Get(0).(shared.Identified)
	return entity, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, tag, id string) (shared.Identified, error) {
	args := m.Called(ctx, tag, id)
	entity, _ := args.Get(0).(shared.Identified)
	return entity, args.Error(1)
}

func (m *mockService) ListByParent(ctx context.Context, parent string) ([]shared.Identified, error) {
	args := m.Called(ctx, parent)
	items, _ := args.Get(0).([]shared.Identified)
	return items, args.Error(1)
}

func (m *mockService) ListScopedData(ctx context.Context, parent string) ([]*valueobjects.ScopedData, error) {
	args := m.Called(ctx, parent)
	items, _ := args.Get(0).([]*valueobjects.ScopedData)
	return items, args.Error(1)
}

func (m *mockService) CurrentGoal(ctx context.Context, projectID string) (*valueobjects.Goal, error) {
	args := m.Called(ctx, projectID)
	goal, _ := args.Get(0).(*valueobjects.Goal)
	return goal, args.Error(1)
}

func (m *mockService) RenderXML(ctx context.Context, body []byte) (string, error) {
	args := m.Called(ctx, body)
	return args.String(0), args.Error(1)
}

func (m *mockService) ToXML(d shared.Data) (string, error) {
	args := m.Called(d)
	return args.String(0), args.Error(1)
}

func newTestRouter(service EntityService) http.Handler {
	h := NewEntityHandler(service, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/v1/entities", h.CreateEntity)
	r.Get("/api/v1/entities/{type}/{id}", h.GetEntity)
	r.Get("/api/v1/parents/{parent}/entities", h.ListEntities)
	r.Get("/api/v1/parents/{parent}/scoped-data", h.ListScopedData)
	r.Get("/api/v1/projects/{id}/current-goal", h.GetCurrentGoal)
	r.Post("/api/v1/render/xml", h.RenderXML)
	return r
}

func serve(handler http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateEntity(t *testing.T) {
	service := new(mockService)
	sd := valueobjects.ReconstructScopedData("sd-1", "p-1", "public", "title", "Roof")
	service.On("Store", mock.Anything, []byte(sd.JSON())).Return(sd, nil)

	rec := serve(newTestRouter(service), http.MethodPost, "/api/v1/entities", sd.JSON())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/api/v1/entities/scopedData/sd-1", rec.Header().Get("Location"))
	assert.JSONEq(t, sd.JSON(), rec.Body.String())
	service.AssertExpectations(t)
}

func TestCreateEntityErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   pkgerrors.ErrorType
	}{
		{"read", pkgerrors.NewReadError("name", nil), http.StatusBadRequest, pkgerrors.ErrorTypeRead},
		{"argument", pkgerrors.NewArgumentError("amount"), http.StatusBadRequest, pkgerrors.ErrorTypeArgument},
		{"unknown type", pkgerrors.NewUnknownTypeError("widget"), http.StatusUnprocessableEntity, pkgerrors.ErrorTypeUnknownType},
		{"database", pkgerrors.NewDatabaseError("PutItem", nil), http.StatusInternalServerError, pkgerrors.ErrorTypeDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockService)
			service.On("Store", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(newTestRouter(service), http.MethodPost, "/api/v1/entities", `{}`)

			require.Equal(t, tt.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, true, body["error"])
			assert.Equal(t, string(tt.kind), body["type"])
		})
	}
}

func TestCreateEntityHidesInternalMessages(t *testing.T) {
	service := new(mockService)
	service.On("Store", mock.Anything, mock.Anything).
		Return(nil, pkgerrors.NewDatabaseError("PutItem", nil))

	rec := serve(newTestRouter(service), http.MethodPost, "/api/v1/entities", `{}`)

	assert.NotContains(t, rec.Body.String(), "PutItem")
}

func TestOversizedBodiesAreRejected(t *testing.T) {
	service := &mockService{limit: 16}
	router := newTestRouter(service)
	body := `{"_type":"scopedData","id":"sd-1","for":"p-1","name":"title","value":"Roof"}`

	for _, path := range []string{"/api/v1/entities", "/api/v1/render/xml"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(router, http.MethodPost, path, body)

			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "DOCUMENT_TOO_LARGE", resp["errorCode"])
		})
	}
	service.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "RenderXML", mock.Anything, mock.Anything)
}

func TestBodyAtLimitIsAccepted(t *testing.T) {
	body := `{"_type":"metadata"}`
	service := &mockService{limit: int64(len(body))}
	service.On("RenderXML", mock.Anything, []byte(body)).Return(`<metadata></metadata>`, nil)

	rec := serve(newTestRouter(service), http.MethodPost, "/api/v1/render/xml", body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlainErrorsAreInternal(t *testing.T) {
	service := new(mockService)
	service.On("Get", mock.Anything, "goal", "g-1").Return(nil, errors.New("connection reset by peer"))

	rec := serve(newTestRouter(service), http.MethodGet, "/api/v1/entities/goal/g-1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestGetEntityNegotiatesFormat(t *testing.T) {
	service := new(mockService)
	sd := valueobjects.ReconstructScopedData("sd-1", "p-1", "public", "title", "Roof")
	service.On("Get", mock.Anything, "scopedData", "sd-1").Return(sd, nil)
	service.On("ToXML", sd).Return(`<scoped-data id="sd-1"></scoped-data>`, nil)
	router := newTestRouter(service)

	rec := serve(router, http.MethodGet, "/api/v1/entities/scopedData/sd-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, sd.JSON(), rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/v1/entities/scopedData/sd-1", "", "Accept", "application/xml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<scoped-data id="sd-1"></scoped-data>`, rec.Body.String())
}

func TestGetEntityNotFound(t *testing.T) {
	service := new(mockService)
	service.On("Get", mock.Anything, "goal", "missing").Return(nil, pkgerrors.NewNotFoundError("goal"))

	rec := serve(newTestRouter(service), http.MethodGet, "/api/v1/entities/goal/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEndpoints(t *testing.T) {
	service := new(mockService)
	sd := valueobjects.ReconstructScopedData("sd-1", "p-1", "public", "title", "Roof")
	asd := valueobjects.ReconstructAgentScopedData("asd-1", "p-1", "a-1", "public", "vote", "yes")
	service.On("ListByParent", mock.Anything, "p-1").Return([]shared.Identified{sd, asd}, nil)
	service.On("ListScopedData", mock.Anything, "p-1").Return([]*valueobjects.ScopedData{sd}, nil)
	router := newTestRouter(service)

	rec := serve(router, http.MethodGet, "/api/v1/parents/p-1/entities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "["+sd.JSON()+","+asd.JSON()+"]", rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/v1/parents/p-1/scoped-data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "["+sd.JSON()+"]", rec.Body.String())
}

func TestGetCurrentGoal(t *testing.T) {
	service := new(mockService)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	goal, err := valueobjects.NewGoal("g-1", "p-1", start, start.AddDate(0, 1, 0), decimal.NewFromInt(500))
	require.NoError(t, err)
	service.On("CurrentGoal", mock.Anything, "p-1").Return(goal, nil)

	rec := serve(newTestRouter(service), http.MethodGet, "/api/v1/projects/p-1/current-goal", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, goal.JSON(), rec.Body.String())
}

func TestRenderXML(t *testing.T) {
	service := new(mockService)
	service.On("RenderXML", mock.Anything, []byte(`{"_type":"metadata"}`)).Return(`<metadata></metadata>`, nil)

	rec := serve(newTestRouter(service), http.MethodPost, "/api/v1/render/xml", `{"_type":"metadata"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<metadata></metadata>`, rec.Body.String())
}
