package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	handler "github.com/garrywilliams/cake/internal/adapter/handler/http"
	"github.com/garrywilliams/cake/internal/domain/model"
	"github.com/garrywilliams/cake/internal/usecase"
)

type mockWorkflow struct {
	mock.Mock
}

func (m *mockWorkflow) ListCakes(ctx context.Context, skip, limit string) (*model.Envelope, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Envelope), args.Error(1)
}

func (m *mockWorkflow) CreateCake(ctx context.Context, payload map[string]interface{}) (*model.Envelope, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Envelope), args.Error(1)
}

func (m *mockWorkflow) ReadCake(ctx context.Context, id string) (*model.Envelope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Envelope), args.Error(1)
}

func (m *mockWorkflow) UpdateCake(ctx context.Context, id string, payload map[string]interface{}) (*model.Envelope, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Envelope), args.Error(1)
}

func (m *mockWorkflow) DeleteCake(ctx context.Context, id string) (*model.Envelope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Envelope), args.Error(1)
}

func newRouter(workflow usecase.CakeWorkflow) *echo.Echo {
	e := echo.New()
	handler.NewCakeHandler(workflow, zap.NewNop()).RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCakeHandler_ListCakes(t *testing.T) {
	t.Run("defaults pagination to skip 0 and limit 10", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ListCakes", mock.Anything, "0", "10").Return(&model.Envelope{
			StatusCode: http.StatusOK,
			Content:    []interface{}{},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		workflow.AssertExpectations(t)
	})

	t.Run("forwards explicit pagination", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ListCakes", mock.Anything, "5", "20").Return(&model.Envelope{
			StatusCode: http.StatusOK,
			Content:    []interface{}{map[string]interface{}{"id": float64(1)}},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/?skip=5&limit=20", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		workflow.AssertExpectations(t)
	})

	t.Run("renders the catalog unavailable error", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ListCakes", mock.Anything, "0", "10").Return(nil, usecase.ErrCatalogUnavailable)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "We couldn't reach the bakery. Please try again.", body["error"])
	})
}

func TestCakeHandler_CreateCake(t *testing.T) {
	t.Run("passes the created envelope through", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("CreateCake", mock.Anything, mock.MatchedBy(func(payload map[string]interface{}) bool {
			return payload["name"] == "Victoria Sponge"
		})).Return(&model.Envelope{
			StatusCode: http.StatusCreated,
			Content:    map[string]interface{}{"id": float64(7), "name": "Victoria Sponge"},
			Headers:    map[string]string{"X-Request-Id": "abc123", "Content-Length": "99"},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodPost, "/cakes/",
			`{"name":"Victoria Sponge","comment":"Light and jammy.","imageUrl":"https://example.com/s.png","yumFactor":4}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(7), body["id"])

		// Downstream headers pass through, hop-by-hop headers do not.
		assert.Equal(t, "abc123", rec.Header().Get("X-Request-Id"))
		assert.NotEqual(t, "99", rec.Header().Get("Content-Length"))
	})

	t.Run("rejects an unparsable body", func(t *testing.T) {
		workflow := new(mockWorkflow)

		rec := doRequest(newRouter(workflow), http.MethodPost, "/cakes/", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid request body.", body["error"])
		workflow.AssertNotCalled(t, "CreateCake", mock.Anything, mock.Anything)
	})

	t.Run("renders the missing imageUrl error", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("CreateCake", mock.Anything, mock.Anything).Return(nil, usecase.ErrMissingImageURL)

		rec := doRequest(newRouter(workflow), http.MethodPost, "/cakes/", `{"name":"Victoria Sponge"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Please provide an imageUrl.", body["error"])
	})

	t.Run("renders the not-cake rejection", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("CreateCake", mock.Anything, mock.Anything).Return(nil, usecase.ErrNotCake)

		rec := doRequest(newRouter(workflow), http.MethodPost, "/cakes/",
			`{"name":"Dog","imageUrl":"https://example.com/dog.png"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Couldn't see the cake. Please try again with a different image.", body["error"])
	})

	t.Run("masks unexpected errors", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("CreateCake", mock.Anything, mock.Anything).Return(nil, errors.New("nil pointer somewhere"))

		rec := doRequest(newRouter(workflow), http.MethodPost, "/cakes/", `{"name":"Victoria Sponge"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Something went wrong. Please try again.", body["error"])
	})
}

func TestCakeHandler_GetCake(t *testing.T) {
	t.Run("passes the catalog response through", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ReadCake", mock.Anything, "7").Return(&model.Envelope{
			StatusCode: http.StatusOK,
			Content:    map[string]interface{}{"id": float64(7), "name": "Victoria Sponge"},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/7/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Victoria Sponge", body["name"])
	})

	t.Run("passes catalog error statuses through", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ReadCake", mock.Anything, "99").Return(&model.Envelope{
			StatusCode: http.StatusNotFound,
			Content:    map[string]interface{}{"detail": "Not found."},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/99/", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Not found.", body["detail"])
	})

	t.Run("passes non-JSON content through as text", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("ReadCake", mock.Anything, "7").Return(&model.Envelope{
			StatusCode: http.StatusOK,
			Content:    "plain text body",
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodGet, "/cakes/7/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "plain text body", rec.Body.String())
	})
}

func TestCakeHandler_UpdateCake(t *testing.T) {
	t.Run("renders validation failures as a field map", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("UpdateCake", mock.Anything, "7", mock.Anything).Return(nil, &usecase.ValidationError{
			Fields: map[string]string{
				"Comment":   "failed on the 'required' rule",
				"YumFactor": "failed on the 'lte' rule",
			},
		})

		rec := doRequest(newRouter(workflow), http.MethodPut, "/cakes/7/",
			`{"name":"Victoria Sponge","imageUrl":"https://example.com/s.png","yumFactor":11}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "failed on the 'required' rule", body["Comment"])
		assert.Equal(t, "failed on the 'lte' rule", body["YumFactor"])
	})

	t.Run("renders the update failure message", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("UpdateCake", mock.Anything, "99", mock.Anything).Return(nil, usecase.ErrUpdateFailed)

		rec := doRequest(newRouter(workflow), http.MethodPut, "/cakes/99/",
			`{"name":"Victoria Sponge","comment":"Light.","imageUrl":"https://example.com/s.png","yumFactor":4}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Could not update the cake. Please try again.", body["error"])
	})
}

func TestCakeHandler_DeleteCake(t *testing.T) {
	t.Run("passes the delete response through", func(t *testing.T) {
		workflow := new(mockWorkflow)
		workflow.On("DeleteCake", mock.Anything, "7").Return(&model.Envelope{
			StatusCode: http.StatusOK,
			Content:    map[string]interface{}{"id": float64(7), "name": "Victoria Sponge"},
		}, nil)

		rec := doRequest(newRouter(workflow), http.MethodDelete, "/cakes/7/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(7), body["id"])
		workflow.AssertExpectations(t)
	})
}
