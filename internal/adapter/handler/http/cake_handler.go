// Package http contains the gateway's HTTP handlers.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/domain/model"
	"github.com/garrywilliams/cake/internal/usecase"
	apperrors "github.com/garrywilliams/cake/pkg/errors"
)

// passthroughSkipHeaders are not copied from downstream envelopes; echo and
// the HTTP stack manage these for the outbound response.
var passthroughSkipHeaders = map[string]struct{}{
	"Content-Length":    {},
	"Content-Type":      {},
	"Transfer-Encoding": {},
	"Connection":        {},
	"Date":              {},
}

// CakeHandler exposes the cake workflows over HTTP.
type CakeHandler struct {
	workflow usecase.CakeWorkflow
	logger   *zap.Logger
}

// NewCakeHandler creates a new cake handler.
func NewCakeHandler(workflow usecase.CakeWorkflow, logger *zap.Logger) *CakeHandler {
	return &CakeHandler{
		workflow: workflow,
		logger:   logger,
	}
}

// RegisterRoutes registers the cake routes on the Echo router.
func (h *CakeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cakes/", h.ListCakes)
	e.POST("/cakes/", h.CreateCake)
	e.GET("/cakes/:id/", h.GetCake)
	e.PUT("/cakes/:id/", h.UpdateCake)
	e.DELETE("/cakes/:id/", h.DeleteCake)
}

// ListCakes returns the catalog listing. skip and limit paginate the result.
func (h *CakeHandler) ListCakes(c echo.Context) error {
	skip := c.QueryParam("skip")
	if skip == "" {
		skip = "0"
	}
	limit := c.QueryParam("limit")
	if limit == "" {
		limit = "10"
	}

	envelope, err := h.workflow.ListCakes(c.Request().Context(), skip, limit)
	if err != nil {
		return h.renderError(c, err)
	}

	return h.respond(c, envelope)
}

// CreateCake adds a new cake after the image passes classification.
func (h *CakeHandler) CreateCake(c echo.Context) error {
	payload := map[string]interface{}{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body.",
		})
	}

	envelope, err := h.workflow.CreateCake(c.Request().Context(), payload)
	if err != nil {
		return h.renderError(c, err)
	}

	return h.respond(c, envelope)
}

// GetCake returns one cake from the catalog.
func (h *CakeHandler) GetCake(c echo.Context) error {
	envelope, err := h.workflow.ReadCake(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.renderError(c, err)
	}

	return h.respond(c, envelope)
}

// UpdateCake changes an existing cake.
func (h *CakeHandler) UpdateCake(c echo.Context) error {
	payload := map[string]interface{}{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body.",
		})
	}

	envelope, err := h.workflow.UpdateCake(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return h.renderError(c, err)
	}

	return h.respond(c, envelope)
}

// DeleteCake removes a cake from the catalog.
func (h *CakeHandler) DeleteCake(c echo.Context) error {
	envelope, err := h.workflow.DeleteCake(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.renderError(c, err)
	}

	return h.respond(c, envelope)
}

// respond writes a downstream envelope back to the client: headers, status
// and content pass through unmodified.
func (h *CakeHandler) respond(c echo.Context, envelope *model.Envelope) error {
	for name, value := range envelope.Headers {
		if _, skip := passthroughSkipHeaders[http.CanonicalHeaderKey(name)]; skip {
			continue
		}
		c.Response().Header().Set(name, value)
	}

	if text, ok := envelope.Content.(string); ok {
		return c.String(envelope.StatusCode, text)
	}

	return c.JSON(envelope.StatusCode, envelope.Content)
}

// renderError maps workflow errors onto the error body contract.
func (h *CakeHandler) renderError(c echo.Context, err error) error {
	var validationErr *usecase.ValidationError
	if apperrors.As(err, &validationErr) {
		return c.JSON(http.StatusUnprocessableEntity, validationErr.Fields)
	}

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return c.JSON(apperrors.ToHTTPStatus(appErr.Code()), map[string]string{
			"error": appErr.Message(),
		})
	}

	apperrors.LogError(h.logger, err, "unhandled workflow error",
		zap.String("path", c.Request().URL.Path))
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Something went wrong. Please try again.",
	})
}
