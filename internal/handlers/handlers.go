package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every handler error as the common error envelope
func ErrorHandler(rv *common.RequestValidator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code := common.StatusFromError(err)
		message := err.Error()
		var details map[string]string

		var validationErrs validator.ValidationErrors
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &validationErrs):
			message = "Validation failed"
			details = rv.FieldErrors(validationErrs)
		case errors.As(err, &httpErr):
			message = fmt.Sprint(httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context()).Error("request failed", zap.Error(err))
			message = "Internal server error"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, common.CreateErrorResponse(code, message, details))
		}
		if err != nil {
			logger.FromContext(c.Request().Context()).Warn("failed to write error response", zap.Error(err))
		}
	}
}

// bindAndValidate decodes the body into req and runs the struct validation
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrInvalidInput)
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param("id"), "id")
}

// scope returns the acting organization and the :id path parameter
func scope(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	orgID, err := common.RequireOrganization(c.Request().Context())
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return orgID, id, nil
}

func organization(c echo.Context) (uuid.UUID, error) {
	return common.RequireOrganization(c.Request().Context())
}

func listResult[T any](items []T, total int, page models.Pagination) models.ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return models.ListResult[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}
