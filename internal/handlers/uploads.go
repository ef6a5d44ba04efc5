package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// uploadFormFile stores the multipart file field as a document of owner
func uploadFormFile(c echo.Context, documents services.DocumentService, orgID uuid.UUID, field, ownerType string, ownerID uuid.UUID) (*models.Document, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: upload exceeds the size limit", common.ErrPayloadTooLarge)
		}
		return nil, fmt.Errorf("%w: multipart field %q is required", common.ErrInvalidInput, field)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable upload", common.ErrInvalidInput)
	}
	defer file.Close()

	return documents.Upload(c.Request().Context(), orgID, services.UploadInput{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		FileName:  fh.Filename,
		Content:   file,
	})
}
