package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/meetscribe/errors"
)

// RespondWithError renders err as the JSON error body. Errors that are not
// *apperrors.AppError become a generic 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondJSON sends v with the given status.
func RespondJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// RespondRaw sends body unchanged with the given status and content type.
func RespondRaw(c *gin.Context, status int, contentType string, body []byte) {
	c.Data(status, contentType, body)
}
