package handler

import (
	"errors"
	"net/http"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to an HTTP response. Historical-path
// errors map to a single error response; validation and lookup failures
// keep their reason, storage failures do not leak internals.
func writeError(c *gin.Context, err error) {
	var (
		notFound   *apperr.NotFoundError
		validation *apperr.ValidationError
		storage    *apperr.StorageError
	)

	switch {
	case errors.As(err, &validation):
		utils.SendErrorResponse(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		utils.SendErrorResponse(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &storage):
		utils.SendErrorResponse(c, http.StatusInternalServerError, "failed to query historical prices")
	default:
		utils.SendErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}
