package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
)

// HandleError maps an error to its HTTP status and response body. Unknown errors are
// logged and answered with the generic fallback message.
func HandleError(err error, fallback string) (int, gin.H) {
	var status int
	var msg string

	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status, msg = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, apperror.ErrValidation):
		status, msg = http.StatusUnprocessableEntity, "Invalid request data passed"
	case errors.Is(err, apperror.ErrConflict):
		status, msg = http.StatusConflict, "Already exists"
	case errors.Is(err, apperror.ErrBadRequest):
		status, msg = http.StatusBadRequest, "Bad request"
	default:
		log.Printf("❌ %v", err)
		return http.StatusInternalServerError, gin.H{"error": fallback}
	}

	var pub *apperror.Public
	if errors.As(err, &pub) {
		msg = pub.Message
	}
	return status, gin.H{"error": msg}
}

func respondError(c *gin.Context, err error, fallback string) {
	status, body := HandleError(err, fallback)
	c.JSON(status, body)
}

// respondInvalid answers a request body that failed binding with 422.
func respondInvalid(c *gin.Context, err error, msg string) {
	body := gin.H{"error": msg}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		body["fields"] = fields
	}
	c.JSON(http.StatusUnprocessableEntity, body)
}
