package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/medicarehq/booking-api/pkg/errors"
)

// ErrorBody is the wire shape of every error response: a flat message string.
type ErrorBody struct {
	Message string `json:"message"`
}

// RespondWithError maps an error to its HTTP status. AppErrors carry their own
// status; anything else is treated as an internal error.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, ErrorBody{Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Message: "internal server error"})
}

// RespondWithBindError turns a gin binding failure into a 400 with a readable
// field list when the failure came from validation.
func RespondWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.JSON(http.StatusBadRequest, ErrorBody{
			Message: "invalid request: " + strings.Join(fields, ", "),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorBody{Message: "invalid request body"})
}

// RespondWithMessage sends a bare message body with the given status.
func RespondWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Message: message})
}
