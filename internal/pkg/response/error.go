package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/apperror"
)

// DefaultMessage is used when an AppError carries no user-facing text.
const DefaultMessage = "something went wrong, please try again"

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// AppErrors decide their own status code; anything else is a 500 and is
// attached to the gin context for the request logger.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		msg := appErr.Message
		if msg == "" {
			msg = DefaultMessage
		}
		if appErr.Err != nil {
			_ = c.Error(appErr.Err)
		}
		c.JSON(appErr.Code, ErrorResponse{Error: msg})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
