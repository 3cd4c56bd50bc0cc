package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
)

// respondError maps a service error onto the response envelope. Only
// messages carried by domain errors reach the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	if log == nil {
		log = logger.NewNop()
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(verr.Fields))
		return
	}

	var message string
	var derr *domain.Error
	if errors.As(err, &derr) {
		message = derr.Message
	}

	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, response.InvalidTransition(message))
	case errors.Is(err, domain.ErrValidation):
		if message == "" {
			message = "Invalid request"
		}
		c.JSON(http.StatusBadRequest, response.BadRequest(message))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, response.NotFound(message))
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, response.Conflict(message))
	case errors.Is(err, domain.ErrUnavailable):
		log.WarnContext(ctx, "dependency unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
	default:
		log.ErrorContext(ctx, "request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError(""))
	}
}

// respondBindError reports a request that failed to bind. Validator
// failures are listed per field; anything else is a malformed body.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describeTag(fe)
		}
		c.JSON(http.StatusBadRequest, response.ValidationFailed(details))
		return
	}
	c.JSON(http.StatusBadRequest, response.BadRequest("Malformed request body"))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// RegisterFieldNames makes validator errors report json or form field
// names instead of Go struct field names.
func RegisterFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}
