package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json name so
// error payloads match the request body.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the classified error. Unclassified errors are logged
// and hidden behind a generic message.
func respondError(c *gin.Context, log logger.Logger, action string, err error) {
	status := statusFor(err)
	requestID := logger.RequestID(c.Request.Context())
	if status == http.StatusInternalServerError {
		log.Error(action, "Request failed", requestID, map[string]any{"path": c.FullPath()}, err)
		c.JSON(status, ErrorResponse{Message: "internal server error"})
		return
	}
	log.Debug(action, err.Error(), requestID, map[string]any{"status": status})
	c.JSON(status, ErrorResponse{Message: err.Error()})
}

// respondBindError reports a body or query that failed to decode or
// validate.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, len(fieldErrs))
		for i, fe := range fieldErrs {
			out[i] = ValidationError{Field: fieldPath(fe), Message: describeTag(fe)}
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "validation failed", Errors: out})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  []ValidationError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}},
		})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
}

// fieldPath drops the struct name validator puts in front of the path.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
