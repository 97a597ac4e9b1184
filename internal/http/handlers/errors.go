package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopadmin/internal/domain"
	"shopadmin/internal/http/middleware"
	"shopadmin/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain and query errors to HTTP responses.
func (h *Handlers) RespondDomainError(c *gin.Context, err error) {
	var (
		badFormat  query.BadFormatError
		noField    query.FieldNotFoundError
		validation domain.ValidationError
	)
	switch {
	case errors.As(err, &badFormat):
		respondError(c, http.StatusBadRequest, "bad_format", err.Error(), nil)
	case errors.As(err, &noField):
		respondError(c, http.StatusBadRequest, "field_not_found", err.Error(), gin.H{"field": noField.Field})
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), []FieldViolation{{Field: validation.Field, Rule: "domain"}})
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		h.Log.Error("request failed",
			"error", err,
			"request_id", middleware.GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

// respondBindError reports malformed JSON and failed binding rules as 400.
func respondBindError(c *gin.Context, err error) {
	var (
		verrs     validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		details := make([]FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldViolation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		respondError(c, http.StatusBadRequest, "validation_error", "payload failed validation", details)
	case errors.As(err, &syntaxErr):
		respondError(c, http.StatusBadRequest, "bad_request", "malformed JSON body", nil)
	case errors.As(err, &typeErr):
		respondError(c, http.StatusBadRequest, "bad_request", "field "+typeErr.Field+" has the wrong type", nil)
	default:
		respondError(c, http.StatusBadRequest, "bad_request", "invalid payload: "+err.Error(), nil)
	}
}
