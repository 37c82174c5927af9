package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	admindomain "github.com/evalia-hr/evalia/internal/admin/domain"
	authdomain "github.com/evalia-hr/evalia/internal/auth/domain"
	"github.com/evalia-hr/evalia/internal/auth/token"
	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
	invitationdomain "github.com/evalia-hr/evalia/internal/invitation/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
	ErrRateLimited  = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var ceiling *invitationdomain.HeadcountCeilingError
	if errors.As(err, &ceiling) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "headcount_ceiling",
			Message: ceiling.Error(),
		}
	}

	switch {
	case errors.Is(err, invitationdomain.ErrInvalidValidity):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "validity_days", Code: "out_of_range", Message: "validity days out of range"},
			},
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, invitationdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, invitationdomain.ErrInviteNotFound):
		// Expired, consumed and unknown tokens all answer the same.
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "invitation not found or expired",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, authdomain.ErrEmailTaken),
		errors.Is(err, invitationdomain.ErrEmailRegistered):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "email already registered",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invitationdomain.ErrInviteNotOwned),
		errors.Is(err, admindomain.ErrAdminNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, employeedomain.ErrEmployeeNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
