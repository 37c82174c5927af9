package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/evalia-hr/evalia/internal/auth/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotRequest struct {
	Email string `json:"email"`
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		AbortWithError(c, newValidationError("email", "invalid_email", "a valid email is required"))
		return
	}
	if len(req.Password) < 6 {
		AbortWithError(c, newValidationError("password", "too_short", "password must be at least 6 characters"))
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) RegisterAdmin(c *gin.Context) {
	var req RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		AbortWithError(c, newValidationError("email", "invalid_email", "a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		AbortWithError(c, newValidationError("password", "weak_password", "password must be at least 8 characters"))
		return
	}

	result, err := s.authsvc.RegisterAdmin(c.Request.Context(), authdomain.RegisterAdminRequest{
		Name:     req.Name,
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Check echoes the verified claims so clients can restore a session
// from a stored token.
func (s *Server) Check(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":          claims.Subject,
			"email":       claims.Email,
			"role":        claims.Role,
			"company_id":  claims.CompanyID,
			"employee_id": claims.EmployeeID,
		},
	})
}

// Forgot always answers the same message so the endpoint cannot be used
// to probe which emails exist.
func (s *Server) Forgot(c *gin.Context) {
	var req ForgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.authsvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "if the email exists, recovery instructions were sent",
	})
}

func validEmail(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := mail.ParseAddress(raw)
	return err == nil
}
