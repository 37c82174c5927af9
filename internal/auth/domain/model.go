// Package domain contains core types for the auth service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Principal roles carried in session tokens.
const (
	RoleAdmin    = "admin"
	RoleCompany  = "company"
	RoleEmployee = "employee"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
}

type LoginRequest struct {
	Email    string
	Password string
}

type RegisterAdminRequest struct {
	Email    string
	Name     string
	Password string
}

// PrincipalSummary is the caller-facing identity returned from login
// and registration. Password hashes never appear here.
type PrincipalSummary struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	CompanyID  string  `json:"company_id,omitempty"`
	EmployeeID string  `json:"employee_id,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	Department *string `json:"department,omitempty"`
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Principal PrincipalSummary `json:"user"`
}
