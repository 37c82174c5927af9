package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	authdomain "github.com/evalia-hr/evalia/internal/auth/domain"
	invitationdomain "github.com/evalia-hr/evalia/internal/invitation/domain"
)

type CreateCompanyInvitationRequest struct {
	CompanyName  string  `json:"company_name"`
	ContactEmail string  `json:"contact_email"`
	CNPJ         *string `json:"cnpj"`
	Headcount    *int    `json:"headcount"`
	AccessDays   *int    `json:"access_days"`
	ValidityDays *int    `json:"validity_days"`
}

type CreateEmployeeInvitationRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         *string `json:"role"`
	Department   *string `json:"department"`
	ValidityDays *int    `json:"validity_days"`
}

type AcceptInvitationRequest struct {
	Password string `json:"password"`
}

func (s *Server) CreateCompanyInvitation(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	adminID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req CreateCompanyInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.CompanyName) == "" {
		AbortWithError(c, newValidationError("company_name", "required", "company name is required"))
		return
	}
	if !validEmail(strings.TrimSpace(req.ContactEmail)) {
		AbortWithError(c, newValidationError("contact_email", "invalid_email", "a valid email is required"))
		return
	}

	created, err := s.invitationsvc.CreateCompanyInvitation(c.Request.Context(), invitationdomain.CreateCompanyInvitationRequest{
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		CNPJ:         req.CNPJ,
		Headcount:    req.Headcount,
		AccessDays:   req.AccessDays,
		ValidityDays: req.ValidityDays,
		AdminID:      adminID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) CreateEmployeeInvitation(c *gin.Context) {
	companyID, ok := s.companyIDFromClaims(c)
	if !ok {
		return
	}

	var req CreateEmployeeInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}
	if !validEmail(strings.TrimSpace(req.Email)) {
		AbortWithError(c, newValidationError("email", "invalid_email", "a valid email is required"))
		return
	}

	created, err := s.invitationsvc.CreateEmployeeInvitation(c.Request.Context(), invitationdomain.CreateEmployeeInvitationRequest{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Department:   req.Department,
		ValidityDays: req.ValidityDays,
		CompanyID:    companyID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetInvitationByToken is the unauthenticated landing-page lookup.
func (s *Server) GetInvitationByToken(c *gin.Context) {
	kind := strings.TrimSpace(c.Query("type"))
	if kind != "company" && kind != "employee" {
		AbortWithError(c, newValidationError("type", "invalid_type", "type must be company or employee"))
		return
	}

	inv, err := s.invitationsvc.GetByToken(c.Request.Context(), kind, c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (s *Server) AcceptCompanyInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Password) < 8 {
		AbortWithError(c, newValidationError("password", "weak_password", "password must be at least 8 characters"))
		return
	}

	company, err := s.invitationsvc.AcceptCompanyInvitation(c.Request.Context(), c.Param("token"), invitationdomain.AcceptCompanyInvitationRequest{
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

func (s *Server) AcceptEmployeeInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Password) < 8 {
		AbortWithError(c, newValidationError("password", "weak_password", "password must be at least 8 characters"))
		return
	}

	employee, err := s.invitationsvc.AcceptEmployeeInvitation(c.Request.Context(), c.Param("token"), invitationdomain.AcceptEmployeeInvitationRequest{
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// ListInvitations scopes by the caller's role: admins see the company
// ledger, companies see their own employee ledger.
func (s *Server) ListInvitations(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	switch claims.Role {
	case authdomain.RoleAdmin:
		listing, err := s.invitationsvc.ListForAdmin(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	case authdomain.RoleCompany:
		companyID, ok := s.companyIDFromClaims(c)
		if !ok {
			return
		}
		listing, err := s.invitationsvc.ListForCompany(c.Request.Context(), companyID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	default:
		AbortWithError(c, ErrForbidden)
	}
}

func (s *Server) CancelCompanyInvitation(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	adminID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.invitationsvc.CancelCompanyInvitation(c.Request.Context(), c.Param("token"), adminID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CancelEmployeeInvitation(c *gin.Context) {
	companyID, ok := s.companyIDFromClaims(c)
	if !ok {
		return
	}

	if err := s.invitationsvc.CancelEmployeeInvitation(c.Request.Context(), c.Param("token"), companyID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) companyIDFromClaims(c *gin.Context) (snowflake.ID, bool) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return 0, false
	}
	companyID, err := snowflake.ParseString(claims.CompanyID)
	if err != nil {
		AbortWithError(c, ErrForbidden)
		return 0, false
	}
	return companyID, true
}
