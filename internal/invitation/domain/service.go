package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
)

// CreateCompanyInvitationRequest carries the fields an admin supplies
// when inviting a new company.
type CreateCompanyInvitationRequest struct {
	CompanyName  string       `json:"company_name"`
	ContactEmail string       `json:"contact_email"`
	CNPJ         *string      `json:"cnpj,omitempty"`
	Headcount    *int         `json:"headcount,omitempty"`
	AccessDays   *int         `json:"access_days,omitempty"`
	ValidityDays *int         `json:"validity_days,omitempty"`
	AdminID      snowflake.ID `json:"-"`
}

// CreateEmployeeInvitationRequest carries the fields a company supplies
// when inviting an employee.
type CreateEmployeeInvitationRequest struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         *string      `json:"role,omitempty"`
	Department   *string      `json:"department,omitempty"`
	ValidityDays *int         `json:"validity_days,omitempty"`
	CompanyID    snowflake.ID `json:"-"`
}

// CreatedInvitation is returned to the issuer after a create.
type CreatedInvitation struct {
	Token      string `json:"token"`
	Link       string `json:"link"`
	ValidUntil string `json:"valid_until"`
}

// AcceptCompanyInvitationRequest completes a company onboarding.
type AcceptCompanyInvitationRequest struct {
	Password string `json:"password"`
}

// AcceptEmployeeInvitationRequest completes an employee onboarding.
type AcceptEmployeeInvitationRequest struct {
	Password string `json:"password"`
}

// InvitationListing is the role-scoped view returned by List.
type InvitationListing struct {
	Company  []CompanyInvitation  `json:"company_invitations,omitempty"`
	Employee []EmployeeInvitation `json:"employee_invitations,omitempty"`
}

// PublicInvitation is the unauthenticated by-token view. It exposes
// only what the landing page needs to render the accept form.
type PublicInvitation struct {
	Type        string  `json:"type"`
	CompanyName *string `json:"company_name,omitempty"`
	Name        *string `json:"name,omitempty"`
	Email       string  `json:"email"`
	ValidUntil  string  `json:"valid_until"`
}

// Service is the invitation lifecycle: issue, inspect, redeem, revoke.
type Service interface {
	CreateCompanyInvitation(ctx context.Context, req CreateCompanyInvitationRequest) (*CreatedInvitation, error)
	CreateEmployeeInvitation(ctx context.Context, req CreateEmployeeInvitationRequest) (*CreatedInvitation, error)

	GetByToken(ctx context.Context, kind, token string) (*PublicInvitation, error)

	AcceptCompanyInvitation(ctx context.Context, token string, req AcceptCompanyInvitationRequest) (*companydomain.Company, error)
	AcceptEmployeeInvitation(ctx context.Context, token string, req AcceptEmployeeInvitationRequest) (*employeedomain.Employee, error)

	ListForAdmin(ctx context.Context) (*InvitationListing, error)
	ListForCompany(ctx context.Context, companyID snowflake.ID) (*InvitationListing, error)

	CancelCompanyInvitation(ctx context.Context, token string, adminID snowflake.ID) error
	CancelEmployeeInvitation(ctx context.Context, token string, companyID snowflake.ID) error
}
