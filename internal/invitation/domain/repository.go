package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists both invitation ledgers.
type Repository interface {
	CreateCompanyInvitation(ctx context.Context, inv *CompanyInvitation) error
	CreateEmployeeInvitation(ctx context.Context, inv *EmployeeInvitation) error

	FindCompanyInvitationByToken(ctx context.Context, token string) (*CompanyInvitation, error)
	FindEmployeeInvitationByToken(ctx context.Context, token string) (*EmployeeInvitation, error)

	ListCompanyInvitations(ctx context.Context) ([]CompanyInvitation, error)
	ListEmployeeInvitationsByCompany(ctx context.Context, companyID snowflake.ID) ([]EmployeeInvitation, error)

	// UpdateCompanyInvitationStatus flips status from one state to
	// another and reports whether any row changed. A false return means
	// the invitation was concurrently consumed or cancelled.
	UpdateCompanyInvitationStatus(ctx context.Context, id snowflake.ID, from, to string) (bool, error)
	UpdateEmployeeInvitationStatus(ctx context.Context, id snowflake.ID, from, to string) (bool, error)
}
