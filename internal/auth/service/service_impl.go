package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	admindomain "github.com/evalia-hr/evalia/internal/admin/domain"
	"github.com/evalia-hr/evalia/internal/auth/domain"
	"github.com/evalia-hr/evalia/internal/auth/password"
	"github.com/evalia-hr/evalia/internal/auth/token"
	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
	"github.com/evalia-hr/evalia/pkg/db"
	"go.uber.org/zap"
)

type Service struct {
	log       *zap.Logger
	admins    admindomain.Repository
	companies companydomain.Repository
	employees employeedomain.Repository
	issuer    *token.Issuer
	genID     *snowflake.Node
}

func New(log *zap.Logger, admins admindomain.Repository, companies companydomain.Repository, employees employeedomain.Repository, issuer *token.Issuer, genID *snowflake.Node) domain.Service {
	return &Service{
		log:       log.Named("auth.service"),
		admins:    admins,
		companies: companies,
		employees: employees,
		issuer:    issuer,
		genID:     genID,
	}
}

// Login resolves an email across the three principal kinds. Emails are
// unique per kind, not globally, so the lookup order is a fixed
// precedence: company, then employee, then admin. A wrong password at
// the first matching kind fails immediately instead of falling through
// to the next kind.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if company, err := s.companies.FindByContactEmail(ctx, email); err == nil {
		if !password.Verify(req.Password, company.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		return s.issueFor(domain.PrincipalSummary{
			ID:        company.ID.String(),
			Email:     company.ContactEmail,
			Name:      company.Name,
			Role:      domain.RoleCompany,
			CompanyID: company.ID.String(),
		})
	} else if !errors.Is(err, companydomain.ErrCompanyNotFound) {
		return nil, err
	}

	if employee, err := s.employees.FindByEmail(ctx, email); err == nil {
		if !password.Verify(req.Password, employee.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		return s.issueFor(domain.PrincipalSummary{
			ID:         employee.ID.String(),
			Email:      employee.Email,
			Name:       employee.Name,
			Role:       domain.RoleEmployee,
			CompanyID:  employee.CompanyID.String(),
			EmployeeID: employee.ID.String(),
			JobTitle:   employee.Role,
			Department: employee.Department,
		})
	} else if !errors.Is(err, employeedomain.ErrEmployeeNotFound) {
		return nil, err
	}

	if admin, err := s.admins.FindByEmail(ctx, email); err == nil {
		if !password.Verify(req.Password, admin.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		return s.issueFor(domain.PrincipalSummary{
			ID:    admin.ID.String(),
			Email: admin.Email,
			Name:  admin.Name,
			Role:  domain.RoleAdmin,
		})
	} else if !errors.Is(err, admindomain.ErrAdminNotFound) {
		return nil, err
	}

	return nil, domain.ErrInvalidCredentials
}

func (s *Service) RegisterAdmin(ctx context.Context, req domain.RegisterAdminRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, admindomain.ErrAdminNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := &admindomain.Admin{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return s.issueFor(domain.PrincipalSummary{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
		Role:  domain.RoleAdmin,
	})
}

// ForgotPassword deliberately responds the same whether or not the
// email exists anywhere; a hit is only logged for follow-up.
func (s *Service) ForgotPassword(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil
	}

	found := false
	if _, err := s.companies.FindByContactEmail(ctx, email); err == nil {
		found = true
	}
	if !found {
		if _, err := s.employees.FindByEmail(ctx, email); err == nil {
			found = true
		}
	}
	if !found {
		if _, err := s.admins.FindByEmail(ctx, email); err == nil {
			found = true
		}
	}

	if found {
		s.log.Info("password recovery requested", zap.String("email", email))
	}
	return nil
}

func (s *Service) issueFor(principal domain.PrincipalSummary) (*domain.LoginResult, error) {
	claims := token.Claims{
		Email:      principal.Email,
		Role:       principal.Role,
		CompanyID:  principal.CompanyID,
		EmployeeID: principal.EmployeeID,
	}
	claims.Subject = principal.ID

	raw, expiresAt, err := s.issuer.Issue(claims)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		Token:     raw,
		ExpiresAt: expiresAt,
		Principal: principal,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}
