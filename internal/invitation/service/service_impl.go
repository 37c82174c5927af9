package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/evalia-hr/evalia/internal/auth/password"
	"github.com/evalia-hr/evalia/internal/clock"
	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	"github.com/evalia-hr/evalia/internal/config"
	"github.com/evalia-hr/evalia/internal/course"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
	"github.com/evalia-hr/evalia/internal/invitation/domain"
	"github.com/evalia-hr/evalia/internal/providers/email"
	"github.com/evalia-hr/evalia/pkg/db"
)

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	companies companydomain.Repository
	employees employeedomain.Repository
	courses   *course.Seeder
	email     email.Provider
	genID     *snowflake.Node
	clock     clock.Clock

	baseURL          string
	headcountCeiling int
}

func New(
	log *zap.Logger,
	cfg config.Config,
	repo domain.Repository,
	companies companydomain.Repository,
	employees employeedomain.Repository,
	courses *course.Seeder,
	emailProvider email.Provider,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &Service{
		log:              log.Named("invitation.service"),
		repo:             repo,
		companies:        companies,
		employees:        employees,
		courses:          courses,
		email:            emailProvider,
		genID:            genID,
		clock:            clk,
		baseURL:          cfg.BaseURL,
		headcountCeiling: cfg.HeadcountCeiling,
	}
}

func (s *Service) CreateCompanyInvitation(ctx context.Context, req domain.CreateCompanyInvitationRequest) (*domain.CreatedInvitation, error) {
	contactEmail, err := normalizeEmail(req.ContactEmail)
	if err != nil {
		return nil, domain.ErrEmailRegistered
	}

	validity, err := resolveValidity(req.ValidityDays, domain.CompanyValidityDefault, domain.CompanyValidityMax)
	if err != nil {
		return nil, err
	}

	if _, err := s.companies.FindByContactEmail(ctx, contactEmail); err == nil {
		return nil, domain.ErrEmailRegistered
	} else if !errors.Is(err, companydomain.ErrCompanyNotFound) {
		return nil, err
	}

	if req.Headcount != nil && *req.Headcount > s.headcountCeiling {
		return nil, &domain.HeadcountCeilingError{
			Requested: *req.Headcount,
			Ceiling:   s.headcountCeiling,
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	inv := &domain.CompanyInvitation{
		ID:           s.genID.Generate(),
		Token:        token,
		CompanyName:  strings.TrimSpace(req.CompanyName),
		ContactEmail: contactEmail,
		CNPJ:         req.CNPJ,
		Headcount:    req.Headcount,
		AccessDays:   req.AccessDays,
		AdminID:      req.AdminID,
		Status:       domain.StatusPending,
		ValidUntil:   now.AddDate(0, 0, validity),
		CreatedAt:    now,
	}
	if err := s.repo.CreateCompanyInvitation(ctx, inv); err != nil {
		return nil, err
	}

	link := s.baseURL + "/convite/empresa/" + token
	s.sendInviteEmail(contactEmail, "Convite para a plataforma Evalia",
		fmt.Sprintf("<p>Sua empresa <strong>%s</strong> foi convidada para a plataforma Evalia.</p><p><a href=%q>Aceitar convite</a></p><p>O convite expira em %s.</p>",
			inv.CompanyName, link, inv.ValidUntil.Format("02/01/2006")))

	s.log.Info("company invitation created",
		zap.String("contact_email", contactEmail),
		zap.String("admin_id", req.AdminID.String()),
		zap.Int("validity_days", validity))

	return &domain.CreatedInvitation{
		Token:      token,
		Link:       link,
		ValidUntil: inv.ValidUntil.Format(time.RFC3339),
	}, nil
}

func (s *Service) CreateEmployeeInvitation(ctx context.Context, req domain.CreateEmployeeInvitationRequest) (*domain.CreatedInvitation, error) {
	addr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrEmailRegistered
	}

	validity, err := resolveValidity(req.ValidityDays, domain.EmployeeValidityDefault, domain.EmployeeValidityMax)
	if err != nil {
		return nil, err
	}

	if _, err := s.employees.FindByEmail(ctx, addr); err == nil {
		return nil, domain.ErrEmailRegistered
	} else if !errors.Is(err, employeedomain.ErrEmployeeNotFound) {
		return nil, err
	}

	count, err := s.employees.CountByCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if count+1 > int64(s.headcountCeiling) {
		return nil, &domain.HeadcountCeilingError{
			Current:   count,
			Requested: 1,
			Ceiling:   s.headcountCeiling,
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	inv := &domain.EmployeeInvitation{
		ID:         s.genID.Generate(),
		Token:      token,
		Name:       strings.TrimSpace(req.Name),
		Email:      addr,
		Role:       req.Role,
		Department: req.Department,
		CompanyID:  req.CompanyID,
		Status:     domain.StatusPending,
		ValidUntil: now.AddDate(0, 0, validity),
		CreatedAt:  now,
	}
	if err := s.repo.CreateEmployeeInvitation(ctx, inv); err != nil {
		return nil, err
	}

	companyName := "sua empresa"
	if company, err := s.companies.FindByID(ctx, req.CompanyID); err == nil {
		companyName = company.Name
	}

	link := s.baseURL + "/convite/colaborador/" + token
	s.sendInviteEmail(addr, "Convite para a plataforma Evalia",
		fmt.Sprintf("<p>Olá %s,</p><p>Você foi convidado(a) por <strong>%s</strong> a participar da plataforma Evalia.</p><p><a href=%q>Aceitar convite</a></p><p>O convite expira em %s.</p>",
			inv.Name, companyName, link, inv.ValidUntil.Format("02/01/2006")))

	s.log.Info("employee invitation created",
		zap.String("email", addr),
		zap.String("company_id", req.CompanyID.String()),
		zap.Int("validity_days", validity))

	return &domain.CreatedInvitation{
		Token:      token,
		Link:       link,
		ValidUntil: inv.ValidUntil.Format(time.RFC3339),
	}, nil
}

func (s *Service) GetByToken(ctx context.Context, kind, token string) (*domain.PublicInvitation, error) {
	now := s.clock.Now().UTC()

	switch kind {
	case "company":
		inv, err := s.repo.FindCompanyInvitationByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if !domain.Redeemable(inv.Status, inv.ValidUntil, now) {
			return nil, domain.ErrInviteNotFound
		}
		return &domain.PublicInvitation{
			Type:        "company",
			CompanyName: &inv.CompanyName,
			Email:       inv.ContactEmail,
			ValidUntil:  inv.ValidUntil.Format(time.RFC3339),
		}, nil
	case "employee":
		inv, err := s.repo.FindEmployeeInvitationByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if !domain.Redeemable(inv.Status, inv.ValidUntil, now) {
			return nil, domain.ErrInviteNotFound
		}
		return &domain.PublicInvitation{
			Type:       "employee",
			Name:       &inv.Name,
			Email:      inv.Email,
			ValidUntil: inv.ValidUntil.Format(time.RFC3339),
		}, nil
	default:
		return nil, domain.ErrInviteNotFound
	}
}

func (s *Service) AcceptCompanyInvitation(ctx context.Context, token string, req domain.AcceptCompanyInvitationRequest) (*companydomain.Company, error) {
	inv, err := s.repo.FindCompanyInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if !domain.Redeemable(inv.Status, inv.ValidUntil, now) {
		return nil, domain.ErrInviteNotFound
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if inv.AccessDays != nil && *inv.AccessDays > 0 {
		t := now.AddDate(0, 0, *inv.AccessDays)
		expiresAt = &t
	}

	company := &companydomain.Company{
		ID:           s.genID.Generate(),
		Name:         inv.CompanyName,
		Slug:         slug.Make(inv.CompanyName),
		ContactEmail: inv.ContactEmail,
		PasswordHash: hashed,
		CNPJ:         inv.CNPJ,
		Headcount:    inv.Headcount,
		AccessDays:   inv.AccessDays,
		ExpiresAt:    expiresAt,
		AdminID:      &inv.AdminID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The account insert comes before the status flip so that a crash
	// between the two leaves a usable account and a stale pending row,
	// never the reverse.
	if err := s.companies.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailRegistered
		}
		return nil, err
	}

	flipped, err := s.repo.UpdateCompanyInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusAccepted)
	if err != nil {
		s.log.Error("company invitation status flip failed after account creation",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err))
	} else if !flipped {
		s.log.Warn("company invitation already consumed, keeping created account",
			zap.String("invitation_id", inv.ID.String()))
	}

	s.sendInviteEmail(company.ContactEmail, "Bem-vindo à plataforma Evalia",
		fmt.Sprintf("<p>A conta da empresa <strong>%s</strong> foi criada com sucesso.</p>", company.Name))

	s.log.Info("company invitation accepted",
		zap.String("company_id", company.ID.String()),
		zap.String("contact_email", company.ContactEmail))

	return company, nil
}

func (s *Service) AcceptEmployeeInvitation(ctx context.Context, token string, req domain.AcceptEmployeeInvitationRequest) (*employeedomain.Employee, error) {
	inv, err := s.repo.FindEmployeeInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if !domain.Redeemable(inv.Status, inv.ValidUntil, now) {
		return nil, domain.ErrInviteNotFound
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &employeedomain.Employee{
		ID:           s.genID.Generate(),
		Name:         inv.Name,
		Email:        inv.Email,
		PasswordHash: hashed,
		CompanyID:    inv.CompanyID,
		Role:         inv.Role,
		Department:   inv.Department,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailRegistered
		}
		return nil, err
	}

	s.courses.SeedAvailability(ctx, employee.ID, employee.CompanyID)

	flipped, err := s.repo.UpdateEmployeeInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusAccepted)
	if err != nil {
		s.log.Error("employee invitation status flip failed after account creation",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err))
	} else if !flipped {
		s.log.Warn("employee invitation already consumed, keeping created account",
			zap.String("invitation_id", inv.ID.String()))
	}

	s.sendInviteEmail(employee.Email, "Bem-vindo à plataforma Evalia",
		fmt.Sprintf("<p>Olá %s, sua conta foi criada com sucesso.</p>", employee.Name))

	s.log.Info("employee invitation accepted",
		zap.String("employee_id", employee.ID.String()),
		zap.String("company_id", employee.CompanyID.String()))

	return employee, nil
}

// ListForAdmin returns every company invitation plus every employee
// invitation across tenants.
func (s *Service) ListForAdmin(ctx context.Context) (*domain.InvitationListing, error) {
	companyInvs, err := s.repo.ListCompanyInvitations(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.InvitationListing{Company: companyInvs}, nil
}

func (s *Service) ListForCompany(ctx context.Context, companyID snowflake.ID) (*domain.InvitationListing, error) {
	employeeInvs, err := s.repo.ListEmployeeInvitationsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &domain.InvitationListing{Employee: employeeInvs}, nil
}

func (s *Service) CancelCompanyInvitation(ctx context.Context, token string, adminID snowflake.ID) error {
	inv, err := s.repo.FindCompanyInvitationByToken(ctx, token)
	if errors.Is(err, domain.ErrInviteNotFound) {
		return domain.ErrInviteNotOwned
	}
	if err != nil {
		return err
	}
	if inv.AdminID != adminID {
		return domain.ErrInviteNotOwned
	}

	cancelled, err := s.repo.UpdateCompanyInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		return err
	}
	if !cancelled {
		return domain.ErrInviteNotOwned
	}

	s.log.Info("company invitation cancelled",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("admin_id", adminID.String()))
	return nil
}

func (s *Service) CancelEmployeeInvitation(ctx context.Context, token string, companyID snowflake.ID) error {
	inv, err := s.repo.FindEmployeeInvitationByToken(ctx, token)
	if errors.Is(err, domain.ErrInviteNotFound) {
		return domain.ErrInviteNotOwned
	}
	if err != nil {
		return err
	}
	if inv.CompanyID != companyID {
		return domain.ErrInviteNotOwned
	}

	cancelled, err := s.repo.UpdateEmployeeInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		return err
	}
	if !cancelled {
		return domain.ErrInviteNotOwned
	}

	s.log.Info("employee invitation cancelled",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}

// sendInviteEmail fires the delivery in the background. An invitation
// is created whether or not the email goes out; the link can always be
// copied from the create response.
func (s *Service) sendInviteEmail(to, subject, body string) {
	go func() {
		if err := s.email.Send(context.Background(), []string{to}, subject, body); err != nil {
			s.log.Error("invitation email delivery failed",
				zap.String("to", to),
				zap.Error(err))
		}
	}()
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func resolveValidity(requested *int, def, max int) (int, error) {
	if requested == nil {
		return def, nil
	}
	if *requested < 1 || *requested > max {
		return 0, domain.ErrInvalidValidity
	}
	return *requested, nil
}
