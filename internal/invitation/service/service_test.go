package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evalia-hr/evalia/internal/clock"
	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	companyrepo "github.com/evalia-hr/evalia/internal/company/repository"
	"github.com/evalia-hr/evalia/internal/config"
	"github.com/evalia-hr/evalia/internal/course"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
	employeerepo "github.com/evalia-hr/evalia/internal/employee/repository"
	"github.com/evalia-hr/evalia/internal/invitation/domain"
	invitationrepo "github.com/evalia-hr/evalia/internal/invitation/repository"
	"github.com/evalia-hr/evalia/internal/providers/email"
	"github.com/evalia-hr/evalia/pkg/db"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&companydomain.Company{},
		&employeedomain.Employee{},
		&domain.CompanyInvitation{},
		&domain.EmployeeInvitation{},
		&course.Availability{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	cfg := config.Config{
		BaseURL:          "http://localhost:5000",
		HeadcountCeiling: 5,
	}

	svc := New(
		log,
		cfg,
		invitationrepo.New(conn),
		companyrepo.New(conn),
		employeerepo.New(conn),
		course.NewSeeder(log, conn, node),
		&email.NoOpProvider{},
		node,
		fake,
	)

	return &fixture{svc: svc, db: conn, clock: fake, genID: node}
}

func (f *fixture) createCompany(t *testing.T) *companydomain.Company {
	t.Helper()
	created, err := f.svc.CreateCompanyInvitation(context.Background(), domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)

	company, err := f.svc.AcceptCompanyInvitation(context.Background(), created.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.NoError(t, err)
	return company
}

func TestCreateCompanyInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.genID.Generate()

	created, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "Contato@Horizonte.com.br",
		AdminID:      adminID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	require.Equal(t, "http://localhost:5000/convite/empresa/"+created.Token, created.Link)

	inv, err := f.svc.GetByToken(ctx, "company", created.Token)
	require.NoError(t, err)
	require.Equal(t, "company", inv.Type)
	require.Equal(t, "contato@horizonte.com.br", inv.Email)

	// Default validity is seven days.
	validUntil, err := time.Parse(time.RFC3339, inv.ValidUntil)
	require.NoError(t, err)
	require.Equal(t, f.clock.Now().AddDate(0, 0, 7), validUntil)
}

func TestCreateCompanyInvitationValidityBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.genID.Generate()

	for _, days := range []int{0, -1, 91} {
		d := days
		_, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
			CompanyName:  "Clinica Horizonte",
			ContactEmail: "contato@horizonte.com.br",
			ValidityDays: &d,
			AdminID:      adminID,
		})
		require.ErrorIs(t, err, domain.ErrInvalidValidity, "days=%d", days)
	}

	d := 90
	_, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		ValidityDays: &d,
		AdminID:      adminID,
	})
	require.NoError(t, err)
}

func TestCreateCompanyInvitationHeadcountCeiling(t *testing.T) {
	f := newFixture(t)

	headcount := 6
	_, err := f.svc.CreateCompanyInvitation(context.Background(), domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		Headcount:    &headcount,
		AdminID:      f.genID.Generate(),
	})

	var ceiling *domain.HeadcountCeilingError
	require.True(t, errors.As(err, &ceiling))
	require.Equal(t, 6, ceiling.Requested)
	require.Equal(t, 5, ceiling.Ceiling)
}

func TestCreateCompanyInvitationRejectsExistingEmail(t *testing.T) {
	f := newFixture(t)
	company := f.createCompany(t)

	_, err := f.svc.CreateCompanyInvitation(context.Background(), domain.CreateCompanyInvitationRequest{
		CompanyName:  "Outra Empresa",
		ContactEmail: company.ContactEmail,
		AdminID:      f.genID.Generate(),
	})
	require.ErrorIs(t, err, domain.ErrEmailRegistered)
}

func TestAcceptCompanyInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accessDays := 365
	created, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		AccessDays:   &accessDays,
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)

	company, err := f.svc.AcceptCompanyInvitation(ctx, created.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.NoError(t, err)
	require.Equal(t, "Clinica Horizonte", company.Name)
	require.Equal(t, "clinica-horizonte", company.Slug)
	require.True(t, company.Active)
	require.NotNil(t, company.ExpiresAt)
	require.Equal(t, f.clock.Now().AddDate(0, 0, accessDays), company.ExpiresAt.UTC())

	// Single use: the same token cannot be redeemed twice.
	_, err = f.svc.AcceptCompanyInvitation(ctx, created.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestAcceptCompanyInvitationExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.svc.AcceptCompanyInvitation(ctx, created.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.ErrorIs(t, err, domain.ErrInviteNotFound)

	_, err = f.svc.GetByToken(ctx, "company", created.Token)
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestCompanyInvitationOneDayValidityWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	days := 1

	expired, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Empresa Expirada",
		ContactEmail: "expirada@example.com",
		ValidityDays: &days,
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)

	fresh, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Empresa Fresca",
		ContactEmail: "fresca@example.com",
		ValidityDays: &days,
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)

	f.clock.Advance(12 * time.Hour)
	company, err := f.svc.AcceptCompanyInvitation(ctx, fresh.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.NoError(t, err)
	require.Equal(t, "fresca@example.com", company.ContactEmail)

	f.clock.Advance(36 * time.Hour)
	_, err = f.svc.AcceptCompanyInvitation(ctx, expired.Token, domain.AcceptCompanyInvitationRequest{
		Password: "Secreta1!",
	})
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestCreateEmployeeInvitationDefaultValidity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.createCompany(t)

	created, err := f.svc.CreateEmployeeInvitation(ctx, domain.CreateEmployeeInvitationRequest{
		Name:      "Maria Souza",
		Email:     "maria@horizonte.com.br",
		CompanyID: company.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/convite/colaborador/"+created.Token, created.Link)

	// Default validity is three days.
	validUntil, err := time.Parse(time.RFC3339, created.ValidUntil)
	require.NoError(t, err)
	require.Equal(t, f.clock.Now().AddDate(0, 0, 3), validUntil)

	f.clock.Advance(12 * time.Hour)
	employee, err := f.svc.AcceptEmployeeInvitation(ctx, created.Token, domain.AcceptEmployeeInvitationRequest{
		Password: "Secreta1!",
	})
	require.NoError(t, err)
	require.Equal(t, company.ID, employee.CompanyID)
	require.Equal(t, "maria@horizonte.com.br", employee.Email)

	// Acceptance provisions one locked availability row per course.
	var rows int64
	require.NoError(t, f.db.Model(&course.Availability{}).
		Where("employee_id = ?", employee.ID).
		Count(&rows).Error)
	require.Equal(t, int64(len(course.Catalog())), rows)
}

func TestAcceptEmployeeInvitationExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.createCompany(t)

	created, err := f.svc.CreateEmployeeInvitation(ctx, domain.CreateEmployeeInvitationRequest{
		Name:      "Maria Souza",
		Email:     "maria@horizonte.com.br",
		CompanyID: company.ID,
	})
	require.NoError(t, err)

	f.clock.Advance(4 * 24 * time.Hour)

	_, err = f.svc.AcceptEmployeeInvitation(ctx, created.Token, domain.AcceptEmployeeInvitationRequest{
		Password: "Secreta1!",
	})
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestCreateEmployeeInvitationHeadcountCeiling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.createCompany(t)

	// Fill the company up to the fixture ceiling of five seats.
	for i := 0; i < 5; i++ {
		employee := &employeedomain.Employee{
			ID:           f.genID.Generate(),
			Name:         "Colaborador",
			Email:        string(rune('a'+i)) + "@horizonte.com.br",
			PasswordHash: "x",
			CompanyID:    company.ID,
			Active:       true,
		}
		require.NoError(t, f.db.Create(employee).Error)
	}

	_, err := f.svc.CreateEmployeeInvitation(ctx, domain.CreateEmployeeInvitationRequest{
		Name:      "Maria Souza",
		Email:     "maria@horizonte.com.br",
		CompanyID: company.ID,
	})

	var ceiling *domain.HeadcountCeilingError
	require.True(t, errors.As(err, &ceiling))
	require.Equal(t, int64(5), ceiling.Current)
	require.Equal(t, 5, ceiling.Ceiling)
}

func TestListScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.createCompany(t)

	otherToken, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Outra Empresa",
		ContactEmail: "contato@outra.com.br",
		AdminID:      f.genID.Generate(),
	})
	require.NoError(t, err)
	require.NotNil(t, otherToken)

	_, err = f.svc.CreateEmployeeInvitation(ctx, domain.CreateEmployeeInvitationRequest{
		Name:      "Maria Souza",
		Email:     "maria@horizonte.com.br",
		CompanyID: company.ID,
	})
	require.NoError(t, err)

	// Admins see every company invitation, consumed ones included.
	adminView, err := f.svc.ListForAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, adminView.Company, 2)
	require.Empty(t, adminView.Employee)

	companyView, err := f.svc.ListForCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, companyView.Employee, 1)
	require.Empty(t, companyView.Company)

	otherView, err := f.svc.ListForCompany(ctx, f.genID.Generate())
	require.NoError(t, err)
	require.Empty(t, otherView.Employee)
}

func TestCancelCompanyInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.genID.Generate()

	created, err := f.svc.CreateCompanyInvitation(ctx, domain.CreateCompanyInvitationRequest{
		CompanyName:  "Clinica Horizonte",
		ContactEmail: "contato@horizonte.com.br",
		AdminID:      adminID,
	})
	require.NoError(t, err)

	// Another admin cannot see this invitation through cancel.
	err = f.svc.CancelCompanyInvitation(ctx, created.Token, f.genID.Generate())
	require.ErrorIs(t, err, domain.ErrInviteNotOwned)

	require.NoError(t, f.svc.CancelCompanyInvitation(ctx, created.Token, adminID))

	// Cancelled tokens behave like missing ones everywhere.
	_, err = f.svc.GetByToken(ctx, "company", created.Token)
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
	err = f.svc.CancelCompanyInvitation(ctx, created.Token, adminID)
	require.ErrorIs(t, err, domain.ErrInviteNotOwned)
}

func TestCancelEmployeeInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.createCompany(t)

	created, err := f.svc.CreateEmployeeInvitation(ctx, domain.CreateEmployeeInvitationRequest{
		Name:      "Maria Souza",
		Email:     "maria@horizonte.com.br",
		CompanyID: company.ID,
	})
	require.NoError(t, err)

	err = f.svc.CancelEmployeeInvitation(ctx, created.Token, f.genID.Generate())
	require.ErrorIs(t, err, domain.ErrInviteNotOwned)

	require.NoError(t, f.svc.CancelEmployeeInvitation(ctx, created.Token, company.ID))

	_, err = f.svc.AcceptEmployeeInvitation(ctx, created.Token, domain.AcceptEmployeeInvitationRequest{
		Password: "Secreta1!",
	})
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestGetByTokenUnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByToken(context.Background(), "partner", "whatever")
	require.ErrorIs(t, err, domain.ErrInviteNotFound)
}
