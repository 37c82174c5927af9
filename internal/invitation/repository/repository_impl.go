package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/evalia-hr/evalia/internal/invitation/domain"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CreateCompanyInvitation(ctx context.Context, inv *domain.CompanyInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repo) CreateEmployeeInvitation(ctx context.Context, inv *domain.EmployeeInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repo) FindCompanyInvitationByToken(ctx context.Context, token string) (*domain.CompanyInvitation, error) {
	var inv domain.CompanyInvitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) FindEmployeeInvitationByToken(ctx context.Context, token string) (*domain.EmployeeInvitation, error) {
	var inv domain.EmployeeInvitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) ListCompanyInvitations(ctx context.Context) ([]domain.CompanyInvitation, error) {
	var invs []domain.CompanyInvitation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repo) ListEmployeeInvitationsByCompany(ctx context.Context, companyID snowflake.ID) ([]domain.EmployeeInvitation, error) {
	var invs []domain.EmployeeInvitation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repo) UpdateCompanyInvitationStatus(ctx context.Context, id snowflake.ID, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.CompanyInvitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) UpdateEmployeeInvitationStatus(ctx context.Context, id snowflake.ID, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.EmployeeInvitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}
