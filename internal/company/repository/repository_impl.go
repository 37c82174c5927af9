package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/evalia-hr/evalia/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByContactEmail(ctx context.Context, email string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).Where("contact_email = ?", email).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}
