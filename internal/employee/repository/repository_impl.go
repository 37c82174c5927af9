package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/evalia-hr/evalia/internal/employee/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repo) CountByCompany(ctx context.Context, companyID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
