// Package domain contains core types for company employees.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// Employee is bound to exactly one company for its whole lifetime.
type Employee struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_employees_email" json:"email"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	CompanyID    snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id"`
	Role         *string      `gorm:"type:text" json:"role,omitempty"`
	Department   *string      `gorm:"type:text" json:"department,omitempty"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "employees" }

type Repository interface {
	Create(ctx context.Context, employee *Employee) error
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	CountByCompany(ctx context.Context, companyID snowflake.ID) (int64, error)
}
