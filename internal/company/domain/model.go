// Package domain contains core types for company tenants.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var ErrCompanyNotFound = errors.New("company not found")

// Company is the tenant principal. It is created through invitation
// acceptance and never hard-deleted; deactivation flips Active.
type Company struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Slug         string       `gorm:"type:text;not null;index" json:"slug"`
	ContactEmail string       `gorm:"column:contact_email;type:text;not null;uniqueIndex:ux_companies_contact_email" json:"contact_email"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	CNPJ         *string      `gorm:"column:cnpj;type:text" json:"cnpj,omitempty"`
	Headcount    *int         `gorm:"column:headcount" json:"headcount,omitempty"`
	AccessDays   *int         `gorm:"column:access_days" json:"access_days,omitempty"`
	// ExpiresAt is nil for unlimited access.
	ExpiresAt *time.Time        `gorm:"column:expires_at" json:"expires_at,omitempty"`
	AdminID   *snowflake.ID     `gorm:"column:admin_id;index" json:"admin_id,omitempty"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByContactEmail(ctx context.Context, email string) (*Company, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Company, error)
}
