// Package domain contains the invitation ledger types. An invitation
// is a single-use, time-bounded token that materializes a new
// principal when redeemed.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCancelled = "cancelled"
)

// Validity bounds per flow, in days.
const (
	CompanyValidityDefault  = 7
	CompanyValidityMax      = 90
	EmployeeValidityDefault = 3
	EmployeeValidityMax     = 30
)

// CompanyInvitation is issued by an admin to onboard a new tenant.
type CompanyInvitation struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Token        string       `gorm:"type:text;not null;uniqueIndex:ux_company_invitations_token" json:"token"`
	CompanyName  string       `gorm:"column:company_name;type:text;not null" json:"company_name"`
	ContactEmail string       `gorm:"column:contact_email;type:text;not null" json:"contact_email"`
	CNPJ         *string      `gorm:"column:cnpj;type:text" json:"cnpj,omitempty"`
	Headcount    *int         `gorm:"column:headcount" json:"headcount,omitempty"`
	AccessDays   *int         `gorm:"column:access_days" json:"access_days,omitempty"`
	AdminID      snowflake.ID `gorm:"column:admin_id;not null;index" json:"admin_id"`
	Status       string       `gorm:"type:text;not null" json:"status"`
	ValidUntil   time.Time    `gorm:"column:valid_until;not null" json:"valid_until"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CompanyInvitation) TableName() string { return "company_invitations" }

// EmployeeInvitation is issued by a company to onboard an employee.
type EmployeeInvitation struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Token      string       `gorm:"type:text;not null;uniqueIndex:ux_employee_invitations_token" json:"token"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Email      string       `gorm:"type:text;not null" json:"email"`
	Role       *string      `gorm:"type:text" json:"role,omitempty"`
	Department *string      `gorm:"type:text" json:"department,omitempty"`
	CompanyID  snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id"`
	Status     string       `gorm:"type:text;not null" json:"status"`
	ValidUntil time.Time    `gorm:"column:valid_until;not null" json:"valid_until"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (EmployeeInvitation) TableName() string { return "employee_invitations" }

// Redeemable reports whether a pending invitation is still inside its
// validity window.
func Redeemable(status string, validUntil, now time.Time) bool {
	return status == StatusPending && now.Before(validUntil)
}
