// Package migration keeps the schema in step with the models so a
// fresh database is usable out of the box for local and self-hosted
// environments.
package migration

import (
	"gorm.io/gorm"

	admindomain "github.com/evalia-hr/evalia/internal/admin/domain"
	companydomain "github.com/evalia-hr/evalia/internal/company/domain"
	"github.com/evalia-hr/evalia/internal/course"
	employeedomain "github.com/evalia-hr/evalia/internal/employee/domain"
	invitationdomain "github.com/evalia-hr/evalia/internal/invitation/domain"
)

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&admindomain.Admin{},
		&companydomain.Company{},
		&employeedomain.Employee{},
		&invitationdomain.CompanyInvitation{},
		&invitationdomain.EmployeeInvitation{},
		&course.Availability{},
	)
}
