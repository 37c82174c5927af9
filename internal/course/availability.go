package course

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Availability records whether one employee can access one catalog
// course. Rows start locked and are unlocked by the company later.
type Availability struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	EmployeeID snowflake.ID `gorm:"column:employee_id;not null;uniqueIndex:ux_course_availability,priority:1" json:"employee_id"`
	CourseSlug string       `gorm:"column:course_slug;type:text;not null;uniqueIndex:ux_course_availability,priority:2" json:"course_slug"`
	CompanyID  snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id"`
	Available  bool         `gorm:"not null;default:false" json:"available"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Availability) TableName() string { return "course_availability" }

// Seeder provisions locked availability rows for new employees.
type Seeder struct {
	log   *zap.Logger
	db    *gorm.DB
	genID *snowflake.Node
}

func NewSeeder(log *zap.Logger, db *gorm.DB, genID *snowflake.Node) *Seeder {
	return &Seeder{
		log:   log.Named("course.seeder"),
		db:    db,
		genID: genID,
	}
}

// SeedAvailability inserts one locked row per catalog course for the
// employee. Existing rows are left untouched. Errors are logged and
// swallowed: course access is a downstream concern, never a
// precondition of the employee account existing.
func (s *Seeder) SeedAvailability(ctx context.Context, employeeID, companyID snowflake.ID) {
	catalog := Catalog()
	rows := make([]Availability, 0, len(catalog))
	for _, c := range catalog {
		rows = append(rows, Availability{
			ID:         s.genID.Generate(),
			EmployeeID: employeeID,
			CourseSlug: c.Slug,
			CompanyID:  companyID,
			Available:  false,
		})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		s.log.Error("course availability seeding failed, leaving for reconciliation",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
		return
	}

	s.log.Info("seeded course availability",
		zap.String("employee_id", employeeID.String()),
		zap.Int("courses", len(rows)))
}
