// Package catalog holds the course/semester reference data the resolver and
// profile enrichment read from.
package catalog

import "context"

// Course is a degree program. Keywords feed the last-resort fuzzy resolver:
// free-text program/branch names are matched against them only after exact
// lookups have failed.
type Course struct {
	ID       uint
	Code     string
	Name     string
	Keywords []string
}

// Semester is one row of the per-course semester table; its id is what
// profiles carry as current_sem_db.
type Semester struct {
	ID       uint
	CourseID uint
	Number   int
}

// CourseRepository provides point lookups over the course table. Lookups
// return (nil, nil) when no row matches.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (*Course, error)
	GetByCode(ctx context.Context, code string) (*Course, error)
	GetByName(ctx context.Context, name string) (*Course, error)
	List(ctx context.Context) ([]*Course, error)
	Create(ctx context.Context, course *Course) error
}

// SemesterRepository resolves (course, semester number) to a semester row.
type SemesterRepository interface {
	GetByCourseAndNumber(ctx context.Context, courseID uint, number int) (*Semester, error)
}
