package auth

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lectern/internal/domain/catalog"
	"lectern/internal/domain/identity"
	"lectern/internal/shared/biztime"
	"lectern/internal/shared/errors"
	"lectern/internal/shared/logger"
)

var (
	// collegeIDPattern is the structured registration number format:
	// campus digit, admission year, two-letter course code, roll number.
	collegeIDPattern = regexp.MustCompile(`(?i)^PES[1-2]UG(\d{2})[A-Z]{2}\d{3}$`)

	// courseCodePattern captures the two-letter course code out of the same format.
	courseCodePattern = regexp.MustCompile(`(?i)^PES[1-2]UG\d{2}([A-Z]{2})\d{3}$`)

	// semesterFieldPattern matches the upstream "Sem-5" style semester field.
	// Upstream sometimes returns non-semester values here ("CIE" during exams).
	semesterFieldPattern = regexp.MustCompile(`(?i)^Sem-(\d+)$`)
)

// SemesterFromCollegeID derives the current semester from the admission year
// embedded in the identifier. Odd semesters start in July; a date in the first
// half of the calendar year still belongs to the previous academic year.
// Non-matching identifiers default to semester 1.
func SemesterFromCollegeID(collegeID string, now time.Time) int {
	m := collegeIDPattern.FindStringSubmatch(strings.TrimSpace(collegeID))
	if m == nil {
		return 1
	}

	yy, _ := strconv.Atoi(m[1])
	admissionYear := 2000 + yy

	yearsElapsed := now.Year() - admissionYear
	if int(now.Month())-1 < 6 {
		yearsElapsed--
	}

	semester := yearsElapsed*2 + 1
	if semester < 1 {
		return 1
	}
	return semester
}

// SemesterFromProfile prefers the upstream semester field when it is in the
// expected "Sem-N" form, falling back to the identifier-derived value.
func SemesterFromProfile(collegeID string, profile *identity.Profile, now time.Time) int {
	if profile != nil {
		if m := semesterFieldPattern.FindStringSubmatch(strings.TrimSpace(profile.Semester)); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
				return n
			}
		}
	}
	return SemesterFromCollegeID(collegeID, now)
}

// CourseCodeFromCollegeID extracts the two-letter course code from a
// structured identifier, or "" when the identifier does not match.
func CourseCodeFromCollegeID(collegeID string) string {
	m := courseCodePattern.FindStringSubmatch(strings.TrimSpace(collegeID))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// Resolver maps identifiers and upstream profiles onto course table rows.
type Resolver struct {
	courses   catalog.CourseRepository
	semesters catalog.SemesterRepository
	logger    logger.Interface
}

func NewResolver(courses catalog.CourseRepository, semesters catalog.SemesterRepository, log logger.Interface) *Resolver {
	return &Resolver{
		courses:   courses,
		semesters: semesters,
		logger:    log.Named("resolver"),
	}
}

// ResolveCourseID finds the course for a login. Strategy order is strict:
// exact code match from the identifier, then exact program-name match, then
// keyword matching as a last resort. Keyword matching can misassign a course
// when program names overlap, so it never runs ahead of the exact lookups.
func (r *Resolver) ResolveCourseID(ctx context.Context, collegeID string, profile *identity.Profile) (uint, error) {
	if code := CourseCodeFromCollegeID(collegeID); code != "" {
		course, err := r.courses.GetByCode(ctx, code)
		if err != nil {
			return 0, err
		}
		if course != nil {
			return course.ID, nil
		}
	}

	program := ""
	if profile != nil {
		program = strings.TrimSpace(profile.Program)
	}

	if program != "" {
		course, err := r.courses.GetByName(ctx, program)
		if err != nil {
			return 0, err
		}
		if course != nil {
			return course.ID, nil
		}

		if id, ok, err := r.resolveByKeywords(ctx, profile); err != nil {
			return 0, err
		} else if ok {
			return id, nil
		}
	}

	return 0, errors.NewCourseUnresolvedError(program, collegeID)
}

// resolveByKeywords matches course keywords against the free-text program and
// branch fields. First hit wins.
func (r *Resolver) resolveByKeywords(ctx context.Context, profile *identity.Profile) (uint, bool, error) {
	courses, err := r.courses.List(ctx)
	if err != nil {
		return 0, false, err
	}

	haystack := strings.ToLower(profile.Program + " " + profile.Branch)
	for _, course := range courses {
		for _, keyword := range course.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			if strings.Contains(haystack, keyword) {
				r.logger.Warnw("course resolved by keyword fallback",
					"course_code", course.Code,
					"keyword", keyword,
					"program", profile.Program)
				return course.ID, true, nil
			}
		}
	}
	return 0, false, nil
}

// CurrentSemDB looks up the semester table row for (course, semester number).
// Returns nil when no row exists; the profile field simply stays unset.
func (r *Resolver) CurrentSemDB(ctx context.Context, courseID uint, semesterNumber int) (*uint, error) {
	if courseID == 0 || semesterNumber < 1 {
		return nil, nil
	}
	semester, err := r.semesters.GetByCourseAndNumber(ctx, courseID, semesterNumber)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, nil
	}
	id := semester.ID
	return &id, nil
}

// Enrich recomputes the derived semester fields on a profile. The identifier
// is authoritative for current_semester because the admission year never
// changes; whatever the token payload carried is overwritten.
func (r *Resolver) Enrich(ctx context.Context, profile *identity.Profile, user *identity.User) {
	collegeID := profile.Identifier()
	if collegeID == "" && user != nil {
		collegeID = user.CollegeID
	}

	profile.CurrentSemester = SemesterFromCollegeID(collegeID, biztime.NowUTC())

	courseID := uint(0)
	if profile.CourseID != nil {
		courseID = *profile.CourseID
	} else if user != nil && user.CourseID != nil {
		courseID = *user.CourseID
	}

	semDB, err := r.CurrentSemDB(ctx, courseID, profile.CurrentSemester)
	if err != nil {
		r.logger.Warnw("failed to resolve semester row", "course_id", courseID, "error", err)
		return
	}
	if semDB != nil {
		profile.CurrentSemDB = semDB
	}
}
