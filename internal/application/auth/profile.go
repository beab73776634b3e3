package auth

import (
	"context"
	"fmt"
	"strconv"

	"lectern/internal/domain/catalog"
	"lectern/internal/domain/identity"
	"lectern/internal/shared/logger"
)

// ProfileService handles post-login profile completion: a user whose course
// mapping could not be resolved at login picks it explicitly.
type ProfileService struct {
	users    identity.UserRepository
	courses  catalog.CourseRepository
	resolver *Resolver
	logger   logger.Interface
}

func NewProfileService(users identity.UserRepository, courses catalog.CourseRepository, resolver *Resolver, log logger.Interface) *ProfileService {
	return &ProfileService{
		users:    users,
		courses:  courses,
		resolver: resolver,
		logger:   log.Named("profile"),
	}
}

// Complete applies a course/semester selection. Shadow users have no durable
// row to update; their choice is echoed back on the profile only and lives as
// long as the shadow identity does.
func (s *ProfileService) Complete(ctx context.Context, tc *TokenContext, courseID *uint, currentSemester *int) (*identity.Profile, error) {
	profile := tc.Profile

	if identity.IsShadowSubject(tc.UserID) {
		profile.CourseID = courseID
		if currentSemester != nil {
			profile.CurrentSemester = *currentSemester
		}
		return &profile, nil
	}

	userID, err := strconv.ParseUint(tc.UserID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed token subject: %w", err)
	}

	user, err := s.users.UpdateProfileFields(ctx, uint(userID), courseID, currentSemester)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	profile.CourseID = user.CourseID
	profile.CurrentSemester = user.CurrentSemester

	if profile.CourseCode == "" && user.CourseID != nil {
		course, err := s.courses.GetByID(ctx, *user.CourseID)
		if err != nil {
			s.logger.Warnw("failed to look up course for profile", "course_id", *user.CourseID, "error", err)
		} else if course != nil {
			profile.CourseCode = course.Code
		}
	}

	if user.CourseID != nil && user.CurrentSemester >= 1 {
		semDB, err := s.resolver.CurrentSemDB(ctx, *user.CourseID, user.CurrentSemester)
		if err != nil {
			s.logger.Warnw("failed to resolve semester row", "course_id", *user.CourseID, "error", err)
		} else if semDB != nil {
			profile.CurrentSemDB = semDB
		}
	}

	return &profile, nil
}
