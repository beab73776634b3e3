package identity

import "time"

// ProfileSource tags where a profile's identity fields came from. Each code
// path fully constructs one profile before enrichment; profiles are never
// merged across sources.
type ProfileSource string

const (
	SourceUpstream ProfileSource = "upstream"
	SourceToken    ProfileSource = "token"
	SourceFallback ProfileSource = "fallback"
)

// Profile is the session object returned to the client and embedded in
// tokens. Identity fields come from the most recent successful upstream call
// or token payload; CurrentSemester and CurrentSemDB are recomputed on every
// authenticated response by enrichment.
type Profile struct {
	Source          ProfileSource `json:"source,omitempty"`
	UserID          string        `json:"user_id,omitempty"`
	CollegeID       string        `json:"college_id,omitempty"`
	SRN             string        `json:"srn,omitempty"`
	Name            string        `json:"name,omitempty"`
	Email           string        `json:"email,omitempty"`
	Program         string        `json:"program,omitempty"`
	Branch          string        `json:"branch,omitempty"`
	Semester        string        `json:"semester,omitempty"` // raw upstream value, e.g. "Sem-5" or "CIE"
	IsAdmin         bool          `json:"is_admin,omitempty"`
	CourseID        *uint         `json:"course_id,omitempty"`
	CourseCode      string        `json:"course_code,omitempty"`
	CurrentSemester int           `json:"current_semester,omitempty"`
	CurrentSemDB    *uint         `json:"current_sem_db,omitempty"`
	Shadow          bool          `json:"shadow,omitempty"`
	ShadowExpiresAt *time.Time    `json:"shadow_expires_at,omitempty"`
}

// Identifier returns the best-known college identifier for this profile.
func (p *Profile) Identifier() string {
	if p.CollegeID != "" {
		return p.CollegeID
	}
	return p.SRN
}
