package models

// Seniority levels a candidate profile can be classified into
const (
	SeniorityEntry  = "entry"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
	SeniorityLead   = "lead"
)

// WorkExperience represents a single work history entry from a resume
type WorkExperience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Education represents a single education entry from a resume
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

// CandidateProfile is the structured extraction of a resume. It is produced
// by the profile extractor and treated as opaque input by the search core.
type CandidateProfile struct {
	TechnicalSkills  []string         `json:"technical_skills"`
	SoftSkills       []string         `json:"soft_skills,omitempty"`
	WorkExperience   []WorkExperience `json:"work_experience"`
	Industries       []string         `json:"industries,omitempty"`
	Responsibilities []string         `json:"responsibilities"`
	Achievements     []string         `json:"achievements,omitempty"`
	Education        []Education      `json:"education,omitempty"`
	Seniority        string           `json:"seniority,omitempty"`
}

// HasSignal reports whether the profile carries at least one non-empty field
// a search can be driven from. Profiles without any signal are rejected
// before a stream is opened.
func (p *CandidateProfile) HasSignal() bool {
	if p == nil {
		return false
	}
	return len(p.TechnicalSkills) > 0 || len(p.WorkExperience) > 0 || len(p.Responsibilities) > 0
}

// IsEmpty reports whether every extractable field of the profile is empty
func (p *CandidateProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.TechnicalSkills) == 0 && len(p.SoftSkills) == 0 &&
		len(p.WorkExperience) == 0 && len(p.Industries) == 0 &&
		len(p.Responsibilities) == 0 && len(p.Achievements) == 0 &&
		len(p.Education) == 0
}

// SearchFilters carries optional constraints forwarded to providers and the
// scorer. Filters are advisory and never gate a search to emptiness.
type SearchFilters struct {
	ExperienceLevel string `json:"experience_level,omitempty" validate:"omitempty,oneof=entry mid senior lead"`
	MinSalary       int    `json:"min_salary,omitempty" validate:"omitempty,gte=0"`
	Region          string `json:"region,omitempty"`
}
