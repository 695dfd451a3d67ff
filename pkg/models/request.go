package models

// SearchRequest represents the request payload for starting a search session
type SearchRequest struct {
	Profile CandidateProfile `json:"profile" validate:"required"`
	Filters SearchFilters    `json:"filters"`
}

// Query derives the provider search text from the profile: the most recent
// job title when one exists, otherwise the leading technical skills.
func (r *SearchRequest) Query() string {
	if len(r.Profile.WorkExperience) > 0 && r.Profile.WorkExperience[0].Title != "" {
		return r.Profile.WorkExperience[0].Title
	}
	if len(r.Profile.TechnicalSkills) > 0 {
		n := len(r.Profile.TechnicalSkills)
		if n > 3 {
			n = 3
		}
		out := r.Profile.TechnicalSkills[0]
		for _, s := range r.Profile.TechnicalSkills[1:n] {
			out += " " + s
		}
		return out
	}
	return ""
}
