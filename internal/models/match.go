package models

// MatchRequest is the body of POST /match. Every field is optional; missing
// identifiers fall back to the defaults applied in ApplyDefaults.
type MatchRequest struct {
	CandidateID    string   `json:"candidate_id"`
	CandidateName  string   `json:"candidate_name"`
	ResumeURL      string   `json:"resume_url"`
	JobID          string   `json:"job_id"`
	JobText        string   `json:"job_text"`
	RequiredSkills []string `json:"required_skills"`
}

// ApplyDefaults fills the placeholder values for fields the caller omitted.
func (r *MatchRequest) ApplyDefaults() {
	if r.CandidateID == "" {
		r.CandidateID = "unknown"
	}
	if r.JobID == "" {
		r.JobID = "JOB_000"
	}
	if r.RequiredSkills == nil {
		r.RequiredSkills = []string{}
	}
}

// MatchResult is the structured document the model is instructed to return.
type MatchResult struct {
	CandidateID     string    `json:"candidate_id"`
	Name            string    `json:"name"`
	Skills          []string  `json:"skills"`
	ExperienceYears float64   `json:"experience_years"`
	Summary         string    `json:"summary"`
	Match           *JobMatch `json:"match,omitempty"`
}

type JobMatch struct {
	JobID         string   `json:"job_id"`
	SemanticScore float64  `json:"semantic_score"`
	SkillCoverage float64  `json:"skill_coverage"`
	FinalScore    float64  `json:"final_score"`
	MatchedSkills []string `json:"matched_skills"`
	Explanation   string   `json:"explanation"`
}

// MatchResponse is the simplified projection returned to the caller.
// AIFitScore is a pointer so a result without a match object serializes as
// null rather than 0.
type MatchResponse struct {
	CandidateID     string       `json:"candidate_id"`
	AIFitScore      *float64     `json:"ai_fit_score"`
	AISummary       string       `json:"ai_summary"`
	AIMatchedSkills []string     `json:"ai_matched_skills"`
	RawMatch        *MatchResult `json:"raw_match"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
