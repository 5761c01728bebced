package services

import (
	"encoding/json"
	"fmt"
)

const (
	// Input budgets keep the outbound payload and model cost bounded.
	maxResumePromptChars = 4000
	maxJobPromptChars    = 2000
)

const matchSystemPrompt = "You are a JSON-only resume->job matching assistant."

// matchSchemaJSON is the literal schema the model is told to fill in.
const matchSchemaJSON = `{"candidate_id": "string", "name": "string", "skills": ["string"], "experience_years": "number", "summary": "string", "match": {"job_id": "string", "semantic_score": "number", "skill_coverage": "number", "final_score": "number", "matched_skills": ["string"], "explanation": "string"}}`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt creates the single-turn instruction for candidate/job
// matching. The scoring formula and skill intersection are rules for the
// model to apply; nothing here computes them.
func (pb *PromptBuilder) BuildMatchPrompt(resumeText, candidateID, candidateName, jobID, jobText string, requiredSkills []string) string {
	skillsJSON, err := json.Marshal(requiredSkills)
	if err != nil {
		skillsJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are a recruiter assistant. Return ONLY valid JSON (no explanation) matching this schema:
%s

Inputs:
resume_text: """%s"""
candidate_id: %s
candidate_name: """%s"""
job_id: %s
job_text: """%s"""
required_skills: %s

Rules:
- Fill fields exactly as in the schema.
- semantic_score and skill_coverage must be numbers between 0.0 and 1.0.
- final_score = round(0.7 * semantic_score + 0.3 * skill_coverage, 2)
- matched_skills = intersection of required_skills and skills found in resume (case-insensitive).
- summary: one short sentence.
Return only the JSON object.`,
		matchSchemaJSON,
		truncateRunes(resumeText, maxResumePromptChars),
		candidateID,
		candidateName,
		jobID,
		truncateRunes(jobText, maxJobPromptChars),
		string(skillsJSON),
	)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
