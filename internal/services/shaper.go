package services

import (
	"jobmatch/resume-matcher/internal/models"
)

// BuildMatchResponse projects the fields the downstream consumer reads out of
// a full match result. It never fails: a result without a match object yields
// a null fit score and an empty skill list.
func BuildMatchResponse(result *models.MatchResult, candidateID string) models.MatchResponse {
	response := models.MatchResponse{
		CandidateID:     candidateID,
		AIMatchedSkills: []string{},
		RawMatch:        result,
	}

	if result == nil {
		return response
	}

	response.AISummary = result.Summary

	if result.Match != nil {
		score := result.Match.FinalScore
		response.AIFitScore = &score
		if result.Match.MatchedSkills != nil {
			response.AIMatchedSkills = result.Match.MatchedSkills
		}
	}

	return response
}
