package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"jobmatch/resume-matcher/internal/models"
)

var (
	// ErrExternalAPI covers transport and HTTP-status failures of the
	// completions call.
	ErrExternalAPI = errors.New("openai request failed")
	// ErrMalformedOutput covers completions that cannot be used: empty
	// choices, non-JSON content, or out-of-range scores.
	ErrMalformedOutput = errors.New("malformed model output")
)

const maxMatchTokens = 800

type MatcherService interface {
	Match(ctx context.Context, resumeText string, req *models.MatchRequest) (*models.MatchResult, error)
}

type matcherService struct {
	client        *openai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewMatcherService(apiKey, model, baseURL string, timeout time.Duration) MatcherService {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &matcherService{
		client:        openai.NewClientWithConfig(clientConfig),
		model:         model,
		promptBuilder: NewPromptBuilder(),
	}
}

// Match sends one chat completion and parses its first choice as a
// MatchResult.
func (m *matcherService) Match(ctx context.Context, resumeText string, req *models.MatchRequest) (*models.MatchResult, error) {
	prompt := m.promptBuilder.BuildMatchPrompt(
		resumeText,
		req.CandidateID,
		req.CandidateName,
		req.JobID,
		req.JobText,
		req.RequiredSkills,
	)

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: matchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// go-openai drops a literal 0 from the payload (omitempty); the
		// smallest non-zero float keeps sampling deterministic.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   maxMatchTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in completion", ErrMalformedOutput)
	}

	var result models.MatchResult
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := validateScores(result.Match); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return &result, nil
}

// validateScores checks the score fields the model was instructed to keep in
// [0.0, 1.0]. A missing match object is not an error; the shaper degrades.
// final_score is range-checked but otherwise trusted, not recomputed.
func validateScores(match *models.JobMatch) error {
	if match == nil {
		return nil
	}

	scores := map[string]float64{
		"semantic_score": match.SemanticScore,
		"skill_coverage": match.SkillCoverage,
		"final_score":    match.FinalScore,
	}
	for name, score := range scores {
		if score < 0.0 || score > 1.0 {
			return fmt.Errorf("%s %v is outside [0.0, 1.0]", name, score)
		}
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
