package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch/resume-matcher/internal/models"
	"jobmatch/resume-matcher/internal/services"
)

type stubResolver struct {
	text    string
	outcome services.ResolutionOutcome
	lastURL string
}

func (s *stubResolver) Resolve(_ context.Context, resumeURL string) (string, services.ResolutionOutcome) {
	s.lastURL = resumeURL
	return s.text, s.outcome
}

type stubMatcher struct {
	result     *models.MatchResult
	err        error
	calls      int
	lastResume string
	lastReq    *models.MatchRequest
}

func (s *stubMatcher) Match(_ context.Context, resumeText string, req *models.MatchRequest) (*models.MatchResult, error) {
	s.calls++
	s.lastResume = resumeText
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestApp(handler *MatchHandler) *fiber.App {
	app := fiber.New()
	app.Post("/match", handler.HandleMatch)
	return app
}

func postMatch(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func goodMatchResult() *models.MatchResult {
	return &models.MatchResult{
		CandidateID: "C1",
		Summary:     "Good fit",
		Match: &models.JobMatch{
			JobID:         "JOB_001",
			SemanticScore: 0.9,
			SkillCoverage: 0.6,
			FinalScore:    0.81,
			MatchedSkills: []string{"Python"},
		},
	}
}

func TestHandleMatch_MissingAPIKey(t *testing.T) {
	matcher := &stubMatcher{}
	handler := NewMatchHandler(&stubResolver{outcome: services.ResolutionNotFound}, matcher, false)
	app := newTestApp(handler)

	status, body := postMatch(t, app, `{"candidate_id":"C1","resume_url":"","job_text":"Need Python","required_skills":["Python"]}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "missing_api_key", body["error"])
	// The guard fires before anything downstream runs
	assert.Zero(t, matcher.calls)
}

func TestHandleMatch_Success(t *testing.T) {
	resolver := &stubResolver{outcome: services.ResolutionNotFound}
	matcher := &stubMatcher{result: goodMatchResult()}
	app := newTestApp(NewMatchHandler(resolver, matcher, true))

	status, body := postMatch(t, app, `{"candidate_id":"C1","resume_url":"","job_id":"JOB_001","job_text":"Need Python","required_skills":["Python"]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "C1", body["candidate_id"])
	assert.InDelta(t, 0.81, body["ai_fit_score"], 0.001)
	assert.Equal(t, "Good fit", body["ai_summary"])
	assert.Equal(t, []any{"Python"}, body["ai_matched_skills"])
	require.NotNil(t, body["raw_match"])

	rawMatch := body["raw_match"].(map[string]any)
	assert.Equal(t, "Good fit", rawMatch["summary"])
}

func TestHandleMatch_FallbackResumeText(t *testing.T) {
	resolver := &stubResolver{outcome: services.ResolutionUnreachable}
	matcher := &stubMatcher{result: goodMatchResult()}
	app := newTestApp(NewMatchHandler(resolver, matcher, true))

	status, _ := postMatch(t, app, `{"candidate_id":"C1","resume_url":"http://example.com/cv.txt"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "http://example.com/cv.txt", resolver.lastURL)
	assert.Equal(t, services.FallbackResumeText, matcher.lastResume)
}

func TestHandleMatch_ResolvedResumeTextPassedThrough(t *testing.T) {
	resolver := &stubResolver{text: "Resolved resume body", outcome: services.ResolutionFound}
	matcher := &stubMatcher{result: goodMatchResult()}
	app := newTestApp(NewMatchHandler(resolver, matcher, true))

	status, _ := postMatch(t, app, `{"candidate_id":"C1","resume_url":"http://example.com/cv.txt"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Resolved resume body", matcher.lastResume)
}

func TestHandleMatch_BodyDefaults(t *testing.T) {
	matcher := &stubMatcher{result: goodMatchResult()}
	app := newTestApp(NewMatchHandler(&stubResolver{outcome: services.ResolutionNotFound}, matcher, true))

	status, body := postMatch(t, app, `{}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "unknown", body["candidate_id"])
	require.NotNil(t, matcher.lastReq)
	assert.Equal(t, "unknown", matcher.lastReq.CandidateID)
	assert.Equal(t, "JOB_000", matcher.lastReq.JobID)
	assert.Equal(t, []string{}, matcher.lastReq.RequiredSkills)
}

func TestHandleMatch_OpenAIError(t *testing.T) {
	matcher := &stubMatcher{err: fmt.Errorf("%w: connection refused", services.ErrExternalAPI)}
	app := newTestApp(NewMatchHandler(&stubResolver{outcome: services.ResolutionNotFound}, matcher, true))

	status, body := postMatch(t, app, `{"candidate_id":"C1"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "openai_error", body["error"])
	assert.Contains(t, body["detail"], "connection refused")
}

func TestHandleMatch_MalformedModelOutput(t *testing.T) {
	matcher := &stubMatcher{err: fmt.Errorf("%w: invalid character", services.ErrMalformedOutput)}
	app := newTestApp(NewMatchHandler(&stubResolver{outcome: services.ResolutionNotFound}, matcher, true))

	status, body := postMatch(t, app, `{"candidate_id":"C1"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "invalid_model_output", body["error"])
}

func TestHandleMatch_InvalidBody(t *testing.T) {
	matcher := &stubMatcher{result: goodMatchResult()}
	app := newTestApp(NewMatchHandler(&stubResolver{outcome: services.ResolutionNotFound}, matcher, true))

	status, body := postMatch(t, app, `not json at all`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_request", body["error"])
	assert.Zero(t, matcher.calls)
}
