package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobmatch/resume-matcher/internal/models"
	"jobmatch/resume-matcher/internal/services"
)

type MatchHandler struct {
	resolver         services.ResumeResolverService
	matcher          services.MatcherService
	apiKeyConfigured bool
}

func NewMatchHandler(
	resolver services.ResumeResolverService,
	matcher services.MatcherService,
	apiKeyConfigured bool,
) *MatchHandler {
	return &MatchHandler{
		resolver:         resolver,
		matcher:          matcher,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// HandleMatch handles POST /match: resolve resume text, ask the model for a
// structured match, project the simplified response.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	// Guard before touching the body: without a key no outbound call can work.
	if !h.apiKeyConfigured {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:  "missing_api_key",
			Detail: "OPENAI_API_KEY not set on server",
		})
	}

	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:  "invalid_request",
			Detail: "request body is not valid JSON",
		})
	}
	req.ApplyDefaults()

	requestID := uuid.New()
	log.Printf("🔎 [%s] match request: candidate=%s job=%s", requestID, req.CandidateID, req.JobID)

	resumeText, outcome := h.resolver.Resolve(c.UserContext(), req.ResumeURL)
	if outcome != services.ResolutionFound || resumeText == "" {
		log.Printf("⚠️  [%s] resume text unavailable (%s), using fallback", requestID, outcome)
		resumeText = services.FallbackResumeText
	}

	result, err := h.matcher.Match(c.UserContext(), resumeText, &req)
	if err != nil {
		kind := "openai_error"
		if errors.Is(err, services.ErrMalformedOutput) {
			kind = "invalid_model_output"
		}
		log.Printf("❌ [%s] match failed: %v", requestID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:  kind,
			Detail: err.Error(),
		})
	}

	log.Printf("✅ [%s] match completed for candidate=%s", requestID, req.CandidateID)
	return c.JSON(services.BuildMatchResponse(result, req.CandidateID))
}
