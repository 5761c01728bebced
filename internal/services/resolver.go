package services

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResolutionOutcome reports why resume text was or was not obtained. The
// resolver never substitutes placeholder text itself; callers decide what to
// do with a non-found outcome.
type ResolutionOutcome string

const (
	ResolutionFound            ResolutionOutcome = "found"
	ResolutionNotFound         ResolutionOutcome = "not_found"
	ResolutionUnreachable      ResolutionOutcome = "unreachable"
	ResolutionWrongContentType ResolutionOutcome = "wrong_content_type"
)

// FallbackResumeText is the placeholder the handler feeds the model when the
// resume cannot be resolved.
const FallbackResumeText = "(Full resume text unavailable. Proceeding with job_text and limited info.)"

type ResumeResolverService interface {
	Resolve(ctx context.Context, resumeURL string) (string, ResolutionOutcome)
}

type resumeResolverService struct {
	localPrefix string
	pdfParser   PDFParserService
	client      *http.Client
}

func NewResumeResolverService(localPrefix string, fetchTimeout time.Duration, pdfParser PDFParserService) ResumeResolverService {
	return &resumeResolverService{
		localPrefix: localPrefix,
		pdfParser:   pdfParser,
		client:      &http.Client{Timeout: fetchTimeout},
	}
}

// Resolve returns the resume text behind a local path or an HTTP(S) URL.
// Resolution is best-effort: every failure maps to an outcome, never an error.
func (s *resumeResolverService) Resolve(ctx context.Context, resumeURL string) (string, ResolutionOutcome) {
	switch {
	case resumeURL == "":
		return "", ResolutionNotFound
	case strings.HasPrefix(resumeURL, s.localPrefix):
		return s.resolveLocal(resumeURL)
	case strings.HasPrefix(resumeURL, "http"):
		return s.resolveRemote(ctx, resumeURL)
	default:
		return "", ResolutionNotFound
	}
}

func (s *resumeResolverService) resolveLocal(path string) (string, ResolutionOutcome) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := s.pdfParser.ExtractText(path)
		if err != nil {
			return "", ResolutionNotFound
		}
		return CleanText(text), ResolutionFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ResolutionNotFound
	}

	// Drop invalid byte sequences instead of failing on binary junk
	return strings.ToValidUTF8(string(data), ""), ResolutionFound
}

func (s *resumeResolverService) resolveRemote(ctx context.Context, url string) (string, ResolutionOutcome) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", ResolutionUnreachable
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", ResolutionUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ResolutionUnreachable
	}

	ctype := resp.Header.Get("Content-Type")
	if !strings.Contains(ctype, "text") && !strings.Contains(ctype, "json") {
		return "", ResolutionWrongContentType
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ResolutionUnreachable
	}

	return string(body), ResolutionFound
}
