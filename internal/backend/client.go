// Package backend is the HTTP client for the screening API. All
// scoring, text extraction, exporting, and AI-assisted generation
// happen server-side; this client submits requests and decodes
// responses. Requests flow through a circuit breaker, and AI endpoints
// are additionally rate limited.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"smarthire/internal/config"
	"smarthire/internal/errors"
	"smarthire/internal/extract"
	"smarthire/internal/intake"
	"smarthire/internal/observability"
	"smarthire/internal/types"
)

// EmailKind selects which email template the backend drafts
type EmailKind string

const (
	EmailShortlist EmailKind = "shortlist_email"
	EmailRejection EmailKind = "rejection_email"
	EmailInterview EmailKind = "interview_invite"
)

// Client talks to the screening backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	aiLimiter  *rate.Limiter
	aiEnabled  bool
	extractor  extract.ContactExtractor
	metrics    *observability.Metrics
	logger     *errors.Logger
}

// SetMetrics attaches request instrumentation. A nil receiver value on
// the metrics side is tolerated, so calling this is optional.
func (c *Client) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// NewClient creates a backend client from configuration
func NewClient(cfg config.BackendConfig, ai config.AIConfig, logger *errors.Logger) *Client {
	cb := cfg.CircuitBreaker
	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: cb.MaxRequests,
		Interval:    cb.Interval,
		Timeout:     cb.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cb.MinRequests && ratio >= cb.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker:   gobreaker.NewCircuitBreaker[[]byte](settings),
		aiLimiter: rate.NewLimiter(rate.Limit(ai.RateLimit), ai.RateBurst),
		aiEnabled: ai.Enabled,
		extractor: extract.NewHeuristicExtractor(),
		logger:    logger,
	}
}

// Screen submits pasted-text resumes for scoring
func (c *Client) Screen(ctx context.Context, sub types.ScreeningSubmission) ([]types.CandidateResult, error) {
	body, err := c.postJSON(ctx, "/api/screen", sub)
	if err != nil {
		return nil, err
	}
	return decodeResults(body)
}

// ScreenUpload submits resumes with file attachments as multipart
// form data. The JSON payload travels in the "payload" field and each
// attachment in a "files" part.
func (c *Client) ScreenUpload(ctx context.Context, sub types.ScreeningSubmission, files []intake.FileAttachment) ([]types.CandidateResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to encode submission", err)
	}
	if err := w.WriteField("payload", string(payload)); err != nil {
		return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to build form", err)
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to attach "+f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to write "+f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to finalize form", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/screen_upload", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return decodeResults(body)
}

// ExtractText asks the backend to extract plain text from a resume file
func (c *Client) ExtractText(ctx context.Context, file intake.FileAttachment) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return "", errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to attach "+file.Name, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to write "+file.Name, err)
	}
	if err := w.Close(); err != nil {
		return "", errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to finalize form", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/extract_text", &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to decode extraction response", err)
	}
	return resp.Text, nil
}

// ExportCSV returns the CSV export of the given results
func (c *Client) ExportCSV(ctx context.Context, results []types.CandidateResult) ([]byte, error) {
	body, err := c.postJSON(ctx, "/api/export_csv", map[string]any{"results": results})
	if err != nil {
		return nil, errors.NewExportError(errors.ErrCodeExportFailed, "CSV export failed", err)
	}
	return body, nil
}

// ExportReport returns the report export of the given results
func (c *Client) ExportReport(ctx context.Context, jobDescription string, results []types.CandidateResult) ([]byte, error) {
	body, err := c.postJSON(ctx, "/api/export_report", map[string]any{
		"results":         results,
		"job_description": jobDescription,
	})
	if err != nil {
		return nil, errors.NewExportError(errors.ErrCodeExportFailed, "report export failed", err)
	}
	return body, nil
}

// Summary fetches the AI summary for a candidate
func (c *Client) Summary(ctx context.Context, jobDescription string, candidate types.CandidateResult) (string, error) {
	return c.aiText(ctx, "/api/ai/summary", map[string]any{
		"candidate_name":   c.extractor.Name(candidate.ResumeText),
		"resume_text":      candidate.ResumeText,
		"matched_skills":   candidate.MatchedSkills,
		"experience_years": candidate.ExperienceYears,
		"job_title":        c.extractor.JobTitle(jobDescription),
	}, "summary")
}

// FitExplanation fetches the AI fit or no-fit explanation
func (c *Client) FitExplanation(ctx context.Context, jobDescription string, candidate types.CandidateResult) (string, error) {
	return c.aiText(ctx, "/api/ai/fit_explanation", map[string]any{
		"candidate_name":   c.extractor.Name(candidate.ResumeText),
		"matched_skills":   candidate.MatchedSkills,
		"score":            candidate.Score,
		"component_scores": candidate.ComponentScores,
		"job_title":        c.extractor.JobTitle(jobDescription),
		"is_weak_match":    candidate.Score < 50,
	}, "explanation")
}

// SkillGap fetches the AI skill gap analysis
func (c *Client) SkillGap(ctx context.Context, jobDescription string, candidate types.CandidateResult) (string, error) {
	return c.aiText(ctx, "/api/ai/skill_gap", map[string]any{
		"missing_skills": candidate.MissingSkills,
		"candidate_name": c.extractor.Name(candidate.ResumeText),
	}, "explanation")
}

// ResumeImprovements fetches AI suggestions for improving the resume
func (c *Client) ResumeImprovements(ctx context.Context, jobDescription string, candidate types.CandidateResult) (string, error) {
	return c.aiText(ctx, "/api/ai/resume_improvements", map[string]any{
		"resume_text":     candidate.ResumeText,
		"job_description": jobDescription,
		"missing_skills":  candidate.MissingSkills,
	}, "suggestions")
}

// DraftEmail asks the backend to draft a candidate email of the given
// kind. Fails with a feature-disabled error when AI generation is off.
func (c *Client) DraftEmail(ctx context.Context, kind EmailKind, jobDescription string, candidate types.CandidateResult) (types.EmailDraft, error) {
	if !c.aiEnabled {
		return types.EmailDraft{}, errors.NewFeatureDisabledError(errors.ErrCodeAIDisabled, "AI generation is disabled")
	}
	if err := c.waitAI(ctx); err != nil {
		return types.EmailDraft{}, err
	}

	body, err := c.postJSON(ctx, "/api/ai/"+string(kind), map[string]any{
		"candidate_name": c.extractor.Name(candidate.ResumeText),
		"job_title":      c.extractor.JobTitle(jobDescription),
		"matched_skills": candidate.MatchedSkills,
		"score":          candidate.Score,
	})
	if err != nil {
		return types.EmailDraft{}, errors.NewAIError(errors.ErrCodeAIGenerationFailed, "email draft failed", err)
	}
	var draft types.EmailDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		return types.EmailDraft{}, errors.NewAIError(errors.ErrCodeAIGenerationFailed, "failed to decode email draft", err)
	}
	return draft, nil
}

func (c *Client) aiText(ctx context.Context, path string, payload map[string]any, field string) (string, error) {
	if !c.aiEnabled {
		return "", errors.NewFeatureDisabledError(errors.ErrCodeAIDisabled, "AI generation is disabled")
	}
	if err := c.waitAI(ctx); err != nil {
		return "", err
	}

	body, err := c.postJSON(ctx, path, payload)
	if err != nil {
		return "", errors.NewAIError(errors.ErrCodeAIGenerationFailed, "generation failed", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.NewAIError(errors.ErrCodeAIGenerationFailed, "failed to decode generation response", err)
	}
	if text := resp[field]; text != "" {
		return text, nil
	}
	if text := resp["text"]; text != "" {
		return text, nil
	}
	return "", errors.NewAIError(errors.ErrCodeAIGenerationFailed, "empty generation response", nil)
}

func (c *Client) waitAI(ctx context.Context) error {
	if err := c.aiLimiter.Wait(ctx); err != nil {
		return errors.NewAIError(errors.ErrCodeAIGenerationFailed, "rate limit wait interrupted", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to encode request", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
}

// do executes one request through the circuit breaker. No retries:
// failures surface immediately and the breaker guards repeat attempts.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to build request", err)
		}
		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "request to "+path+" failed", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to read response from "+path, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, errors.NewRequestError(errors.ErrCodeBadStatus,
				fmt.Sprintf("%s returned status %d", path, resp.StatusCode), nil).
				WithContext("status", resp.StatusCode).
				WithContext("body", truncate(string(data), 200))
		}
		return data, nil
	})

	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordRequestDuration(ctx, path, elapsed.Seconds(), err == nil)
	}
	c.logger.Debug("backend request", "path", path, "duration", elapsed.String(), "err", err != nil)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "backend temporarily unavailable", err)
		}
		return nil, err
	}
	return result, nil
}

// decodeResults parses the screening response, a bare JSON array of
// candidate results
func decodeResults(body []byte) ([]types.CandidateResult, error) {
	var results []types.CandidateResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, errors.NewRequestError(errors.ErrCodeRequestFailed, "failed to decode screening response", err)
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
