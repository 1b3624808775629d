package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"smarthire/internal/config"
	"smarthire/internal/errors"
	"smarthire/internal/intake"
	"smarthire/internal/observability"
	"smarthire/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler, aiEnabled bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("errors.New() error = %v", err)
	}

	return NewClient(config.BackendConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
		CircuitBreaker: config.CBConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  100,
			FailureRatio: 1.0,
		},
	}, config.AIConfig{
		Enabled:   aiEnabled,
		RateLimit: 100,
		RateBurst: 100,
	}, logger)
}

// The backend returns the ranked results as a bare JSON array
func resultsResponse(w http.ResponseWriter) {
	json.NewEncoder(w).Encode([]types.CandidateResult{
		{ID: "1", AnonymizedName: "Candidate A", Score: 87.5, MatchedSkills: []string{"go"}},
	})
}

func TestScreen(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		resultsResponse(w)
	}), true)

	sub := types.ScreeningSubmission{
		JobDescription: "Backend Engineer",
		Resumes:        []types.ResumeEntry{{ID: "1", Text: "resume"}},
	}
	results, err := c.Screen(context.Background(), sub)
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}

	if gotPath != "/api/screen" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}

	var decoded types.ScreeningSubmission
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if decoded.JobDescription != "Backend Engineer" || len(decoded.Resumes) != 1 {
		t.Errorf("decoded submission = %+v", decoded)
	}

	if len(results) != 1 || results[0].Score != 87.5 {
		t.Errorf("results = %+v", results)
	}
}

func TestScreenUploadMultipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/screen_upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}

		var sub types.ScreeningSubmission
		if err := json.Unmarshal([]byte(r.FormValue("payload")), &sub); err != nil {
			t.Fatalf("payload field not JSON: %v", err)
		}
		if sub.JobDescription != "Backend Engineer" {
			t.Errorf("payload JD = %q", sub.JobDescription)
		}
		if len(sub.Resumes) != 0 {
			t.Errorf("payload resumes = %d, want 0", len(sub.Resumes))
		}

		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "resume.pdf" {
			t.Fatalf("files = %+v", files)
		}
		f, _ := files[0].Open()
		data, _ := io.ReadAll(f)
		f.Close()
		if string(data) != "%PDF fake" {
			t.Errorf("file content = %q", data)
		}

		resultsResponse(w)
	}), true)

	sub := types.ScreeningSubmission{
		JobDescription: "Backend Engineer",
		Resumes:        []types.ResumeEntry{},
	}
	files := []intake.FileAttachment{{Name: "resume.pdf", Data: []byte("%PDF fake")}}

	results, err := c.ScreenUpload(context.Background(), sub, files)
	if err != nil {
		t.Fatalf("ScreenUpload() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %+v", results)
	}
}

func TestBadStatusIsRequestError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), true)

	_, err := c.Screen(context.Background(), types.ScreeningSubmission{JobDescription: "x"})
	if !errors.IsType(err, errors.ErrorTypeRequest) {
		t.Fatalf("error = %v, want request error", err)
	}
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.Code != errors.ErrCodeBadStatus {
		t.Errorf("code = %v, want %s", err, errors.ErrCodeBadStatus)
	}
}

func TestExtractText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/extract_text" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "extracted resume text"})
	}), true)

	text, err := c.ExtractText(context.Background(), intake.FileAttachment{Name: "r.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != "extracted resume text" {
		t.Errorf("text = %q", text)
	}
}

func TestExportCSV(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/export_csv" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("id,score\n1,87.5\n"))
	}), true)

	data, err := c.ExportCSV(context.Background(), []types.CandidateResult{{ID: "1"}})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if string(data) != "id,score\n1,87.5\n" {
		t.Errorf("data = %q", data)
	}
}

func TestExportFailureIsExportError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}), true)

	_, err := c.ExportReport(context.Background(), "a role", nil)
	if !errors.IsType(err, errors.ErrorTypeExport) {
		t.Errorf("error = %v, want export error", err)
	}
}

func TestAIEndpoints(t *testing.T) {
	bodies := map[string]map[string]any{}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("request body not JSON: %v", err)
		}
		bodies[r.URL.Path] = body

		switch r.URL.Path {
		case "/api/ai/summary":
			json.NewEncoder(w).Encode(map[string]string{"summary": "a summary"})
		case "/api/ai/skill_gap":
			json.NewEncoder(w).Encode(map[string]string{"explanation": "gap analysis"})
		case "/api/ai/shortlist_email":
			json.NewEncoder(w).Encode(types.EmailDraft{Subject: "Congrats", Body: "You are shortlisted"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}), true)

	ctx := context.Background()
	cand := types.CandidateResult{
		ID:             "1",
		AnonymizedName: "Candidate 1",
		ResumeText:     "Name: Jane Doe\nSoftware Engineer",
		MissingSkills:  []string{"kubernetes"},
	}

	if got, err := c.Summary(ctx, "jd", cand); err != nil || got != "a summary" {
		t.Errorf("Summary() = %q, %v", got, err)
	}
	if got, err := c.SkillGap(ctx, "jd", cand); err != nil || got != "gap analysis" {
		t.Errorf("SkillGap() = %q, %v", got, err)
	}
	draft, err := c.DraftEmail(ctx, EmailShortlist, "jd", cand)
	if err != nil || draft.Subject != "Congrats" {
		t.Errorf("DraftEmail() = %+v, %v", draft, err)
	}

	// AI payloads carry the name extracted from the resume text, not
	// the anonymized display label
	for path, body := range bodies {
		if got := body["candidate_name"]; got != "Jane Doe" {
			t.Errorf("%s candidate_name = %v, want %q", path, got, "Jane Doe")
		}
	}
}

func TestAITextFallbackField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "generic payload"})
	}), true)

	// responses lacking the named field fall back to "text"
	if got, err := c.SkillGap(context.Background(), "jd", types.CandidateResult{}); err != nil || got != "generic payload" {
		t.Errorf("SkillGap() = %q, %v", got, err)
	}
}

func TestAIDisabled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite AI being disabled")
	}), false)

	if _, err := c.Summary(context.Background(), "jd", types.CandidateResult{}); !errors.IsType(err, errors.ErrorTypeFeatureDisabled) {
		t.Errorf("Summary() error = %v, want feature disabled", err)
	}
	if _, err := c.DraftEmail(context.Background(), EmailRejection, "jd", types.CandidateResult{}); !errors.IsType(err, errors.ErrorTypeFeatureDisabled) {
		t.Errorf("DraftEmail() error = %v, want feature disabled", err)
	}
}

func TestRequestDurationRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	hist, err := meter.Float64Histogram("smarthire_backend_request_duration_seconds")
	if err != nil {
		t.Fatalf("Float64Histogram() error = %v", err)
	}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resultsResponse(w)
	}), true)
	c.SetMetrics(&observability.Metrics{RequestDuration: hist})

	if _, err := c.Screen(context.Background(), types.ScreeningSubmission{}); err != nil {
		t.Fatalf("Screen() error = %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var recorded bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "smarthire_backend_request_duration_seconds" {
				continue
			}
			data, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("data type = %T, want Histogram[float64]", m.Data)
			}
			for _, dp := range data.DataPoints {
				if dp.Count > 0 {
					recorded = true
				}
			}
		}
	}
	if !recorded {
		t.Error("no request duration datapoint recorded")
	}
}

func TestRequestDurationWithoutMetrics(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resultsResponse(w)
	}), true)
	c.SetMetrics(&observability.Metrics{})

	// a zero-value metrics instance must not panic
	if _, err := c.Screen(context.Background(), types.ScreeningSubmission{}); err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
}
