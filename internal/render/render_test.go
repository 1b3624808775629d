package render

import (
	"path/filepath"
	"strings"
	"testing"

	"smarthire/internal/shortlist"
	"smarthire/internal/store"
	"smarthire/internal/types"
)

func newTestRenderer(t *testing.T) (*Renderer, *shortlist.Manager) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	sl, err := shortlist.NewManager(s)
	if err != nil {
		t.Fatalf("shortlist.NewManager() error = %v", err)
	}
	return NewRenderer(sl), sl
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, TierStrong},
		{90.0, TierStrong},
		{89.9, TierModerate},
		{50.0, TierModerate},
		{49.9, TierWeak},
		{0, TierWeak},
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	r, _ := newTestRenderer(t)

	view, err := r.Render(nil, Options{Threshold: 70})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !view.Empty {
		t.Error("Empty = false for nil results")
	}
	if view.Metrics.Total != 0 || len(view.Cards) != 0 {
		t.Errorf("empty view has metrics/cards: %+v", view)
	}
}

func TestRenderMetrics(t *testing.T) {
	r, _ := newTestRenderer(t)

	results := []types.CandidateResult{
		{ID: "c1", Score: 91.25},
		{ID: "c2", Score: 45},
		{ID: "c3", Score: 60},
	}
	view, err := r.Render(results, Options{Threshold: 95})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if view.Metrics.Total != 3 {
		t.Errorf("Total = %d, want 3", view.Metrics.Total)
	}
	if view.Metrics.Top != 91.3 {
		t.Errorf("Top = %v, want 91.3", view.Metrics.Top)
	}
	if view.Metrics.Average != 65.4 {
		t.Errorf("Average = %v, want 65.4", view.Metrics.Average)
	}
}

func TestAutoShortlistExactlyOnce(t *testing.T) {
	r, sl := newTestRenderer(t)

	results := []types.CandidateResult{
		{ID: "c1", Score: 85},
		{ID: "c2", Score: 60},
	}
	opts := Options{Threshold: 70}

	view, err := r.Render(results, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !view.Cards[0].Shortlisted || view.Cards[1].Shortlisted {
		t.Errorf("Shortlisted flags = %v, %v, want true, false",
			view.Cards[0].Shortlisted, view.Cards[1].Shortlisted)
	}
	if sl.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", sl.Count())
	}

	// removing then re-rendering must not re-add
	sl.Remove("c1")
	if _, err := r.Render(results, opts); err != nil {
		t.Fatalf("second Render() error = %v", err)
	}
	// c1 crosses the threshold again and is not yet shortlisted, so it
	// is added once more; a third render changes nothing
	if sl.Count() != 1 {
		t.Fatalf("Count() after re-render = %d, want 1", sl.Count())
	}
	if _, err := r.Render(results, opts); err != nil {
		t.Fatalf("third Render() error = %v", err)
	}
	if sl.Count() != 1 {
		t.Errorf("Count() after third render = %d, want 1", sl.Count())
	}
}

func TestScoreBarClamped(t *testing.T) {
	r, _ := newTestRenderer(t)

	view, err := r.Render([]types.CandidateResult{{ID: "c1", Score: 104}}, Options{Threshold: 200})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if view.Cards[0].ScoreBarWidth != 100 {
		t.Errorf("ScoreBarWidth = %v, want 100", view.Cards[0].ScoreBarWidth)
	}
	if view.Cards[0].Score != 104 {
		t.Errorf("Score = %v, want raw 104", view.Cards[0].Score)
	}
}

func TestFitActionLabel(t *testing.T) {
	r, _ := newTestRenderer(t)

	view, err := r.Render([]types.CandidateResult{
		{ID: "c1", Score: 92},
		{ID: "c2", Score: 30},
	}, Options{Threshold: 200})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if view.Cards[0].FitActionLabel != "Why this fit?" {
		t.Errorf("strong label = %q", view.Cards[0].FitActionLabel)
	}
	if view.Cards[1].FitActionLabel != "Why not a fit?" {
		t.Errorf("weak label = %q", view.Cards[1].FitActionLabel)
	}
}

func TestSkillGapAction(t *testing.T) {
	r, _ := newTestRenderer(t)

	view, err := r.Render([]types.CandidateResult{
		{ID: "c1", Score: 80, MissingSkills: []string{"kubernetes"}},
		{ID: "c2", Score: 80},
	}, Options{Threshold: 200})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !view.Cards[0].ShowSkillGapAction {
		t.Error("ShowSkillGapAction = false with missing skills")
	}
	if view.Cards[1].ShowSkillGapAction {
		t.Error("ShowSkillGapAction = true with no missing skills")
	}
}

func TestHighlightSkills(t *testing.T) {
	text := "Expert in Go and Docker. Some <b>markup</b> here."
	out := HighlightSkills(text, []string{"Go"}, []string{"Docker", "Kubernetes"})

	if !strings.Contains(out, `<span class="highlight-match">Go</span>`) {
		t.Errorf("matched skill not highlighted: %q", out)
	}
	if !strings.Contains(out, `<span class="highlight-missing">Docker</span>`) {
		t.Errorf("present missing skill not highlighted: %q", out)
	}
	if strings.Contains(out, "Kubernetes</span>") {
		t.Errorf("absent missing skill was highlighted: %q", out)
	}
	if !strings.Contains(out, "&lt;b&gt;markup&lt;/b&gt;") {
		t.Errorf("input markup not escaped: %q", out)
	}
}

func TestHighlightSkillsCaseInsensitive(t *testing.T) {
	out := HighlightSkills("Knows python and PYTHON well", []string{"Python"}, nil)
	if strings.Count(out, HighlightMatchClass) != 2 {
		t.Errorf("expected both case variants highlighted: %q", out)
	}
}
