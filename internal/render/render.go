// Package render builds a pure view model from screening results. It
// performs no output itself; formatters turn the view into text, JSON,
// or markdown for the terminal.
package render

import (
	"math"

	"smarthire/internal/shortlist"
	"smarthire/internal/types"
)

// Match tiers
const (
	TierStrong   = "strong"
	TierModerate = "moderate"
	TierWeak     = "weak"
)

// TierFor maps a score to its match tier
func TierFor(score float64) string {
	switch {
	case score >= 90:
		return TierStrong
	case score >= 50:
		return TierModerate
	default:
		return TierWeak
	}
}

// Options controls how results are rendered
type Options struct {
	Blind        bool
	Threshold    int
	GenAIEnabled bool
}

// Metrics summarizes a result set
type Metrics struct {
	Total   int     `json:"total"`
	Top     float64 `json:"top"`
	Average float64 `json:"average"`
}

// Card is the view model for a single candidate
type Card struct {
	ID                 string                `json:"id"`
	DisplayName        string                `json:"display_name"`
	Score              float64               `json:"score"`
	ScoreBarWidth      float64               `json:"score_bar_width"`
	Tier               string                `json:"tier"`
	MatchLabel         string                `json:"match_label"`
	ComponentScores    types.ComponentScores `json:"component_scores"`
	MatchedSkills      []string              `json:"matched_skills"`
	MissingSkills      []string              `json:"missing_skills"`
	Explanation        string                `json:"explanation,omitempty"`
	GapMessage         string                `json:"gap_message,omitempty"`
	QualityScore       *float64              `json:"quality_score,omitempty"`
	QualityIssues      []string              `json:"quality_issues,omitempty"`
	ExperienceYears    int                   `json:"experience_years,omitempty"`
	Shortlisted        bool                  `json:"shortlisted"`
	FitActionLabel     string                `json:"fit_action_label"`
	ShowSkillGapAction bool                  `json:"show_skill_gap_action"`
	AIEnabled          bool                  `json:"ai_enabled"`
}

// View is the complete render output for one result set
type View struct {
	Empty   bool    `json:"empty"`
	Blind   bool    `json:"blind"`
	Metrics Metrics `json:"metrics"`
	Cards   []Card  `json:"cards"`
}

// Renderer builds views and applies the auto-shortlist rule
type Renderer struct {
	shortlist *shortlist.Manager
}

// NewRenderer creates a renderer writing auto-shortlist decisions
// through the given manager
func NewRenderer(sl *shortlist.Manager) *Renderer {
	return &Renderer{shortlist: sl}
}

// Render builds the view for the given results. Candidates scoring at
// or above the threshold are shortlisted before card construction, at
// most once per candidate ID.
func (r *Renderer) Render(results []types.CandidateResult, opts Options) (View, error) {
	if len(results) == 0 {
		return View{Empty: true, Blind: opts.Blind}, nil
	}

	for _, c := range results {
		if c.Score >= float64(opts.Threshold) && !r.shortlist.Contains(c.ID) {
			if _, err := r.shortlist.Add(c); err != nil {
				return View{}, err
			}
		}
	}

	view := View{
		Blind:   opts.Blind,
		Metrics: computeMetrics(results),
		Cards:   make([]Card, 0, len(results)),
	}
	for _, c := range results {
		view.Cards = append(view.Cards, r.buildCard(c, opts))
	}
	return view, nil
}

func (r *Renderer) buildCard(c types.CandidateResult, opts Options) Card {
	tier := TierFor(c.Score)

	fitLabel := "Why this fit?"
	if tier == TierWeak {
		fitLabel = "Why not a fit?"
	}

	return Card{
		ID:                 c.ID,
		DisplayName:        c.AnonymizedName,
		Score:              c.Score,
		ScoreBarWidth:      math.Min(c.Score, 100),
		Tier:               tier,
		MatchLabel:         c.MatchLabel,
		ComponentScores:    c.ComponentScores,
		MatchedSkills:      c.MatchedSkills,
		MissingSkills:      c.MissingSkills,
		Explanation:        c.Explanation,
		GapMessage:         c.GapMessage,
		QualityScore:       c.QualityScore,
		QualityIssues:      c.QualityIssues,
		ExperienceYears:    c.ExperienceYears,
		Shortlisted:        r.shortlist.Contains(c.ID),
		FitActionLabel:     fitLabel,
		ShowSkillGapAction: len(c.MissingSkills) > 0,
		AIEnabled:          opts.GenAIEnabled,
	}
}

// computeMetrics derives summary stats. Top and Average are rounded to
// one decimal place.
func computeMetrics(results []types.CandidateResult) Metrics {
	m := Metrics{Total: len(results)}

	var sum float64
	for _, c := range results {
		sum += c.Score
		if c.Score > m.Top {
			m.Top = c.Score
		}
	}
	m.Top = round1(m.Top)
	m.Average = round1(sum / float64(len(results)))
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
