package render

import (
	"html"
	"regexp"
	"strings"

	"smarthire/internal/redact"
	"smarthire/internal/types"
)

// CSS classes applied to highlighted skill mentions
const (
	HighlightMatchClass   = "highlight-match"
	HighlightMissingClass = "highlight-missing"
)

// HighlightSkills escapes the resume text and wraps matched and missing
// skill mentions in highlight spans. Missing skills are highlighted
// only where they actually occur in the text.
func HighlightSkills(resumeText string, matched, missing []string) string {
	out := html.EscapeString(resumeText)
	lower := strings.ToLower(resumeText)

	for _, skill := range matched {
		out = wrapSkill(out, skill, HighlightMatchClass)
	}
	for _, skill := range missing {
		if strings.Contains(lower, strings.ToLower(skill)) {
			out = wrapSkill(out, skill, HighlightMissingClass)
		}
	}
	return out
}

func wrapSkill(text, skill, class string) string {
	if strings.TrimSpace(skill) == "" {
		return text
	}
	escaped := regexp.QuoteMeta(html.EscapeString(skill))
	re, err := regexp.Compile(`(?i)\b` + escaped + `\b`)
	if err != nil {
		return text
	}
	return re.ReplaceAllString(text, `<span class="`+class+`">$0</span>`)
}

// Preview produces the highlighted, optionally redacted, HTML preview
// of a candidate's resume
func (r *Renderer) Preview(engine *redact.Engine, c types.CandidateResult, blind bool) (string, error) {
	highlighted := HighlightSkills(c.ResumeText, c.MatchedSkills, c.MissingSkills)
	return engine.Redact(highlighted, c.ResumeText, blind)
}
