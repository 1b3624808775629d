// Package extract pulls contact details out of raw resume and job
// description text using layered heuristics. Extractors are pluggable
// so a smarter implementation can replace the regex-based one without
// touching callers.
package extract

import (
	"regexp"
	"strings"
)

// Defaults returned when nothing usable is found in the text
const (
	DefaultName     = "Candidate"
	DefaultEmail    = "candidate@example.com"
	DefaultJobTitle = "the position"
)

// ContactExtractor extracts contact details from free-form resume text
type ContactExtractor interface {
	Name(resumeText string) string
	Email(resumeText string) string
	Phone(resumeText string) string
	JobTitle(jobDescription string) string
}

// HeuristicExtractor implements ContactExtractor with regex heuristics
type HeuristicExtractor struct{}

// NewHeuristicExtractor returns the default extractor
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

var (
	nameLabelRe = regexp.MustCompile(`(?i)^(name|full name|applicant|candidate)[:\s]+`)
	longDigits  = regexp.MustCompile(`\d{10,}`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\d{6,12}`),
		regexp.MustCompile(`\d{10,}`),
	}
	phoneStripRe = regexp.MustCompile(`[-.\s()]`)

	titleIntentRe  = regexp.MustCompile(`(?i)(?:hiring|looking for|seeking|position[:\s]+|role[:\s]+|job title[:\s]+)\s*(?:an?\s+)?([A-Za-z][A-Za-z+#/\s]{2,40}?)(?:\s+(?:to|who|with|at|in)\b|[.,\n]|$)`)
	titleKeywordRe = regexp.MustCompile(`(?i)\b((?:senior|junior|lead|staff|principal)?\s*[A-Za-z+#]+\s*(?:engineer|developer|designer|manager|analyst|scientist|architect|consultant|specialist))\b`)
)

// Name returns the candidate name from the first few lines of the resume.
// Lines containing an email address, a long digit run, or more than 50
// characters are skipped. Falls back to "Candidate".
func (e *HeuristicExtractor) Name(resumeText string) string {
	lines := strings.Split(resumeText, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = nameLabelRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "@") || longDigits.MatchString(line) || len(line) > 50 {
			continue
		}
		// drop anything after a comma or pipe separator
		if idx := strings.IndexAny(line, ",|"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line != "" {
			return line
		}
	}
	return DefaultName
}

// Email returns the first email address found, or a placeholder
func (e *HeuristicExtractor) Email(resumeText string) string {
	if m := emailRe.FindString(resumeText); m != "" {
		return m
	}
	return DefaultEmail
}

// Phone returns the first phone number found, normalized to bare digits.
// A leading US country code "1" on an 11-digit number is dropped.
// Returns "" when no number is found.
func (e *HeuristicExtractor) Phone(resumeText string) string {
	for _, re := range phonePatterns {
		m := re.FindString(resumeText)
		if m == "" {
			continue
		}
		digits := phoneStripRe.ReplaceAllString(m, "")
		digits = strings.TrimPrefix(digits, "+")
		if len(digits) == 11 && strings.HasPrefix(digits, "1") {
			digits = digits[1:]
		}
		if len(digits) >= 10 {
			return digits
		}
	}
	return ""
}

// JobTitle returns the role title mentioned in the first lines of the
// job description, or "the position" when none is found.
func (e *HeuristicExtractor) JobTitle(jobDescription string) string {
	lines := strings.Split(jobDescription, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	head := strings.Join(lines, "\n")

	if m := titleIntentRe.FindStringSubmatch(head); m != nil {
		title := strings.TrimSpace(m[1])
		if title != "" {
			return title
		}
	}
	if m := titleKeywordRe.FindStringSubmatch(head); m != nil {
		title := strings.TrimSpace(m[1])
		if title != "" {
			return title
		}
	}
	return DefaultJobTitle
}
