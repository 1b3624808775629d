// Package contact assembles candidate outreach: email drafts, mailto
// and WhatsApp links, and shortlist contact exports. Drafts come from
// the AI backend when enabled and fall back to fixed templates.
package contact

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"smarthire/internal/backend"
	"smarthire/internal/errors"
	"smarthire/internal/extract"
	"smarthire/internal/types"
)

// Assembler builds outreach artifacts for candidates
type Assembler struct {
	client    *backend.Client
	extractor extract.ContactExtractor
	logger    *errors.Logger
}

// NewAssembler creates an assembler
func NewAssembler(client *backend.Client, extractor extract.ContactExtractor, logger *errors.Logger) *Assembler {
	return &Assembler{client: client, extractor: extractor, logger: logger}
}

// Draft is a complete outreach package for one candidate
type Draft struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Body        string
	MailtoURL   string
	WhatsAppURL string
}

// Compose builds an outreach draft of the given kind. When the AI
// backend is unavailable or disabled, a fixed template is used.
func (a *Assembler) Compose(ctx context.Context, kind backend.EmailKind, jobDescription string, c types.CandidateResult) (Draft, error) {
	name := a.extractor.Name(c.ResumeText)
	email := a.extractor.Email(c.ResumeText)
	phone := a.extractor.Phone(c.ResumeText)
	title := a.extractor.JobTitle(jobDescription)

	var subject, body string
	generated, err := a.client.DraftEmail(ctx, kind, jobDescription, c)
	switch {
	case err == nil && generated.Subject != "" && generated.Body != "":
		subject, body = generated.Subject, generated.Body
	case errors.IsType(err, errors.ErrorTypeFeatureDisabled):
		subject, body = template(kind, name, title)
	case err != nil:
		a.logger.LogError(err, "email draft generation failed, using template", "kind", string(kind))
		subject, body = template(kind, name, title)
	default:
		subject, body = template(kind, name, title)
	}

	subject = dedupePosition(subject)
	body = dedupePosition(body)

	d := Draft{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Subject:   subject,
		Body:      body,
		MailtoURL: MailtoURL(email, subject, body),
	}
	if phone != "" {
		d.WhatsAppURL = WhatsAppURL(phone, name)
	}
	return d, nil
}

// cleanTitle substitutes a neutral phrase when no job title could be
// extracted, so templates never read "the the position"
func cleanTitle(title string) string {
	if title == "" || title == extract.DefaultJobTitle {
		return "this role"
	}
	return title
}

func template(kind backend.EmailKind, name, title string) (string, string) {
	title = cleanTitle(title)
	switch kind {
	case backend.EmailRejection:
		return fmt.Sprintf("Application Update – %s", title),
			fmt.Sprintf("Dear %s,\n\nThank you for your interest in the %s and for taking the time "+
				"to apply.\n\nAfter careful consideration, we have decided to move forward with other "+
				"candidates whose profiles more closely match our current requirements.\n\nWe appreciate "+
				"your interest in our company and encourage you to apply for future positions that may "+
				"be a better fit for your background.\n\nBest regards,\nHR Team\nSmartHire", name, title)
	case backend.EmailInterview:
		return fmt.Sprintf("Interview Invitation – %s", title),
			fmt.Sprintf("Dear %s,\n\nWe are pleased to invite you for an interview for the %s.\n\n"+
				"Please let us know your availability over the next week, and we will schedule a time "+
				"that works for you. The interview will be approximately 45-60 minutes.\n\nWe look "+
				"forward to meeting you.\n\nBest regards,\nHR Team\nSmartHire", name, title)
	default:
		return fmt.Sprintf("Interview Invitation – %s", title),
			fmt.Sprintf("Dear %s,\n\nCongratulations! You have been shortlisted for the %s based on "+
				"your skills and experience.\n\nWe would like to schedule an interview to discuss this "+
				"opportunity further. Please reply to this email with your availability, and we will "+
				"coordinate a convenient time.\n\nBest regards,\nHR Team\nSmartHire", name, title)
	}
}

var (
	positionPositionRe    = regexp.MustCompile(`(?i)\bposition\s+position\b`)
	thePositionPositionRe = regexp.MustCompile(`(?i)\bthe\s+position\s+position\b`)
)

// dedupePosition cleans up doubled "position" wording that appears
// when an extracted title already ends with the word
func dedupePosition(s string) string {
	s = thePositionPositionRe.ReplaceAllString(s, "this role")
	return positionPositionRe.ReplaceAllString(s, "position")
}

// MailtoURL builds a mailto link. Spaces are encoded as %20 rather
// than +, which mail clients do not decode.
func MailtoURL(email, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		email, mailtoEscape(subject), mailtoEscape(body))
}

func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// WhatsAppURL builds a wa.me link with a prefilled interview invitation
func WhatsAppURL(phone, name string) string {
	msg := fmt.Sprintf("Hello %s, you have been shortlisted for an interview. "+
		"Please reply to schedule a convenient time.", name)
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, mailtoEscape(msg))
}

// ContactsCSV renders the shortlist as a CSV of extracted contact
// details, one row per candidate.
func ContactsCSV(extractor extract.ContactExtractor, shortlisted []types.CandidateResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "Email", "Score", "Matched Skills"}); err != nil {
		return nil, errors.NewExportError(errors.ErrCodeExportFailed, "failed to write CSV header", err)
	}
	for _, c := range shortlisted {
		record := []string{
			extractor.Name(c.ResumeText),
			extractor.Email(c.ResumeText),
			fmt.Sprintf("%g", c.Score),
			strings.Join(c.MatchedSkills, "; "),
		}
		if err := w.Write(record); err != nil {
			return nil, errors.NewExportError(errors.ErrCodeExportFailed, "failed to write CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.NewExportError(errors.ErrCodeExportFailed, "failed to flush CSV", err)
	}
	return buf.Bytes(), nil
}
