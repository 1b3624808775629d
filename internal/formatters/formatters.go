package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"smarthire/internal/contact"
	"smarthire/internal/render"
	"smarthire/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "View", &ViewTextFormatter{})
	registry.RegisterFormatter("markdown", "View", &ViewMarkdownFormatter{})
	registry.RegisterFormatter("text", "Shortlist", &ShortlistTextFormatter{})
	registry.RegisterFormatter("markdown", "Shortlist", &ShortlistMarkdownFormatter{})
	registry.RegisterFormatter("text", "Draft", &DraftTextFormatter{})
	registry.RegisterFormatter("markdown", "Draft", &DraftTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

// ShortlistOutput wraps shortlist entries for formatting
type ShortlistOutput struct {
	Entries []types.CandidateResult `json:"entries"`
}

func getDataType(data any) string {
	switch data.(type) {
	case render.View:
		return "View"
	case ShortlistOutput:
		return "Shortlist"
	case contact.Draft:
		return "Draft"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ViewTextFormatter handles text formatting for screening views
type ViewTextFormatter struct{}

func (vtf *ViewTextFormatter) Format(data any) (string, error) {
	view, ok := data.(render.View)
	if !ok {
		return "", fmt.Errorf("expected render.View, got %T", data)
	}

	var output strings.Builder

	if view.Empty {
		output.WriteString("No results yet. Run a screening to see candidates here.\n")
		return output.String(), nil
	}

	output.WriteString("=== SCREENING RESULTS ===\n")
	if view.Blind {
		output.WriteString("(blind screening mode: names and institutions masked)\n")
	}
	output.WriteString(fmt.Sprintf("Candidates: %d | Top score: %.1f | Average: %.1f\n\n",
		view.Metrics.Total, view.Metrics.Top, view.Metrics.Average))

	for i, card := range view.Cards {
		output.WriteString(fmt.Sprintf("--- %d. %s ---\n", i+1, card.DisplayName))
		output.WriteString(fmt.Sprintf("Score: %.1f (%s) %s\n", card.Score, card.Tier, scoreBar(card.ScoreBarWidth)))
		if card.MatchLabel != "" {
			output.WriteString(fmt.Sprintf("Match: %s\n", card.MatchLabel))
		}
		output.WriteString(fmt.Sprintf("Components: skills %.1f, semantic %.1f, experience %.1f\n",
			card.ComponentScores.Skills, card.ComponentScores.Semantic, card.ComponentScores.Experience))
		output.WriteString("Matched skills: " + joinSkills(card.MatchedSkills, "None detected") + "\n")
		output.WriteString("Missing skills: " + joinSkills(card.MissingSkills, "None") + "\n")
		if card.ExperienceYears > 0 {
			output.WriteString(fmt.Sprintf("Experience: %d years\n", card.ExperienceYears))
		}
		if card.QualityScore != nil {
			output.WriteString(fmt.Sprintf("Resume quality: %.1f\n", *card.QualityScore))
			for _, issue := range card.QualityIssues {
				output.WriteString("  - " + issue + "\n")
			}
		}
		if card.Explanation != "" {
			output.WriteString("Explanation: " + card.Explanation + "\n")
		}
		if card.GapMessage != "" {
			output.WriteString("Skill gap: " + card.GapMessage + "\n")
		}
		if card.Shortlisted {
			output.WriteString("[shortlisted]\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (vtf *ViewTextFormatter) SupportedType() string {
	return "View"
}

// scoreBar renders a 20-character progress bar for a 0-100 width
func scoreBar(width float64) string {
	filled := int(width / 5)
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 20-filled) + "]"
}

// joinSkills joins a skill list, substituting placeholder text when
// the list is empty
func joinSkills(skills []string, empty string) string {
	if len(skills) == 0 {
		return empty
	}
	return strings.Join(skills, ", ")
}

// ViewMarkdownFormatter handles markdown formatting for screening views
type ViewMarkdownFormatter struct{}

func (vmf *ViewMarkdownFormatter) Format(data any) (string, error) {
	view, ok := data.(render.View)
	if !ok {
		return "", fmt.Errorf("expected render.View, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Screening Results\n\n")
	if view.Empty {
		output.WriteString("No results yet.\n")
		return output.String(), nil
	}
	if view.Blind {
		output.WriteString("_Blind screening mode: names and institutions masked._\n\n")
	}
	output.WriteString(fmt.Sprintf("**Candidates:** %d | **Top:** %.1f | **Average:** %.1f\n\n",
		view.Metrics.Total, view.Metrics.Top, view.Metrics.Average))

	for _, card := range view.Cards {
		output.WriteString(fmt.Sprintf("## %s\n\n", card.DisplayName))
		output.WriteString(fmt.Sprintf("**Score:** %.1f (%s)\n\n", card.Score, card.Tier))
		output.WriteString(fmt.Sprintf("| Skills | Semantic | Experience |\n|---|---|---|\n| %.1f | %.1f | %.1f |\n\n",
			card.ComponentScores.Skills, card.ComponentScores.Semantic, card.ComponentScores.Experience))
		output.WriteString("**Matched:** " + joinSkills(card.MatchedSkills, "None detected") + "\n\n")
		output.WriteString("**Missing:** " + joinSkills(card.MissingSkills, "None") + "\n\n")
		if card.Explanation != "" {
			output.WriteString(card.Explanation + "\n\n")
		}
		if card.Shortlisted {
			output.WriteString("_Shortlisted_\n\n")
		}
	}

	return output.String(), nil
}

func (vmf *ViewMarkdownFormatter) SupportedType() string {
	return "View"
}

// ShortlistTextFormatter handles text formatting for shortlist output
type ShortlistTextFormatter struct{}

func (stf *ShortlistTextFormatter) Format(data any) (string, error) {
	out, ok := data.(ShortlistOutput)
	if !ok {
		return "", fmt.Errorf("expected ShortlistOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== SHORTLIST ===\n")
	if len(out.Entries) == 0 {
		output.WriteString("No shortlisted candidates.\n")
		return output.String(), nil
	}
	for i, c := range out.Entries {
		output.WriteString(fmt.Sprintf("%d. %s (id %s) score %.1f\n", i+1, c.AnonymizedName, c.ID, c.Score))
		if len(c.MatchedSkills) > 0 {
			output.WriteString("   skills: " + strings.Join(c.MatchedSkills, ", ") + "\n")
		}
	}
	return output.String(), nil
}

func (stf *ShortlistTextFormatter) SupportedType() string {
	return "Shortlist"
}

// ShortlistMarkdownFormatter handles markdown formatting for shortlist output
type ShortlistMarkdownFormatter struct{}

func (smf *ShortlistMarkdownFormatter) Format(data any) (string, error) {
	out, ok := data.(ShortlistOutput)
	if !ok {
		return "", fmt.Errorf("expected ShortlistOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Shortlist\n\n")
	if len(out.Entries) == 0 {
		output.WriteString("No shortlisted candidates.\n")
		return output.String(), nil
	}
	output.WriteString("| # | Candidate | ID | Score |\n|---|---|---|---|\n")
	for i, c := range out.Entries {
		output.WriteString(fmt.Sprintf("| %d | %s | %s | %.1f |\n", i+1, c.AnonymizedName, c.ID, c.Score))
	}
	return output.String(), nil
}

func (smf *ShortlistMarkdownFormatter) SupportedType() string {
	return "Shortlist"
}

// DraftTextFormatter handles text formatting for outreach drafts
type DraftTextFormatter struct{}

func (dtf *DraftTextFormatter) Format(data any) (string, error) {
	d, ok := data.(contact.Draft)
	if !ok {
		return "", fmt.Errorf("expected contact.Draft, got %T", data)
	}

	var output strings.Builder
	output.WriteString("To: " + d.Name + " <" + d.Email + ">\n")
	output.WriteString("Subject: " + d.Subject + "\n\n")
	output.WriteString(d.Body + "\n\n")
	output.WriteString("mailto: " + d.MailtoURL + "\n")
	if d.WhatsAppURL != "" {
		output.WriteString("whatsapp: " + d.WhatsAppURL + "\n")
	}
	return output.String(), nil
}

func (dtf *DraftTextFormatter) SupportedType() string {
	return "Draft"
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
