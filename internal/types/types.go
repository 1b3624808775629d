package types

// ComponentScores holds the three sub-scores composing the overall relevance score
type ComponentScores struct {
	Skills     float64 `json:"skills"`
	Semantic   float64 `json:"semantic"`
	Experience float64 `json:"experience"`
}

// CandidateResult represents one scored candidate as returned by the screening backend.
// IDs are unique within a single screening run, not across runs.
type CandidateResult struct {
	ID              string          `json:"id"`
	AnonymizedName  string          `json:"anonymized_name"`
	Score           float64         `json:"score"`
	MatchLabel      string          `json:"match_label"`
	ComponentScores ComponentScores `json:"component_scores"`
	MatchedSkills   []string        `json:"matched_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	ResumeText      string          `json:"resume_text"`
	Explanation     string          `json:"explanation,omitempty"`
	GapMessage      string          `json:"gap_message,omitempty"`
	QualityScore    *float64        `json:"quality_score,omitempty"`
	QualityIssues   []string        `json:"quality_issues,omitempty"`
	ExperienceYears int             `json:"resume_exp,omitempty"`
}

// ResumeEntry is one pasted-text resume in a screening submission
type ResumeEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ScreeningSubmission is the payload sent to the screening backend.
// JobDescription must be non-empty after trimming; Resumes may be empty
// only when file attachments accompany the submission.
type ScreeningSubmission struct {
	JobDescription string        `json:"job_description"`
	Resumes        []ResumeEntry `json:"resumes"`
}

// EmailDraft is a generated subject/body pair for a candidate email
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Settings holds the user-tunable client settings. BlindMode is
// session-only and never persisted.
type Settings struct {
	Theme          string `json:"theme"`
	ScoreThreshold int    `json:"scoreThreshold"`
	GenAIEnabled   bool   `json:"genAIEnabled"`
	BlindMode      bool   `json:"-"`
}

// Themes supported by the client
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultSettings returns the settings used before anything is persisted
func DefaultSettings() Settings {
	return Settings{
		Theme:          ThemeDark,
		ScoreThreshold: 70,
		GenAIEnabled:   true,
	}
}
