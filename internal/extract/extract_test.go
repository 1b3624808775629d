package extract

import "testing"

func TestName(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled name line",
			text: "Name: Jane Doe\nSoftware Engineer\njane@example.com",
			want: "Jane Doe",
		},
		{
			name: "plain first line",
			text: "John Smith\n5 years of Go experience",
			want: "John Smith",
		},
		{
			name: "skips email line",
			text: "jane@example.com\nJane Doe",
			want: "Jane Doe",
		},
		{
			name: "skips long digit runs",
			text: "4155550100123\nJane Doe",
			want: "Jane Doe",
		},
		{
			name: "comma separator keeps first part",
			text: "Jane Doe, PhD\nResearcher",
			want: "Jane Doe",
		},
		{
			name: "pipe separator keeps first part",
			text: "Jane Doe | Backend Engineer",
			want: "Jane Doe",
		},
		{
			name: "candidate label stripped",
			text: "Candidate: Alex Chen\nDesigner",
			want: "Alex Chen",
		},
		{
			name: "nothing usable",
			text: "jane@example.com\n4155550100\nthis line is definitely way too long to plausibly be a person's name at all",
			want: DefaultName,
		},
		{
			name: "empty input",
			text: "",
			want: DefaultName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Name(tt.text); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Contact: jane.doe@example.com", "jane.doe@example.com"},
		{"with plus tag", "mail me at dev+hiring@company.io please", "dev+hiring@company.io"},
		{"first of several", "a@x.com b@y.com", "a@x.com"},
		{"absent", "no contact info here", DefaultEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Email(tt.text); got != tt.want {
				t.Errorf("Email() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"us grouped with country code", "Phone: +1 (415) 555-0100", "4155550100"},
		{"dotted", "415.555.0100", "4155550100"},
		{"bare ten digits", "call 4155550100 now", "4155550100"},
		{"dashed", "415-555-0100", "4155550100"},
		{"eleven digits with leading one", "14155550100", "4155550100"},
		{"absent", "no number here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Phone(tt.text); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestJobTitle(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "hiring phrase",
			text: "We are hiring a Senior Backend Engineer to join our team.",
			want: "Senior Backend Engineer",
		},
		{
			name: "looking for phrase",
			text: "Looking for Data Scientist with 3+ years experience",
			want: "Data Scientist",
		},
		{
			name: "keyword fallback",
			text: "Software Engineer\nRemote, full time",
			want: "Software Engineer",
		},
		{
			name: "only first three lines considered",
			text: "line one\nline two\nline three\nhiring a Frontend Developer",
			want: DefaultJobTitle,
		},
		{
			name: "nothing found",
			text: "Great benefits and a friendly team.",
			want: DefaultJobTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.JobTitle(tt.text); got != tt.want {
				t.Errorf("JobTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
