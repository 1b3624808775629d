package intake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smarthire/internal/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestPayloadRejectsEmptyJobDescription(t *testing.T) {
	c := NewCollector(0)
	c.AddText("some resume")

	_, _, err := c.Payload("   \n\t ")
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Fatalf("Payload() error = %v, want validation error", err)
	}
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingJobDescription {
		t.Errorf("error code = %v, want %s", err, errors.ErrCodeMissingJobDescription)
	}
}

func TestPayloadRejectsNoResumes(t *testing.T) {
	c := NewCollector(0)
	c.AddText("   ")

	_, _, err := c.Payload("Backend Engineer")
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.Code != errors.ErrCodeNoResumes {
		t.Fatalf("Payload() error = %v, want %s", err, errors.ErrCodeNoResumes)
	}
}

func TestPayloadTextRows(t *testing.T) {
	c := NewCollector(0)
	c.AddText("resume one")
	c.AddText("")
	c.AddText("resume two")

	sub, attachments, err := c.Payload("Backend Engineer")
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if len(attachments) != 0 {
		t.Errorf("attachments = %d, want 0", len(attachments))
	}
	if len(sub.Resumes) != 2 {
		t.Fatalf("resumes = %d, want 2 (blank row skipped)", len(sub.Resumes))
	}
	// IDs are renumbered over non-empty rows
	if sub.Resumes[0].ID != "1" || sub.Resumes[1].ID != "2" {
		t.Errorf("IDs = %q, %q, want 1, 2", sub.Resumes[0].ID, sub.Resumes[1].ID)
	}
	if sub.JobDescription != "Backend Engineer" {
		t.Errorf("JobDescription = %q", sub.JobDescription)
	}
}

func TestPayloadTextFileBecomesTextRow(t *testing.T) {
	c := NewCollector(0)
	path := writeTemp(t, "resume.txt", "Jane Doe\nGo developer")
	if err := c.AddFile(path); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}

	sub, attachments, err := c.Payload("Backend Engineer")
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if len(attachments) != 0 || len(sub.Resumes) != 1 {
		t.Fatalf("got %d attachments, %d resumes", len(attachments), len(sub.Resumes))
	}
	if !strings.Contains(sub.Resumes[0].Text, "Jane Doe") {
		t.Errorf("text row = %q", sub.Resumes[0].Text)
	}
}

func TestPayloadBinaryFileBecomesAttachment(t *testing.T) {
	c := NewCollector(0)
	path := writeTemp(t, "resume.pdf", "%PDF-1.4 fake")
	if err := c.AddFile(path); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}

	sub, attachments, err := c.Payload("Backend Engineer")
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if len(sub.Resumes) != 0 {
		t.Errorf("resumes = %d, want 0", len(sub.Resumes))
	}
	if len(attachments) != 1 || attachments[0].Name != "resume.pdf" {
		t.Fatalf("attachments = %+v", attachments)
	}
}

func TestAddFileValidation(t *testing.T) {
	c := NewCollector(5)

	if err := c.AddFile("/nonexistent/resume.pdf"); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("AddFile(missing) error = %v, want validation error", err)
	}

	big := writeTemp(t, "big.pdf", "more than five bytes")
	if err := c.AddFile(big); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("AddFile(oversize) error = %v, want validation error", err)
	}
	if c.Count() != 0 {
		t.Errorf("Count() = %d after rejected adds, want 0", c.Count())
	}
}

func TestRemoveRenumbers(t *testing.T) {
	c := NewCollector(0)
	c.AddText("first")
	c.AddText("second")
	c.AddText("third")

	if !c.Remove(2) {
		t.Fatal("Remove(2) = false")
	}
	if c.Remove(3) {
		t.Error("Remove(3) = true after shrink")
	}

	desc := c.Describe()
	if len(desc) != 2 {
		t.Fatalf("Describe() = %v", desc)
	}
	if !strings.HasPrefix(desc[0], "1:") || !strings.Contains(desc[0], "first") {
		t.Errorf("desc[0] = %q", desc[0])
	}
	if !strings.HasPrefix(desc[1], "2:") || !strings.Contains(desc[1], "third") {
		t.Errorf("desc[1] = %q", desc[1])
	}
}
