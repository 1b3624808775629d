// Package intake gathers candidate resumes, as pasted text or file
// attachments, and validates them into a screening submission.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"smarthire/internal/errors"
	"smarthire/internal/types"
	"smarthire/internal/utils"
)

// FileAttachment is a resume file submitted for server-side extraction
type FileAttachment struct {
	Name string
	Data []byte
}

type row struct {
	text string
	path string
	size int64
}

// Collector accumulates resume rows. Row numbers always reflect the
// current visible order: removing a row renumbers those after it.
type Collector struct {
	mu          sync.Mutex
	rows        []row
	maxFileSize int64
}

// NewCollector creates a collector. maxFileSize of zero disables the
// size check.
func NewCollector(maxFileSize int64) *Collector {
	return &Collector{maxFileSize: maxFileSize}
}

// AddText appends a pasted-text resume row
func (c *Collector) AddText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row{text: text})
}

// AddFile appends a resume file row after checking it exists and is
// within the size limit
func (c *Collector) AddFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("resume file not found: %s", path), err)
	}
	if info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("%s is a directory", path), nil)
	}
	if c.maxFileSize > 0 && info.Size() > c.maxFileSize {
		return errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("%s exceeds the maximum file size", path), nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row{path: path, size: info.Size()})
	return nil
}

// Remove deletes the 1-based row n. Returns false if n is out of range.
func (c *Collector) Remove(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.rows) {
		return false
	}
	c.rows = append(c.rows[:n-1], c.rows[n:]...)
	return true
}

// Count returns the number of rows
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Describe returns one human-readable line per row, numbered by the
// current order
func (c *Collector) Describe() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.rows))
	for i, r := range c.rows {
		if r.path != "" {
			out = append(out, fmt.Sprintf("%d: file %s (%s)",
				i+1, filepath.Base(r.path), utils.FormatFileSize(r.size)))
			continue
		}
		preview := strings.TrimSpace(r.text)
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		out = append(out, fmt.Sprintf("%d: text %q", i+1, preview))
	}
	return out
}

// Reset clears all rows
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
}

// Payload validates the collected input and builds the submission.
// Text files become text rows; other files become attachments. The
// returned errors are validation errors raised before any network use.
func (c *Collector) Payload(jobDescription string) (types.ScreeningSubmission, []FileAttachment, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return types.ScreeningSubmission{}, nil, errors.NewValidationError(
			errors.ErrCodeMissingJobDescription, "job description is required", nil)
	}

	c.mu.Lock()
	rows := make([]row, len(c.rows))
	copy(rows, c.rows)
	c.mu.Unlock()

	submission := types.ScreeningSubmission{
		JobDescription: jobDescription,
		Resumes:        []types.ResumeEntry{},
	}
	var attachments []FileAttachment

	next := 1
	for _, r := range rows {
		if r.path == "" {
			if strings.TrimSpace(r.text) == "" {
				continue
			}
			submission.Resumes = append(submission.Resumes, types.ResumeEntry{
				ID:   strconv.Itoa(next),
				Text: r.text,
			})
			next++
			continue
		}

		data, err := os.ReadFile(r.path)
		if err != nil {
			return types.ScreeningSubmission{}, nil, errors.NewIOError(
				errors.ErrCodeFileNotReadable,
				fmt.Sprintf("failed to read %s", r.path), err)
		}
		if utils.IsTextFile(r.path) {
			submission.Resumes = append(submission.Resumes, types.ResumeEntry{
				ID:   strconv.Itoa(next),
				Text: string(data),
			})
			next++
			continue
		}
		attachments = append(attachments, FileAttachment{
			Name: filepath.Base(r.path),
			Data: data,
		})
	}

	if len(submission.Resumes) == 0 && len(attachments) == 0 {
		return types.ScreeningSubmission{}, nil, errors.NewValidationError(
			errors.ErrCodeNoResumes, "at least one resume is required", nil)
	}
	return submission, attachments, nil
}
