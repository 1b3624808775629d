package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"smarthire/internal/errors"
	"smarthire/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			if fp.logger != nil {
				fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
			}
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	return fp.WriteBinaryFile(filename, []byte(content))
}

// WriteBinaryFile writes raw bytes, used for CSV and report exports
func (fp *FileProcessor) WriteBinaryFile(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, data, 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadResumeFile validates and reads a resume file. Text files warn
// when they look binary; binary resume formats are accepted as-is for
// server-side extraction.
func (fp *FileProcessor) ReadResumeFile(filename string) ([]byte, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if !utils.IsResumeFile(filename) {
		if fp.logger != nil {
			fp.logger.Warn("File does not look like a resume format", "filename", filename)
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return data, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
