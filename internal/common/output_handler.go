package common

import (
	"fmt"

	"smarthire/internal/errors"
	"smarthire/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile != "" {
		if err := oh.fileProcessor.WriteFile(config.OutputFile, output); err != nil {
			return err
		}
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	} else {
		fmt.Print(output)
	}

	return nil
}

// HandleBinaryOutput writes raw export bytes to a file
func (oh *OutputHandler) HandleBinaryOutput(data []byte, filename string) error {
	if filename == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"an output file is required for binary exports", nil)
	}
	if err := oh.fileProcessor.ValidateOutputFile(filename); err != nil {
		return err
	}
	if err := oh.fileProcessor.WriteBinaryFile(filename, data); err != nil {
		return err
	}
	oh.logger.Info("Export written successfully", "file", filename)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
