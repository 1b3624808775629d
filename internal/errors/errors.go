package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeRequest         ErrorType = "request"
	ErrorTypeExport          ErrorType = "export"
	ErrorTypeAI              ErrorType = "ai"
	ErrorTypeFeatureDisabled ErrorType = "feature_disabled"
	ErrorTypeStorage         ErrorType = "storage"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeInternal        ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// newAppError is an unexported helper to create AppError instances
func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewRequestError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeRequest, code, message, cause)
}

func NewExportError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeExport, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewFeatureDisabledError(code, message string) *AppError {
	return newAppError(ErrorTypeFeatureDisabled, code, message, nil)
}

func NewStorageError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeStorage, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsType reports whether err is an AppError of the given type,
// unwrapping as needed
func IsType(err error, typ ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == typ
}

// As is a convenience re-export of the standard errors.As
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is a convenience re-export of the standard errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	if appErr, ok := err.(*AppError); ok {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}

		// Add context if available
		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		// Add additional args
		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		// Regular error
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeMissingJobDescription = "MISSING_JOB_DESCRIPTION"
	ErrCodeNoResumes             = "NO_RESUMES"
	ErrCodeFileNotFound          = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable       = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat         = "INVALID_FORMAT"
	ErrCodeRequestFailed         = "REQUEST_FAILED"
	ErrCodeBadStatus             = "BAD_STATUS"
	ErrCodeExportFailed          = "EXPORT_FAILED"
	ErrCodeAIGenerationFailed    = "AI_GENERATION_FAILED"
	ErrCodeAIDisabled            = "AI_DISABLED"
	ErrCodeStorageFailed         = "STORAGE_FAILED"
	ErrCodeInvalidConfig         = "INVALID_CONFIG"
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeMissingAPIKey         = "MISSING_API_KEY"
)
