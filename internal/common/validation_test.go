package common

import (
	"testing"

	"smarthire/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{"known format", "json", supported, false},
		{"unknown format", "xml", supported, true},
		{"case sensitive", "JSON", supported, true},
		{"empty format", "", supported, true},
		{"no restriction", "xml", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputFormatErrorCode(t *testing.T) {
	err := ValidateOutputFormat("xml", []string{"json"})

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("Code = %q, want %q", appErr.Code, errors.ErrCodeInvalidFormat)
	}
}
