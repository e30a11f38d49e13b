package errors

import (
	"strings"
	"testing"
)

func TestValidateWindowHandle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "term", false},
		{"valid hex address", "0x55d1c3a0", false},
		{"valid uuid", "6f1c2a8e-3b0f-4c9a-9a52-1e7d2f4b8c11", false},
		{"valid with spaces", "my window", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindowHandle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWindowHandle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidHandle) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidHandle)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"splith", "splith", false},
		{"splitv", "splitv", false},
		{"unknown keyword passes", "togglegroup", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 65), true},
		{"control char", "split\x01h", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
