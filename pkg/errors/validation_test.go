package errors

import (
	"strings"
	"testing"
)

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"with dash", "q3-roadmap", false},
		{"with dot and underscore", "team_a.v2", false},
		{"digits first", "2026", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"path traversal", "a..b", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"hidden", ".secret", true},
		{"space", "my doc", true},
		{"colon", "doc:nodes", true},
		{"null byte", "doc\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"node id", "node-1", false},
		{"edge id", "edge-0b7e3c9a-1f0e-4a53-9d6b-5f1c2a3b4c5d", false},
		{"imported id", "custom_42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("n", 129), true},
		{"space", "node 1", true},
		{"newline", "node\n1", true},
		{"control char", "node\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "Write tests", false},
		{"multi-line", "line one\nline two", false},
		{"tab", "a\tb", false},
		{"unicode", "Döne ✓", false},

		{"too long", strings.Repeat("x", MaxLabelLength+1), true},
		{"bell", "ding\a", true},
		{"carriage return", "a\rb", true},
		{"invalid utf8", "\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#10b981", false},
		{"#FFF", false},
		{"#6EE7B7", false},

		{"", true},
		{"10b981", true},
		{"#10b98", true},
		{"#gggggg", true},
		{"red", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("GetCode = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
