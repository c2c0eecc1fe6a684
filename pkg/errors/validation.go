package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for user-supplied values.
const (
	MaxDocumentNameLength = 64
	MaxNodeIDLength       = 128
	MaxLabelLength        = 10000
)

// documentNameRegex matches names safe to use as file names and storage key
// segments.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a flowchart document name.
// Names end up in file paths and storage keys, so they must be a single
// path segment:
//   - Not empty, at most 64 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No ".." sequences
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}
	if len(name) > MaxDocumentNameLength {
		return New(ErrCodeInvalidInput, "document name too long (max %d characters)", MaxDocumentNameLength)
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "document name cannot contain path traversal sequences (..)")
	}
	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid document name: %q", name)
	}
	return nil
}

// ValidateNodeID validates a node or edge identifier.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id contains whitespace or control characters: %q", id)
		}
	}
	return nil
}

// ValidateLabel validates node label text. Newlines and tabs are allowed;
// other control characters are not.
func ValidateLabel(label string) error {
	if !utf8.ValidString(label) {
		return New(ErrCodeInvalidInput, "label is not valid UTF-8")
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS hex color such as "#10b981" or "#fff".
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
