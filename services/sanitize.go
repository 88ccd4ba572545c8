package services

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"tech_office_cms_go/apperrors"
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	multiWhitespace  = regexp.MustCompile(`\s+`)
	notesPolicy      = bluemonday.StrictPolicy()
)

// SanitizeName makes a string safe for use as a folder or file name on
// the share: Windows-invalid characters stripped, whitespace collapsed,
// length capped at 80 characters. The cap counts runes, not bytes;
// share object keys must stay valid UTF-8.
func SanitizeName(name string) string {
	s := strings.TrimSpace(name)
	s = invalidNameChars.ReplaceAllString(s, "")
	s = multiWhitespace.ReplaceAllString(s, " ")
	if runes := []rune(s); len(runes) > 80 {
		s = string(runes[:80])
	}
	return s
}

// DefaultCaseFolder derives the share folder name for a case.
func DefaultCaseFolder(caseNumber, clientName string) string {
	return SanitizeName(caseNumber) + " - " + SanitizeName(clientName)
}

// JoinSharePath joins path segments with forward slashes, collapsing
// duplicates and stripping any leading separator.
func JoinSharePath(parts ...string) string {
	joined := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if joined == "" {
			joined = p
		} else {
			joined = joined + "/" + p
		}
	}
	joined = strings.ReplaceAll(joined, "\\", "/")
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return strings.TrimLeft(joined, "/")
}

// EnsureInsideBase rejects relative paths that contain a parent-directory
// segment. It must run before any share client is dialed.
func EnsureInsideBase(relPath string) (string, error) {
	cleaned := strings.ReplaceAll(relPath, "\\", "/")
	if strings.Contains(cleaned, "..") {
		return "", apperrors.PathTraversal()
	}
	return cleaned, nil
}

// SanitizeNotes strips all HTML from free-text notes before storage.
func SanitizeNotes(notes string) string {
	return notesPolicy.Sanitize(notes)
}
