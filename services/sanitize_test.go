package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"tech_office_cms_go/apperrors"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "C-001 - Acme Ltd", "C-001 - Acme Ltd"},
		{"Invalid characters stripped", `inv<oi>ce:3/"x"\y|z?*.pdf`, "invoice3xyz.pdf"},
		{"Whitespace collapsed", "  too   many \t spaces  ", "too many spaces"},
		{"Control characters stripped", "a\x00b\x1fc", "abc"},
		{"Capped at 80", strings.Repeat("x", 120), strings.Repeat("x", 80)},
		{"Cap counts runes not bytes", strings.Repeat("Παπαδόπουλος", 10), strings.Repeat("Παπαδόπουλος", 6) + "Παπαδόπο"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeName(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestDefaultCaseFolder(t *testing.T) {
	assert.Equal(t, "C-001 - Acme Ltd", DefaultCaseFolder("C-001", "Acme Ltd"))
	assert.Equal(t, "C3a - WeirdName", DefaultCaseFolder(`C/3:a`, "Weird*Name?"))
}

func TestJoinSharePath(t *testing.T) {
	assert.Equal(t, "cases/C-001 - Acme", JoinSharePath("cases", "C-001 - Acme"))
	assert.Equal(t, "cases/sub/file.pdf", JoinSharePath("cases/", "/sub", "file.pdf"))
	assert.Equal(t, "cases/file.pdf", JoinSharePath("cases", "", "file.pdf"))
	assert.Equal(t, "a/b", JoinSharePath(`a\b`))
}

func TestEnsureInsideBase(t *testing.T) {
	t.Run("Accepts clean paths", func(t *testing.T) {
		path, err := EnsureInsideBase("cases/C-001 - Acme")
		assert.NoError(t, err)
		assert.Equal(t, "cases/C-001 - Acme", path)
	})

	t.Run("Rejects parent segments", func(t *testing.T) {
		_, err := EnsureInsideBase("cases/../../etc/passwd")
		assert.True(t, apperrors.Is(err, apperrors.KindPathTraversal))
		assert.EqualError(t, err, "Invalid path")
	})

	t.Run("Rejects backslash traversal", func(t *testing.T) {
		_, err := EnsureInsideBase(`cases\..\secret`)
		assert.True(t, apperrors.Is(err, apperrors.KindPathTraversal))
	})
}

func TestSanitizeNotes(t *testing.T) {
	assert.Equal(t, "plain text", SanitizeNotes("plain text"))
	assert.NotContains(t, SanitizeNotes(`before <script>alert(1)</script> after`), "<script>")
	assert.Equal(t, "bold", SanitizeNotes("<b>bold</b>"))
}
