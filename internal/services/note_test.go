package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRuneSafe(t *testing.T) {
	short := "plain ascii"
	assert.Equal(t, short, truncateRuneSafe(short, 100))

	// 2-byte runes: an odd byte cap must land on a rune boundary.
	s := strings.Repeat("é", 60)
	out := truncateRuneSafe(s, 101)
	assert.Equal(t, 100, len(out))
	assert.True(t, utf8.ValidString(out))

	out = truncateRuneSafe(s, 100)
	assert.Equal(t, 100, len(out))
	assert.True(t, utf8.ValidString(out))

	assert.Equal(t, "", truncateRuneSafe("é", 1))
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":             "notes.pdf",
		"../../etc/passwd":      "passwd",
		"dir/sub/c.pdf":         "c.pdf",
		`..\..\evil.pdf`:        "evil.pdf",
		"week 1 notes?.pdf":     "week_1_notes_.pdf",
		"":                      "upload",
		"..":                    "upload",
		".":                     "upload",
		"/":                     "upload",
		"résumé.pdf":  "r_sum_.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), "input %q", in)
	}
}
