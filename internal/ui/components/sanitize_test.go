package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	input := "safe\u202eexe.txt"
	out := SanitizeText(input)

	assert.NotContains(t, out, "\u202e")
}

func TestSanitizeTextDropsEscapePayloads(t *testing.T) {
	cases := map[string]string{
		"x\x1b]0;pwn\x07y":         "xy",
		"x\x1b]0;pwn\x1b\\y":       "xy",
		"x\x1b]8;;https://evil":    "x",
		"a\x1bPq#0;2;0;0;0\x1b\\b": "ab",
		"a\x1b[?25lb":              "ab",
		"a\x1b[38;2;1;2;3mb":       "ab",
		"a\x1bcb":                  "ab",
		"a\x1b(Bb":                 "ab",
		"a\x1b":                    "a",
	}
	for input, want := range cases {
		assert.Equal(t, want, SanitizeText(input), "input %q", input)
	}
}

func TestSanitizeOneLineKeepsPlainNames(t *testing.T) {
	assert.Equal(t, "Ana [admin] ; 50%", SanitizeOneLine("  Ana [admin] ; 50%\n"))
}
