package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/demoforums/forumclient/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "script injection", input: `<p>Hello</p><script>alert('xss')</script>`, expected: "Hello"},
		{name: "nested tags", input: `<p>Hello <strong>world</strong></p>`, expected: "Hello world"},
		{name: "event handlers", input: `<img src="x" onerror="alert('xss')">`, expected: ""},
		{name: "javascript url", input: `<a href="javascript:alert('xss')">click</a>`, expected: "click"},
		{name: "entities decoded", input: `Fish &amp; Chips <b>&lt;3</b>`, expected: "Fish & Chips <3"},
		{name: "plain text untouched", input: "it's 5 > 3", expected: "it's 5 > 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestStripControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "color codes", input: "\x1b[31mred\x1b[0m text", expected: "red text"},
		{name: "cursor movement", input: "a\x1b[2Jb\x1b[10;20Hc", expected: "abc"},
		{name: "window title", input: "x\x1b]0;pwned\x07y", expected: "xy"},
		{name: "bell and backspace", input: "ok\a\b!", expected: "ok!"},
		{name: "keeps newlines and tabs", input: "a\r\n\tb\nc", expected: "a\n\tb\nc"},
		{name: "c1 controls", input: "a\u009bb", expected: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripControl(tt.input))
		})
	}
}

func TestDisplayAndLine(t *testing.T) {
	t.Parallel()

	in := "  <b>Hello</b>\x1b[1m\n\n world  "
	assert.Equal(t, "Hello\n\n world", sanitizer.Display(in))
	assert.Equal(t, "Hello world", sanitizer.Line(in))
}
