package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSelection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		start    int
		end      int
		mode     Mode
		expected string
	}{
		{"bold wraps selection", "make this bold", 10, 14, ModeBold, "make this **bold**"},
		{"italic wraps selection", "make this italic", 10, 16, ModeItalic, "make this *italic*"},
		{"bullet prefixes selection", "first item", 0, 10, ModeBullet, "• first item"},
		{"mid-text selection", "one two three", 4, 7, ModeBold, "one **two** three"},
		{"empty selection unchanged", "no change", 3, 3, ModeBold, "no change"},
		{"reversed selection unchanged", "no change", 5, 2, ModeBold, "no change"},
		{"negative start unchanged", "no change", -1, 4, ModeBold, "no change"},
		{"end past text unchanged", "no change", 0, 100, ModeBold, "no change"},
		{"unknown mode unchanged", "no change", 0, 2, Mode("shout"), "no change"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSelection(tt.text, tt.start, tt.end, tt.mode))
		})
	}
}

func TestRenderStyles(t *testing.T) {
	lines := Render("plain **bold** *italic* tail")
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Bullet)
	assert.Equal(t, []Span{
		{Style: StylePlain, Text: "plain "},
		{Style: StyleBold, Text: "bold"},
		{Style: StylePlain, Text: " "},
		{Style: StyleItalic, Text: "italic"},
		{Style: StylePlain, Text: " tail"},
	}, lines[0].Spans)
}

func TestRenderBulletLines(t *testing.T) {
	lines := Render("intro\n• first\n• **second**\nplain")
	require.Len(t, lines, 4)

	assert.False(t, lines[0].Bullet)
	assert.Equal(t, []Span{{Style: StylePlain, Text: "intro"}}, lines[0].Spans)

	assert.True(t, lines[1].Bullet)
	assert.Equal(t, []Span{{Style: StylePlain, Text: "first"}}, lines[1].Spans)

	assert.True(t, lines[2].Bullet)
	assert.Equal(t, []Span{{Style: StyleBold, Text: "second"}}, lines[2].Spans)

	assert.False(t, lines[3].Bullet)
}

func TestRenderIndentedBullet(t *testing.T) {
	lines := Render("  • indented")
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Bullet)
	assert.Equal(t, []Span{{Style: StylePlain, Text: "indented"}}, lines[0].Spans)
}

func TestRenderUnmatchedMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"lone asterisk", "2 * 3 = 6"},
		{"trailing bold opener", "unclosed **bold"},
		{"trailing italic opener", "unclosed *italic"},
		{"just markers", "**"},
		{"four asterisks", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Render(tt.text)
			require.Len(t, lines, 1)
			// Unmatched markers stay literal, so the single span is the input.
			require.Len(t, lines[0].Spans, 1)
			assert.Equal(t, StylePlain, lines[0].Spans[0].Style)
			assert.Equal(t, tt.text, lines[0].Spans[0].Text)
		})
	}
}

func TestRenderAdjacentStyles(t *testing.T) {
	lines := Render("*a**b*")
	require.Len(t, lines, 1)
	assert.Equal(t, []Span{
		{Style: StyleItalic, Text: "a"},
		{Style: StyleItalic, Text: "b"},
	}, lines[0].Spans)
}

func TestRenderEmpty(t *testing.T) {
	lines := Render("")
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Bullet)
	assert.Empty(t, lines[0].Spans)
}

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"bold and italic", "**bold** and *italic*", "bold and italic"},
		{"bullet lines", "• one\n• two", "one\ntwo"},
		{"mixed", "intro\n• **both** *kinds*", "intro\nboth kinds"},
		{"plain passthrough", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripMarkers(tt.text))
		})
	}
}

func TestFormatThenRenderRoundTrip(t *testing.T) {
	text := FormatSelection("make this bold", 10, 14, ModeBold)
	assert.Equal(t, "make this bold", StripMarkers(text))

	lines := Render(text)
	require.Len(t, lines, 1)
	assert.Equal(t, Span{Style: StyleBold, Text: "bold"}, lines[0].Spans[len(lines[0].Spans)-1])
}
