// Package markup implements the lightweight inline formatting used in product
// descriptions: **bold**, *italic* and "• " bullet lines. Rendering produces a
// structured span sequence rather than substituted HTML, so nested or adjacent
// markers behave predictably and nothing needs escaping downstream.
package markup

import "strings"

// Mode selects the formatting applied by FormatSelection.
type Mode string

const (
	ModeBold   Mode = "bold"
	ModeItalic Mode = "italic"
	ModeBullet Mode = "bullet"
)

// bulletMarker prefixes a bullet line. The trailing space is part of the marker.
const bulletMarker = "• "

// FormatSelection wraps the substring between start and end with the markers
// for mode. It returns text unchanged when nothing is selected or when the
// selection indices are out of range.
func FormatSelection(text string, start, end int, mode Mode) string {
	if start < 0 || end > len(text) || start >= end {
		return text
	}
	selected := text[start:end]

	var formatted string
	switch mode {
	case ModeBold:
		formatted = "**" + selected + "**"
	case ModeItalic:
		formatted = "*" + selected + "*"
	case ModeBullet:
		formatted = bulletMarker + selected
	default:
		return text
	}

	return text[:start] + formatted + text[end:]
}

// Style identifies how a span of text should be emphasized.
type Style string

const (
	StylePlain  Style = "plain"
	StyleBold   Style = "bold"
	StyleItalic Style = "italic"
)

// Span is a run of text with a single style.
type Span struct {
	Style Style  `json:"style"`
	Text  string `json:"text"`
}

// Line is one rendered description line.
type Line struct {
	Bullet bool   `json:"bullet"`
	Spans  []Span `json:"spans,omitempty"`
}

// Render splits text into lines and tokenizes each into styled spans. A line
// whose trimmed form starts with the bullet marker becomes a bullet line with
// the marker stripped. Markers without a matching closer are kept as literal
// text; markers are never nested.
func Render(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		line := Line{}
		trimmed := strings.TrimLeft(l, " \t")
		if strings.HasPrefix(trimmed, bulletMarker) {
			line.Bullet = true
			l = strings.TrimPrefix(trimmed, bulletMarker)
		}
		line.Spans = tokenize(l)
		lines = append(lines, line)
	}
	return lines
}

// StripMarkers returns the plain-text projection of text: bold and italic
// markers removed, bullet markers stripped, lines joined with newlines.
func StripMarkers(text string) string {
	lines := Render(text)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, s := range line.Spans {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// tokenize scans one line into spans. It is a single left-to-right pass: at
// each marker candidate it looks ahead for the matching closer and falls back
// to literal text when none exists.
func tokenize(line string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Style: StylePlain, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(line) {
		if strings.HasPrefix(line[i:], "**") {
			if end := strings.Index(line[i+2:], "**"); end > 0 {
				flush()
				spans = append(spans, Span{Style: StyleBold, Text: line[i+2 : i+2+end]})
				i += end + 4
				continue
			}
		} else if line[i] == '*' {
			if end := strings.IndexByte(line[i+1:], '*'); end > 0 {
				flush()
				spans = append(spans, Span{Style: StyleItalic, Text: line[i+1 : i+1+end]})
				i += end + 2
				continue
			}
		}
		plain.WriteByte(line[i])
		i++
	}
	flush()

	if spans == nil {
		spans = []Span{}
	}
	return spans
}
