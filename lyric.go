package chordgen

import (
	"fmt"
	"strings"
)

// maxLineWidth is the chordsheet column budget in character units. Lines
// whose rendered width exceeds it are wrapped in a shrink-to-fit macro.
const maxLineWidth = 52

// Character is one printable glyph of a lyric line, optionally carrying
// the chord struck immediately before it. The glyph is empty only when a
// chord lands on a position with no lyric text under it.
type Character struct {
	glyph string
	chord *Chord
}

// Glyph returns the character's text, "" or a single glyph.
func (c Character) Glyph() string { return c.glyph }

// HasChord reports whether a chord is attached to this character.
func (c Character) HasChord() bool { return c.chord != nil }

// Chord returns the attached chord; valid only when HasChord is true.
func (c Character) Chord() Chord {
	if c.chord == nil {
		return Chord{}
	}
	return *c.chord
}

func (c Character) renderChordsheet(n *Notes) string {
	if c.chord == nil {
		return c.glyph
	}
	return c.chord.renderChordsheet(n) + c.glyph
}

func (c Character) String() string {
	if c.chord == nil {
		return c.glyph
	}
	return "[" + c.chord.String() + "]" + c.glyph
}

// Lyric is a line of sung text with chords attached to individual
// characters.
type Lyric struct {
	characters []Character
}

// parseLyric scans a lyric line character by character. A "[" starts a
// chord annotation running to the matching "]"; the chord attaches to the
// glyph right after the bracket, or to an empty glyph when the bracket is
// followed by end-of-line or another "[".
func parseLyric(raw string) (Lyric, error) {
	runes := []rune(raw)
	var characters []Character

	for i := 0; i < len(runes); {
		if runes[i] != '[' {
			characters = append(characters, Character{glyph: string(runes[i])})
			i++
			continue
		}

		start := i + 1
		end := start
		for end < len(runes) && runes[end] != ']' {
			end++
		}
		if end >= len(runes) {
			return Lyric{}, fmt.Errorf("%w: %q", ErrUnterminatedChord, raw)
		}
		chord := NewChord(string(runes[start:end]))
		i = end + 1

		if i >= len(runes) || runes[i] == '[' {
			characters = append(characters, Character{glyph: "", chord: &chord})
			continue
		}
		characters = append(characters, Character{glyph: string(runes[i]), chord: &chord})
		i++
	}

	return Lyric{characters: characters}, nil
}

// renderChordsheet walks the character sequence keeping three running
// values: characters seen since the last chord, the rendered width of
// that chord in the output key, and the total rendered width of the line.
// When a new chord arrives before the previous chord's width has been
// covered by intervening characters, an explicit spacing macro makes up
// the difference so consecutive chords never overlap. A line wider than
// the column budget is wrapped in \fit{}.
func (l Lyric) renderChordsheet(n *Notes) string {
	var b strings.Builder
	charsSinceChord := 0
	pendingWidth := 0
	havePending := false
	totalWidth := 0

	for _, c := range l.characters {
		if c.chord != nil {
			if havePending && charsSinceChord <= pendingWidth {
				pad := pendingWidth - charsSinceChord + 1
				fmt.Fprintf(&b, `\spv{%d}`, pad)
				totalWidth += pad
			}
			charsSinceChord = 0
			pendingWidth = n.transposedLen(*c.chord)
			havePending = true
		}

		charsSinceChord++
		b.WriteString(c.renderChordsheet(n))
		totalWidth++
	}

	// The last chord may still stick out past the trailing characters.
	if havePending && pendingWidth > charsSinceChord {
		totalWidth += pendingWidth - charsSinceChord
	}

	if totalWidth > maxLineWidth {
		return `\fit{` + b.String() + `}`
	}
	return b.String()
}

func (l Lyric) lyricsText() string {
	var b strings.Builder
	for _, c := range l.characters {
		b.WriteString(c.glyph)
	}
	return b.String()
}

func (Lyric) hasLyrics() bool { return true }
func (Lyric) isBreak() bool   { return false }

func (l Lyric) String() string {
	var b strings.Builder
	for _, c := range l.characters {
		b.WriteString(c.String())
	}
	return b.String()
}
