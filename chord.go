package chordgen

import "strings"

// Chord is one chord symbol token: a root note A-G, an optional single
// accidental ("#" or "b") immediately after it, and a quality suffix
// copied verbatim (e.g. "G", "F#", "Cmaj7"). Immutable once created.
type Chord struct {
	symbol string
}

// NewChord wraps a raw chord symbol.
func NewChord(symbol string) Chord {
	return Chord{symbol: symbol}
}

// Symbol returns the raw chord symbol.
func (c Chord) Symbol() string { return c.symbol }

func (c Chord) String() string { return c.symbol }

// latexChord converts a chord symbol from text notation to the notation
// used by the LaTeX templates: "#" becomes the sharp macro `\s `.
func latexChord(symbol string) string {
	return strings.ReplaceAll(symbol, "#", `\s `)
}

// renderChordsheet emits the chord macro for a lyric-embedded chord,
// transposed through n.
func (c Chord) renderChordsheet(n *Notes) string {
	return `\c{` + latexChord(n.Transpose(c)) + `}`
}
