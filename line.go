package chordgen

import (
	"regexp"
	"strings"
)

// Line is one classified physical line of a section body. The three
// variants are MusicLine (chords only), BreakLine (slide separator), and
// Lyric (text with optional inline chords).
type Line interface {
	// renderChordsheet emits the line's chordsheet markup, transposed
	// through n.
	renderChordsheet(n *Notes) string

	// lyricsText is the plain lyric text with all chords stripped.
	lyricsText() string

	// hasLyrics reports whether the line belongs on a slide.
	hasLyrics() bool

	// isBreak reports whether the line separates slides.
	isBreak() bool
}

// Classification patterns. Order matters: a line is tried as a music line
// first, then as a break line, and falls through to lyric.
var (
	musicLineRe = regexp.MustCompile(`^\|:?([A-Ga-z0-9#/ ]+:?\|)+( \(x([0-9])+\))?$`)
	breakLineRe = regexp.MustCompile(`^-*$`)
)

// ParseLine classifies one raw line, with trailing line terminators
// stripped first. Only lyric lines can fail (unterminated chord bracket).
func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r\n")
	switch {
	case musicLineRe.MatchString(raw):
		return parseMusicLine(raw), nil
	case breakLineRe.MatchString(raw):
		return BreakLine{}, nil
	default:
		lyric, err := parseLyric(raw)
		if err != nil {
			return nil, err
		}
		return lyric, nil
	}
}

// BreakLine marks a slide break. In the source it is an empty line or a
// run of dashes; it renders as nothing on the chordsheet.
type BreakLine struct{}

func (BreakLine) renderChordsheet(*Notes) string { return "" }
func (BreakLine) lyricsText() string             { return "" }
func (BreakLine) hasLyrics() bool                { return false }
func (BreakLine) isBreak() bool                  { return true }

func (BreakLine) String() string { return "---" }

// MusicLine is an instrumental line of |-delimited measures, e.g.
//
//	| G    | Em    | C     | D     |
//
// Each measure holds one or more chords.
type MusicLine struct {
	measures [][]Chord
}

// parseMusicLine splits a matched music line into measures. The segment
// before the first "|" and the segment after the last "|" (empty, or a
// trailing "(xN)" repeat annotation) carry no chords and are dropped.
// A measure containing "/" is split on whitespace into separate chord
// tokens; the "/" itself is not a separator. Anything else is a single
// trimmed chord.
func parseMusicLine(raw string) MusicLine {
	segments := strings.Split(raw, "|")
	segments = segments[1 : len(segments)-1]

	var measures [][]Chord
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if strings.Contains(seg, "/") {
			var measure []Chord
			for _, tok := range strings.Fields(seg) {
				measure = append(measure, NewChord(tok))
			}
			measures = append(measures, measure)
			continue
		}
		measures = append(measures, []Chord{NewChord(strings.TrimSpace(seg))})
	}
	return MusicLine{measures: measures}
}

// renderChordsheet prints the transposed chord grid. Music-line chords are
// written as plain text, not with the \c lyric-chord macro.
func (m MusicLine) renderChordsheet(n *Notes) string {
	rendered := make([]string, len(m.measures))
	for i, measure := range m.measures {
		chords := make([]string, len(measure))
		for j, c := range measure {
			chords[j] = latexChord(n.Transpose(c))
		}
		rendered[i] = strings.Join(chords, " ")
	}
	return "| " + strings.Join(rendered, " | ") + " |"
}

func (MusicLine) lyricsText() string { return "" }
func (MusicLine) hasLyrics() bool    { return false }
func (MusicLine) isBreak() bool      { return false }

func (m MusicLine) String() string {
	rendered := make([]string, len(m.measures))
	for i, measure := range m.measures {
		chords := make([]string, len(measure))
		for j, c := range measure {
			chords[j] = c.String()
		}
		rendered[i] = strings.Join(chords, " ")
	}
	return "| " + strings.Join(rendered, " | ") + " |"
}
