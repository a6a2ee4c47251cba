package chordgen

import "fmt"

// The two circular note spellings. A key belongs to exactly one of the two
// key sets below, which selects the table used on that side of the
// transposition.
var (
	notesSharp = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	notesFlat  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "Cb"}
)

var (
	sharpKeys = map[string]bool{
		"C": true, "G": true, "D": true, "A": true, "E": true, "B": true,
		"F#": true, "C#": true, "G#": true, "D#": true, "A#": true,
	}
	flatKeys = map[string]bool{
		"F": true, "Bb": true, "Eb": true, "Ab": true, "Db": true, "Gb": true,
	}
)

// IsSupportedKey reports whether key is in either key set.
func IsSupportedKey(key string) bool {
	return sharpKeys[key] || flatKeys[key]
}

// Notes transposes chords from an input key to an output key. Both sides
// carry one of the two fixed note tables, chosen by key-set membership,
// plus a precomputed semitone offset in [0,12).
type Notes struct {
	input       *[12]string
	output      *[12]string
	semitonesUp int
}

// NewNotes builds a transposition from inputKey to outputKey. It fails
// with ErrUnsupportedKey if either key is in neither key set.
func NewNotes(inputKey, outputKey string) (*Notes, error) {
	input, err := tableForKey(inputKey)
	if err != nil {
		return nil, err
	}
	output, err := tableForKey(outputKey)
	if err != nil {
		return nil, err
	}

	n := &Notes{input: input, output: output}
	inIdx, _ := indexIn(input, inputKey)
	outIdx, _ := indexIn(output, outputKey)
	n.semitonesUp = ((outIdx-inIdx)%12 + 12) % 12
	return n, nil
}

// tableForKey picks the sharp or flat table for a key.
func tableForKey(key string) (*[12]string, error) {
	switch {
	case sharpKeys[key]:
		return &notesSharp, nil
	case flatKeys[key]:
		return &notesFlat, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}
}

// indexIn finds a note's position in a table.
func indexIn(table *[12]string, note string) (int, bool) {
	for i, n := range table {
		if n == note {
			return i, true
		}
	}
	return 0, false
}

// Transpose moves a chord up by the stored semitone offset and re-spells
// it with the output table. Only the leading root token is transposed: a
// two-character note-plus-accidental pair when the input table contains
// one, otherwise the single root letter. Everything after the consumed
// token (the quality suffix) is appended verbatim, so note letters inside
// a suffix are never touched. Compound symbols are expected to arrive
// already split into one Chord per token.
func (n *Notes) Transpose(c Chord) string {
	sym := c.symbol
	if sym == "" {
		return ""
	}

	if len(sym) >= 2 && (sym[1] == '#' || sym[1] == 'b') {
		if idx, ok := indexIn(n.input, sym[:2]); ok {
			return n.output[(idx+n.semitonesUp)%12] + sym[2:]
		}
	}
	if idx, ok := indexIn(n.input, sym[:1]); ok {
		return n.output[(idx+n.semitonesUp)%12] + sym[1:]
	}

	// Root not present in the input table: nothing to transpose.
	return sym
}

// transposedLen is the rendered width of a chord in the output key,
// used by the lyric line-fit pass.
func (n *Notes) transposedLen(c Chord) int {
	return len(n.Transpose(c))
}
