// Package chordgen turns plaintext chordsheet notation into two typeset
// LaTeX documents: a print chordsheet and a beamer slide deck, with all
// chords transposed into a target key.
//
// The core pipeline is pure string transformation: raw body lines are
// classified into music, break, and lyric lines, assembled into named
// sections with a performance order, and rendered on demand. The Service
// type wraps the pipeline together with its external collaborators
// (metadata lookup, LaTeX compilation, image conversion).
package chordgen
