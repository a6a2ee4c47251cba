package chordgen

import "errors"

// Sentinel errors for parsing and rendering.
var (
	// ErrUnterminatedChord means a lyric line opened a chord bracket "["
	// that never closed before end of line.
	ErrUnterminatedChord = errors.New("unterminated chord bracket")

	// ErrUnsupportedKey means a key is in neither the sharp-key nor the
	// flat-key set.
	ErrUnsupportedKey = errors.New("unsupported key")

	// ErrUnrecognizedSection means a section name matched no known archetype
	// (Intro, Verse, Prechorus, Chorus, Break/Instrumental, Bridge, Outro, Tag).
	ErrUnrecognizedSection = errors.New("unrecognized section name")

	// ErrEmptySectionSlide means slide rendering was requested for a section
	// that contains no lyric lines.
	ErrEmptySectionSlide = errors.New("section has no lyrics to place on a slide")
)

// Song file loader errors.
var (
	ErrMissingTitle   = errors.New("song file has no <song> tag")
	ErrMissingKey     = errors.New("song file has no <key> tag")
	ErrUnknownSection = errors.New("order references a section that was never defined")
)

// External stage errors.
var (
	ErrCompileFailed  = errors.New("LaTeX compilation failed")
	ErrConvertFailed  = errors.New("slide image conversion failed")
	ErrToolNotFound   = errors.New("external tool not found")
	ErrLookupFailed   = errors.New("metadata lookup failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPreviewRender  = errors.New("preview PDF rendering failed")
	ErrHeaderTemplate = errors.New("header template rendering failed")
)
