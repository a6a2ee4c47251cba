package main

import (
	"errors"
	"os"

	"chordgen"
	"chordgen/internal/config"
	"chordgen/internal/secret"
)

// Exit codes for the chordgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or song file
	ExitIO      = 3 // File not found, permission denied
	ExitTools   = 4 // pdflatex, convert, or browser failures
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, chordgen.ErrCompileFailed) ||
		errors.Is(err, chordgen.ErrConvertFailed) ||
		errors.Is(err, chordgen.ErrToolNotFound) ||
		errors.Is(err, chordgen.ErrBrowserConnect) ||
		errors.Is(err, chordgen.ErrPreviewRender) {
		return ExitTools
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/song-file errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, chordgen.ErrUnsupportedKey) ||
		errors.Is(err, chordgen.ErrUnterminatedChord) ||
		errors.Is(err, chordgen.ErrUnrecognizedSection) ||
		errors.Is(err, chordgen.ErrEmptySectionSlide) ||
		errors.Is(err, chordgen.ErrMissingTitle) ||
		errors.Is(err, chordgen.ErrMissingKey) ||
		errors.Is(err, chordgen.ErrUnknownSection) ||
		errors.Is(err, secret.ErrKeyFileExists) ||
		errors.Is(err, secret.ErrNoIdentity) ||
		errors.Is(err, ErrNoIdentity) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
