package chordgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// MetadataCache stores looked-up song metadata between runs so repeated
// generations of the same song avoid the network.
type MetadataCache interface {
	Get(ctx context.Context, ccliNumber string) (*SongMetadata, error)
	Put(ctx context.Context, ccliNumber string, meta *SongMetadata) error
}

// Service orchestrates the song-to-output pipeline: parse, supplement
// metadata, render, compile.
type Service struct {
	lookup   MetadataLookup
	cache    MetadataCache
	compiler DocumentCompiler
	printer  PreviewPrinter
	log      *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithLookup sets the metadata lookup backend.
func WithLookup(l MetadataLookup) Option {
	return func(s *Service) { s.lookup = l }
}

// WithCache sets the metadata cache.
func WithCache(c MetadataCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithCompiler sets the document compiler.
func WithCompiler(c DocumentCompiler) Option {
	return func(s *Service) { s.compiler = c }
}

// WithPrinter sets the preview printer.
func WithPrinter(p PreviewPrinter) Option {
	return func(s *Service) { s.printer = p }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New creates a Service with default collaborators. Use options to
// inject alternatives (e.g. fakes in tests, a SongSelect lookup).
func New(opts ...Option) *Service {
	s := &Service{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.compiler == nil {
		s.compiler = NewLaTeXCompiler(s.log)
	}
	return s
}

// GenerateInput describes one generation run.
type GenerateInput struct {
	// SourcePath is the plaintext song file to convert.
	SourcePath string
	// NewKey is the key to transpose the chordsheet into.
	NewKey string
	// ChordsheetDir receives the chordsheet .tex and .pdf.
	ChordsheetDir string
	// SlidesDir receives the slides .tex and .pdf.
	SlidesDir string
	// SlideImages also converts the slides PDF into per-page PNGs.
	SlideImages bool
	// WithRepeats renders every occurrence of a section in the slides
	// instead of only the first.
	WithRepeats bool
	// SkipCompile writes the .tex files without running pdflatex.
	SkipCompile bool
}

// GenerateResult reports what a generation run produced.
type GenerateResult struct {
	Header         HeaderData
	ChordsheetPath string
	SlidesPath     string
	SlideImageDir  string
}

// Generate runs the full pipeline for one song file.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	f, err := os.Open(input.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening song file: %w", err)
	}
	defer f.Close()

	header, song, err := ParseSongFile(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(input.SourcePath), err)
	}

	newKey := input.NewKey
	if newKey == "" {
		newKey = song.Key()
	}
	if !IsSupportedKey(newKey) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKey, newKey)
	}
	header.Key = newKey
	if header.MajorMinor != "" {
		header.Key = newKey + " " + header.MajorMinor
	}

	s.supplementHeader(ctx, &header)

	chordsheetHeader, err := RenderChordsheetHeader(header)
	if err != nil {
		return nil, err
	}
	slidesHeader, err := RenderSlidesHeader(header)
	if err != nil {
		return nil, err
	}

	chordsheetBody, err := song.Chordsheet(newKey)
	if err != nil {
		return nil, err
	}
	slidesBody, err := song.Slides(input.WithRepeats)
	if err != nil {
		return nil, err
	}

	base := songBaseName(input.SourcePath)
	result := &GenerateResult{
		Header:         header,
		ChordsheetPath: filepath.Join(input.ChordsheetDir, fmt.Sprintf("%s - %s.tex", base, newKey)),
		SlidesPath:     filepath.Join(input.SlidesDir, fmt.Sprintf("%s - slides.tex", base)),
	}

	if err := s.compiler.WriteDocument(result.ChordsheetPath, chordsheetHeader, chordsheetBody); err != nil {
		return nil, err
	}
	if err := s.compiler.WriteDocument(result.SlidesPath, slidesHeader, slidesBody); err != nil {
		return nil, err
	}
	s.log.Info("wrote documents",
		zap.String("chordsheet", result.ChordsheetPath),
		zap.String("slides", result.SlidesPath))

	if input.SkipCompile {
		return result, nil
	}

	for _, texPath := range []string{result.ChordsheetPath, result.SlidesPath} {
		if err := s.compiler.Compile(ctx, texPath); err != nil {
			return nil, err
		}
		if err := s.compiler.CleanAux(texPath); err != nil {
			s.log.Warn("cleaning auxiliary files", zap.Error(err))
		}
	}

	if input.SlideImages {
		pdfPath := strings.TrimSuffix(result.SlidesPath, ".tex") + ".pdf"
		imageDir := filepath.Join(input.SlidesDir, base)
		err := s.compiler.ConvertSlides(ctx, pdfPath, imageDir)
		switch {
		case errors.Is(err, ErrToolNotFound):
			s.log.Warn("skipping slide images", zap.Error(err))
		case err != nil:
			return nil, err
		default:
			result.SlideImageDir = imageDir
		}
	}

	return result, nil
}

// Preview renders the song as a single PDF preview via headless Chrome,
// without requiring a LaTeX toolchain.
func (s *Service) Preview(ctx context.Context, sourcePath, newKey string) ([]byte, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening song file: %w", err)
	}
	defer f.Close()

	header, song, err := ParseSongFile(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(sourcePath), err)
	}
	if newKey == "" {
		newKey = song.Key()
	}

	s.supplementHeader(ctx, &header)

	page, err := RenderHTMLPreview(header, song, newKey)
	if err != nil {
		return nil, err
	}

	printer := s.printer
	if printer == nil {
		printer = NewRodPrinter()
		defer printer.Close()
	}
	return printer.Print(ctx, page)
}

// supplementHeader fills default-valued header fields from the metadata
// cache or lookup. Lookup failures are logged and left non-fatal so a
// network outage never blocks generation.
func (s *Service) supplementHeader(ctx context.Context, header *HeaderData) {
	if header.CCLI == "" || header.CCLI == defaultCCLI {
		return
	}
	if header.Composer != defaultComposer && header.Year != defaultYear &&
		header.Publisher != defaultPublisher {
		return
	}

	meta := s.cachedMetadata(ctx, header.CCLI)
	if meta == nil {
		if s.lookup == nil {
			return
		}
		var err error
		meta, err = s.lookup.Lookup(ctx, header.CCLI)
		if err != nil {
			s.log.Warn("metadata lookup failed",
				zap.String("ccli", header.CCLI), zap.Error(err))
			return
		}
		if s.cache != nil {
			if err := s.cache.Put(ctx, header.CCLI, meta); err != nil {
				s.log.Warn("caching metadata", zap.Error(err))
			}
		}
	}

	if header.Composer == defaultComposer && meta.Composer != "" {
		header.Composer = meta.Composer
	}
	if header.Year == defaultYear && meta.Year != "" {
		header.Year = meta.Year
	}
	if header.Publisher == defaultPublisher && meta.Publisher != "" {
		header.Publisher = meta.Publisher
	}
}

func (s *Service) cachedMetadata(ctx context.Context, ccliNumber string) *SongMetadata {
	if s.cache == nil {
		return nil
	}
	meta, err := s.cache.Get(ctx, ccliNumber)
	if err != nil {
		s.log.Warn("reading metadata cache", zap.Error(err))
		return nil
	}
	return meta
}

// songBaseName strips the directory and extension from a song file path.
func songBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Close releases resources held by collaborators (headless browser).
func (s *Service) Close() error {
	if s.printer != nil {
		return s.printer.Close()
	}
	return nil
}
