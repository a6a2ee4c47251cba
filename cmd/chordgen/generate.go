package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"chordgen"
)

var generateFlags struct {
	key           string
	chordsheetDir string
	slidesDir     string
	images        bool
	withRepeats   bool
	skipCompile   bool
	workers       int
}

// addGenerateFlags registers the flags shared by generate and preview.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&generateFlags.key, "key", "k", "", "key to transpose into (default: the song's own key)")
}

var generateCmd = &cobra.Command{
	Use:   "generate [song files...]",
	Short: "Generate chordsheet and slides for song files",
	Long: `Generate parses each song file, transposes its chords into the
requested key, and writes a chordsheet document and a beamer slide
deck. Unless --skip-compile is set, both are compiled with pdflatex.

With no arguments, every .txt file in the configured input directory
is generated.`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd.Flags())
	fs := generateCmd.Flags()
	fs.StringVar(&generateFlags.chordsheetDir, "chordsheet-dir", "", "output directory for chordsheets (default: from config)")
	fs.StringVar(&generateFlags.slidesDir, "slides-dir", "", "output directory for slides (default: from config)")
	fs.BoolVar(&generateFlags.images, "images", false, "also convert slides to per-page PNG images")
	fs.BoolVar(&generateFlags.withRepeats, "with-repeats", false, "render repeated sections on the slides every time they occur")
	fs.BoolVar(&generateFlags.skipCompile, "skip-compile", false, "write .tex files without running pdflatex")
	fs.IntVarP(&generateFlags.workers, "workers", "w", 0, "parallel workers (default: based on CPU count)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFlags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, generateFlags.workers)
	}

	sources := args
	if len(sources) == 0 {
		var err error
		sources, err = discoverSongs(cfg.Paths.InputDir)
		if err != nil {
			return err
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: no song files found in %s", ErrNoInput, cfg.Paths.InputDir)
	}

	chordsheetDir := generateFlags.chordsheetDir
	if chordsheetDir == "" {
		chordsheetDir = cfg.Paths.ChordsheetDir
	}
	slidesDir := generateFlags.slidesDir
	if slidesDir == "" {
		slidesDir = cfg.Paths.SlidesDir
	}

	pool, cleanup, err := buildServicePool(chordgen.ResolvePoolSize(generateFlags.workers))
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing service pool", zap.Error(err))
		}
	}()

	input := chordgen.GenerateInput{
		NewKey:        generateFlags.key,
		ChordsheetDir: chordsheetDir,
		SlidesDir:     slidesDir,
		SlideImages:   generateFlags.images,
		WithRepeats:   generateFlags.withRepeats,
		SkipCompile:   generateFlags.skipCompile,
	}

	var failed []error
	for _, r := range generateBatch(cmd.Context(), pool, sources, input) {
		if r.err != nil {
			failed = append(failed, fmt.Errorf("generating %s: %w", r.source, r.err))
			continue
		}
		logger.Info("generated song",
			zap.String("song", r.result.Header.Song),
			zap.String("key", r.result.Header.Key),
			zap.String("chordsheet", r.result.ChordsheetPath),
			zap.String("slides", r.result.SlidesPath))
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\n", r.result.Header.Song, r.result.Header.Key)
	}
	return errors.Join(failed...)
}

// generateResult pairs one source file with its generation outcome.
type generateResult struct {
	source string
	result *chordgen.GenerateResult
	err    error
}

// generateBatch fans sources out to pool workers, collecting per-file
// results in input order. Worker count is capped at the batch size so
// small batches never build idle services.
func generateBatch(ctx context.Context, pool *chordgen.ServicePool, sources []string, input chordgen.GenerateInput) []generateResult {
	concurrency := pool.Size()
	if concurrency > len(sources) {
		concurrency = len(sources)
	}

	results := make([]generateResult, len(sources))
	jobs := make(chan int, len(sources))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = generateResult{source: sources[idx], err: err}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = generateResult{source: sources[idx], err: ctx.Err()}
					continue
				}
				in := input
				in.SourcePath = sources[idx]
				result, err := svc.Generate(ctx, in)
				results[idx] = generateResult{source: sources[idx], result: result, err: err}
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// discoverSongs lists the .txt song files in a directory, sorted for
// deterministic output order.
func discoverSongs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		sources = append(sources, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(sources)
	return sources, nil
}
