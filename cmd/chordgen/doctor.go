package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chordgen"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that external tools and configuration are in place",
	Long: `Doctor verifies the pdflatex and convert binaries are on PATH,
the configured directories exist, and the CCLI lookup credentials are
readable. Exit code is non-zero when a required tool is missing.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var failed bool

	missing := chordgen.NewLaTeXCompiler(logger).MissingTools()
	if len(missing) == 0 {
		fmt.Fprintln(out, "tools: pdflatex and convert found")
	} else {
		failed = true
		for _, tool := range missing {
			fmt.Fprintf(out, "tools: %s not found on PATH\n", tool)
		}
	}

	for _, dir := range []struct{ name, path string }{
		{"input", cfg.Paths.InputDir},
		{"chordsheets", cfg.Paths.ChordsheetDir},
		{"slides", cfg.Paths.SlidesDir},
	} {
		if dir.path == "" {
			continue
		}
		if info, err := os.Stat(dir.path); err != nil || !info.IsDir() {
			fmt.Fprintf(out, "paths: %s directory %s missing (created on first run)\n", dir.name, dir.path)
		} else {
			fmt.Fprintf(out, "paths: %s directory %s ok\n", dir.name, dir.path)
		}
	}

	switch {
	case cfg.CCLI.Email == "":
		fmt.Fprintln(out, "ccli: lookups disabled (no email configured)")
	default:
		if _, err := loadSongSelectPassword(); err != nil {
			failed = true
			fmt.Fprintf(out, "ccli: cannot load password: %v\n", err)
		} else {
			fmt.Fprintf(out, "ccli: lookups enabled for %s\n", cfg.CCLI.Email)
		}
	}

	if failed {
		return fmt.Errorf("%w: see report above", chordgen.ErrToolNotFound)
	}
	fmt.Fprintln(out, "ready")
	return nil
}
