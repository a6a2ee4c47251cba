package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var previewOutput string

var previewCmd = &cobra.Command{
	Use:   "preview <song file>",
	Short: "Render a song to a PDF preview without LaTeX",
	Long: `Preview renders a song as a chords-over-lyrics PDF using headless
Chrome, so a transposition can be checked quickly on a machine without
a LaTeX toolchain. The result is not the typeset chordsheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	addGenerateFlags(previewCmd.Flags())
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "output PDF path (default: <song> - preview.pdf)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	source := args[0]

	svc, cleanup, err := buildService()
	if err != nil {
		return err
	}
	defer cleanup()
	defer svc.Close()

	pdf, err := svc.Preview(cmd.Context(), source, generateFlags.key)
	if err != nil {
		return err
	}

	outPath := previewOutput
	if outPath == "" {
		base := strings.TrimSuffix(source, filepath.Ext(source))
		outPath = base + " - preview.pdf"
	}
	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}
