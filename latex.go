package chordgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// CommandRunner abstracts external command execution to enable testing
// without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// execRunner implements CommandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	// pdflatex and convert spawn helper processes; on cancellation the
	// whole group has to go, not just the direct child.
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		killProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// auxExtensions are the scratch files pdflatex leaves next to its output.
var auxExtensions = []string{".aux", ".log", ".nav", ".out", ".snm", ".toc"}

// DocumentCompiler abstracts the LaTeX/ImageMagick stage so the pipeline
// can be tested without the real toolchain.
type DocumentCompiler interface {
	WriteDocument(path, header, body string) error
	Compile(ctx context.Context, texPath string) error
	ConvertSlides(ctx context.Context, pdfPath, outDir string) error
	CleanAux(texPath string) error
}

// LaTeXCompiler drives pdflatex and ImageMagick convert to turn the
// generated .tex sources into PDFs and per-slide PNGs.
type LaTeXCompiler struct {
	runner   CommandRunner
	lookPath func(file string) (string, error)
	log      *zap.Logger
}

var _ DocumentCompiler = (*LaTeXCompiler)(nil)

// NewLaTeXCompiler creates a compiler backed by real subprocesses.
func NewLaTeXCompiler(log *zap.Logger) *LaTeXCompiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LaTeXCompiler{
		runner:   execRunner{},
		lookPath: exec.LookPath,
		log:      log,
	}
}

// WriteDocument writes a complete LaTeX file: the substituted header,
// then the rendered body inside the document environment.
func (c *LaTeXCompiler) WriteDocument(path, header, body string) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\\begin{document}\n")
	b.WriteString(body)
	b.WriteString("\\end{document}\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Compile runs pdflatex on a .tex file, placing the PDF and aux files in
// the same directory.
func (c *LaTeXCompiler) Compile(ctx context.Context, texPath string) error {
	if _, err := c.lookPath("pdflatex"); err != nil {
		return fmt.Errorf("%w: pdflatex", ErrToolNotFound)
	}

	c.log.Debug("compiling LaTeX document", zap.String("path", texPath))
	stdout, stderr, err := c.runner.Run(ctx, "pdflatex",
		"--interaction=nonstopmode",
		"-output-directory", filepath.Dir(texPath),
		texPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v%s", ErrCompileFailed, texPath, err, compileErrorTail(stdout, stderr))
	}
	return nil
}

// compileErrorTail extracts the last few lines of compiler output for
// error messages; pdflatex reports errors on stdout.
func compileErrorTail(stdout, stderr string) string {
	out := strings.TrimSpace(stderr)
	if out == "" {
		out = strings.TrimSpace(stdout)
	}
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n" + strings.Join(lines, "\n")
}

// ConvertSlides rasterizes a slides PDF into per-slide PNGs under outDir,
// recreating the directory to discard images from previous runs.
func (c *LaTeXCompiler) ConvertSlides(ctx context.Context, pdfPath, outDir string) error {
	if _, err := c.lookPath("convert"); err != nil {
		return fmt.Errorf("%w: convert", ErrToolNotFound)
	}

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clearing slide image directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating slide image directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	target := filepath.Join(outDir, base+".png")

	c.log.Debug("converting slides to images", zap.String("pdf", pdfPath), zap.String("target", target))
	_, stderr, err := c.runner.Run(ctx, "convert",
		"-verbose",
		"-density", "300",
		"-geometry", "1920x1080",
		pdfPath,
		"-quality", "100",
		"-sharpen", "0x1.0",
		target)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConvertFailed, strings.TrimSpace(stderr), err)
	}
	return nil
}

// CleanAux removes pdflatex scratch files left next to a .tex file.
func (c *LaTeXCompiler) CleanAux(texPath string) error {
	base := strings.TrimSuffix(texPath, filepath.Ext(texPath))
	for _, ext := range auxExtensions {
		if err := os.Remove(base + ext); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", base+ext, err)
		}
	}
	return nil
}

// MissingTools reports which of the external tools the full pipeline
// needs are absent from PATH.
func (c *LaTeXCompiler) MissingTools() []string {
	var missing []string
	for _, tool := range []string{"pdflatex", "convert"} {
		if _, err := c.lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
