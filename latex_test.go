package chordgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner records commands instead of executing them.
type fakeRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.stderr, f.err
}

func toolsFound(string) (string, error) { return "/usr/bin/tool", nil }

func newTestCompiler(runner *fakeRunner) *LaTeXCompiler {
	c := NewLaTeXCompiler(nil)
	c.runner = runner
	c.lookPath = toolsFound
	return c
}

func TestLaTeXCompiler_WriteDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "song.tex")

	c := newTestCompiler(&fakeRunner{})
	if err := c.WriteDocument(path, "HEADER\n", "BODY\n"); err != nil {
		t.Fatalf("WriteDocument error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "HEADER\n") {
		t.Errorf("document = %q, want header prefix", got)
	}
	if !strings.Contains(got, "\\begin{document}\nBODY\n") {
		t.Errorf("document = %q, want body inside document environment", got)
	}
	if !strings.HasSuffix(got, "\\end{document}\n") {
		t.Errorf("document = %q, want closing environment", got)
	}
}

func TestLaTeXCompiler_Compile(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	c := newTestCompiler(runner)

	texPath := filepath.Join("out", "song.tex")
	if err := c.Compile(context.Background(), texPath); err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("commands run = %d, want 1", len(runner.calls))
	}
	want := []string{"pdflatex", "--interaction=nonstopmode", "-output-directory", "out", texPath}
	got := runner.calls[0]
	if len(got) != len(want) {
		t.Fatalf("command = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLaTeXCompiler_CompileFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		stdout: "line1\n! Undefined control sequence.\nl.12 \\bogus",
		err:    errors.New("exit status 1"),
	}
	c := newTestCompiler(runner)

	err := c.Compile(context.Background(), "song.tex")
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("Compile error = %v, want ErrCompileFailed", err)
	}
	// pdflatex reports errors on stdout; the tail must surface them.
	if !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("Compile error = %q, want compiler output tail", err)
	}
}

func TestLaTeXCompiler_MissingTool(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(&fakeRunner{})
	c.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if err := c.Compile(context.Background(), "song.tex"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Compile error = %v, want ErrToolNotFound", err)
	}
	if err := c.ConvertSlides(context.Background(), "song.pdf", "imgs"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("ConvertSlides error = %v, want ErrToolNotFound", err)
	}
}

func TestLaTeXCompiler_ConvertSlides(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	c := newTestCompiler(runner)

	outDir := filepath.Join(t.TempDir(), "images")
	if err := c.ConvertSlides(context.Background(), "deck.pdf", outDir); err != nil {
		t.Fatalf("ConvertSlides error = %v", err)
	}

	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("commands run = %d, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call[0] != "convert" {
		t.Errorf("command = %q, want convert", call[0])
	}
	joined := strings.Join(call, " ")
	for _, want := range []string{"-density 300", "-geometry 1920x1080", "deck.pdf", filepath.Join(outDir, "deck.png")} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}

func TestLaTeXCompiler_ConvertSlidesFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stderr: "convert: broken", err: errors.New("exit status 1")}
	c := newTestCompiler(runner)

	err := c.ConvertSlides(context.Background(), "deck.pdf", t.TempDir())
	if !errors.Is(err, ErrConvertFailed) {
		t.Errorf("ConvertSlides error = %v, want ErrConvertFailed", err)
	}
}

func TestLaTeXCompiler_CleanAux(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	texPath := filepath.Join(dir, "song.tex")
	for _, ext := range []string{".tex", ".pdf", ".aux", ".log", ".nav"} {
		if err := os.WriteFile(filepath.Join(dir, "song"+ext), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := newTestCompiler(&fakeRunner{})
	if err := c.CleanAux(texPath); err != nil {
		t.Fatalf("CleanAux error = %v", err)
	}

	for _, ext := range []string{".aux", ".log", ".nav"} {
		if _, err := os.Stat(filepath.Join(dir, "song"+ext)); !os.IsNotExist(err) {
			t.Errorf("%s not removed", ext)
		}
	}
	for _, ext := range []string{".tex", ".pdf"} {
		if _, err := os.Stat(filepath.Join(dir, "song"+ext)); err != nil {
			t.Errorf("%s removed, want kept", ext)
		}
	}
}

func TestLaTeXCompiler_MissingTools(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(&fakeRunner{})
	c.lookPath = func(tool string) (string, error) {
		if tool == "convert" {
			return "", fmt.Errorf("not found")
		}
		return "/usr/bin/" + tool, nil
	}

	got := c.MissingTools()
	if len(got) != 1 || got[0] != "convert" {
		t.Errorf("MissingTools() = %v, want [convert]", got)
	}
}
