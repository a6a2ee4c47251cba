package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chordgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `paths:
  inputDir: songs
  chordsheetDir: out/chordsheets
  slidesDir: out/slides
ccli:
  email: user@example.com
  passwordEncrypted: password.age
  identityFile: chordgen.key
  cacheFile: cache.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Paths.InputDir != "songs" {
		t.Errorf("InputDir = %q, want songs", cfg.Paths.InputDir)
	}
	if cfg.Paths.SlidesDir != "out/slides" {
		t.Errorf("SlidesDir = %q, want out/slides", cfg.Paths.SlidesDir)
	}
	if cfg.CCLI.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", cfg.CCLI.Email)
	}
	if cfg.CCLI.CacheFile != "cache.db" {
		t.Errorf("CacheFile = %q, want cache.db", cfg.CCLI.CacheFile)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "paths:\n  inputDir: songs\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Paths.InputDir != "songs" {
		t.Errorf("InputDir = %q, want songs", cfg.Paths.InputDir)
	}
	if cfg.Paths.ChordsheetDir != Default().Paths.ChordsheetDir {
		t.Errorf("ChordsheetDir = %q, want default", cfg.Paths.ChordsheetDir)
	}
	if cfg.CCLI.Email != "" {
		t.Errorf("Email = %q, want lookups disabled by default", cfg.CCLI.Email)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		if _, err := Load(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("Load error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nope.yaml")
		if _, err := Load(path); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Load error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "paths:\n  inputDir: songs\nunknownField: true\n")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("Load error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "paths: [broken\n")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("Load error = %v, want ErrConfigParse", err)
		}
	})
}
