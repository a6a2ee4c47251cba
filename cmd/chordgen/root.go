package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chordgen/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded configuration and logger, set by the persistent pre-run.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chordgen",
	Short: "chordgen converts plaintext songs into chordsheets and slides",
	Long: `chordgen converts plaintext song files into transposed LaTeX
chordsheets and beamer slide decks, compiled to PDF with pdflatex.

Song files mix header tags (<song>, <key>, <bpm>, ...), an <order>
block, and named sections of chord and lyric lines. Missing composer,
year, and publisher data can be filled in from CCLI SongSelect.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg = zap.NewDevelopmentConfig()
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig loads the named config, falling back to defaults when no
// config file exists and none was explicitly requested.
func loadConfig(nameOrPath string) (*config.Config, error) {
	explicit := nameOrPath != ""
	if !explicit {
		nameOrPath = "chordgen"
	}
	loaded, err := config.Load(nameOrPath)
	if errors.Is(err, config.ErrConfigNotFound) && !explicit {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config name or path (default: chordgen.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Version = Version
	rootCmd.AddCommand(generateCmd, previewCmd, doctorCmd, encryptPasswordCmd, createKeyCmd)
}
