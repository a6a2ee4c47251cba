package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"chordgen"
	"chordgen/internal/metacache"
	"chordgen/internal/secret"
)

// Sentinel errors for CLI wiring.
var (
	ErrNoInput            = errors.New("no input files")
	ErrNoIdentity         = errors.New("ccli lookups configured without an identity file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// buildService assembles a single Service from the loaded config. The
// returned cleanup closes the cache.
func buildService() (*chordgen.Service, func(), error) {
	factory, cleanup, err := buildServiceFactory()
	if err != nil {
		return nil, nil, err
	}
	svc, err := factory()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// buildServicePool assembles a pool of n Services from the loaded
// config. The SQLite cache is shared across instances; each instance
// gets its own SongSelect session. The returned cleanup closes the
// cache and must run after the pool is closed.
func buildServicePool(n int) (*chordgen.ServicePool, func(), error) {
	factory, cleanup, err := buildServiceFactory()
	if err != nil {
		return nil, nil, err
	}
	return chordgen.NewServicePool(n, factory), cleanup, nil
}

// buildServiceFactory resolves the configured collaborators once (cache
// connection, decrypted SongSelect password) and returns a factory that
// builds Services on top of them: the LaTeX compiler always, the
// SongSelect lookup and SQLite cache only when configured.
func buildServiceFactory() (chordgen.ServiceFactory, func(), error) {
	shared := []chordgen.Option{chordgen.WithLogger(logger)}
	cleanup := func() {}

	if cfg.CCLI.CacheFile != "" {
		cache, err := metacache.Open(cfg.CCLI.CacheFile)
		if err != nil {
			return nil, nil, err
		}
		shared = append(shared, chordgen.WithCache(cache))
		cleanup = func() {
			if err := cache.Close(); err != nil {
				logger.Warn("closing metadata cache", zap.Error(err))
			}
		}
	}

	var password string
	if cfg.CCLI.Email != "" {
		var err error
		password, err = loadSongSelectPassword()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	factory := func() (*chordgen.Service, error) {
		opts := append([]chordgen.Option(nil), shared...)
		if cfg.CCLI.Email != "" {
			opts = append(opts, chordgen.WithLookup(
				chordgen.NewSongSelectClient(cfg.CCLI.Email, password, logger)))
		}
		return chordgen.New(opts...), nil
	}
	return factory, cleanup, nil
}

// loadSongSelectPassword decrypts the configured password file with the
// configured age identity.
func loadSongSelectPassword() (string, error) {
	if cfg.CCLI.IdentityFile == "" || cfg.CCLI.PasswordEncrypted == "" {
		return "", fmt.Errorf("%w: set ccli.identityFile and ccli.passwordEncrypted", ErrNoIdentity)
	}
	identity, err := secret.LoadIdentity(cfg.CCLI.IdentityFile)
	if err != nil {
		return "", err
	}
	ciphertext, err := os.ReadFile(cfg.CCLI.PasswordEncrypted) // #nosec G304 -- path is user-provided
	if err != nil {
		return "", fmt.Errorf("reading encrypted password: %w", err)
	}
	password, err := secret.Decrypt(identity, string(ciphertext))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(password, "\n"), nil
}
