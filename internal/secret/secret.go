// Package secret encrypts and decrypts the SongSelect password with an
// age identity so the account credential never sits on disk in plain
// text.
package secret

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"
)

var (
	ErrNoIdentity     = errors.New("no identity found in key file")
	ErrDecryptFailed  = errors.New("failed to decrypt secret")
	ErrKeyFileExists  = errors.New("key file already exists")
	ErrEmptyPlaintext = errors.New("secret cannot be empty")
)

// GenerateIdentity creates a new X25519 identity and writes it to the
// given path in the standard age key file format. Refuses to overwrite.
func GenerateIdentity(path string) (publicKey string, err error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrKeyFileExists, path)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", fmt.Errorf("generating identity: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("creating key directory: %w", err)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# created: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "# public key: %s\n", identity.Recipient())
	fmt.Fprintf(&buf, "%s\n", identity)

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing key file: %w", err)
	}
	return identity.Recipient().String(), nil
}

// LoadIdentity reads an age key file, skipping comment lines.
func LoadIdentity(path string) (*age.X25519Identity, error) {
	f, err := os.Open(path) // #nosec G304 -- key path is user-provided
	if err != nil {
		return nil, fmt.Errorf("opening key file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identity, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("parsing key file: %w", err)
		}
		return identity, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoIdentity, path)
}

// Encrypt encrypts the plaintext to the identity's recipient and
// returns it in ASCII armor suitable for a text file.
func Encrypt(identity *age.X25519Identity, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("encrypting secret: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("encrypting secret: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encrypting secret: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return "", fmt.Errorf("encrypting secret: %w", err)
	}
	return buf.String(), nil
}

// Decrypt decrypts an armored ciphertext with the identity.
func Decrypt(identity *age.X25519Identity, ciphertext string) (string, error) {
	r, err := age.Decrypt(armor.NewReader(strings.NewReader(ciphertext)), identity)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return string(plaintext), nil
}
