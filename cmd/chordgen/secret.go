package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chordgen/internal/secret"
)

var (
	keyFilePath        string
	encryptPasswordOut string
)

var createKeyCmd = &cobra.Command{
	Use:   "create-key",
	Short: "Create an age identity for encrypting the CCLI password",
	RunE: func(cmd *cobra.Command, args []string) error {
		publicKey, err := secret.GenerateIdentity(keyFilePath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\npublic key: %s\n", keyFilePath, publicKey)
		return nil
	},
}

var encryptPasswordCmd = &cobra.Command{
	Use:   "encrypt-password",
	Short: "Encrypt the CCLI SongSelect password with the identity key",
	Long: `Encrypt-password reads the password from the terminal (or stdin
when piped), encrypts it to the identity key, and writes the armored
ciphertext to the output file referenced by ccli.passwordEncrypted.`,
	RunE: runEncryptPassword,
}

func init() {
	createKeyCmd.Flags().StringVar(&keyFilePath, "key-file", "chordgen.key", "path to write the identity key")
	encryptPasswordCmd.Flags().StringVar(&keyFilePath, "key-file", "chordgen.key", "path to the identity key")
	encryptPasswordCmd.Flags().StringVarP(&encryptPasswordOut, "output", "o", "password.age", "path to write the encrypted password")
}

func runEncryptPassword(cmd *cobra.Command, args []string) error {
	identity, err := secret.LoadIdentity(keyFilePath)
	if err != nil {
		return err
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	ciphertext, err := secret.Encrypt(identity, password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(encryptPasswordOut, []byte(ciphertext), 0o600); err != nil {
		return fmt.Errorf("writing encrypted password: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", encryptPasswordOut)
	return nil
}

// readPassword prompts on a terminal without echo, and falls back to
// reading stdin when input is piped.
func readPassword(cmd *cobra.Command) (string, error) {
	stdin, isFile := cmd.InOrStdin().(*os.File)
	if isFile && term.IsTerminal(int(stdin.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		raw, err := term.ReadPassword(int(stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}
