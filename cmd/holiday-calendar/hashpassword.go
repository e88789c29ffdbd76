package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/username/holiday-calendar/internal/server"
)

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Create the Argon2id hash for the admin Basic Auth",
		// Does not need a config or a logger
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			stdin := bufio.NewReader(os.Stdin)

			fmt.Fprint(out, "Enter username: ")
			username, err := stdin.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read username: %w", err)
			}
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("username cannot be empty")
			}

			password, err := readPassword(out, stdin, "Enter password:   ")
			if err != nil {
				return err
			}
			confirm, err := readPassword(out, stdin, "Confirm password: ")
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("password cannot be empty")
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			hash, err := server.HashPassword(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "\nAdd to config.yaml:")
			fmt.Fprintln(out, "server:")
			fmt.Fprintf(out, "  admin_user: %q\n", username)
			fmt.Fprintf(out, "  admin_password_hash: %q\n", hash)
			return nil
		},
	}
}

// readPassword reads a password without echo when stdin is a terminal
func readPassword(out io.Writer, stdin *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
