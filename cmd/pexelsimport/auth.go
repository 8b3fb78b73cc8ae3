package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pexelsimport/pkg/auth"
	"pexelsimport/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Pexels API keys",
	Long: `Manage Pexels API keys.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - PEXELS_API_KEY environment variable (read only)

A key given in the config file or with --api-key takes precedence.`,
}

var setKeyValue string

// setKeyCmd represents the auth set-key command
var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store a Pexels API key",
	Long: `Store a Pexels API key for the selected profile.

Without --key you are prompted for the key; input is hidden on terminals.`,
	Example: `  # Interactive
  pexelsimport auth set-key

  # Store a key for a second profile
  pexelsimport auth set-key --profile work --key "$KEY"`,
	Args: cobra.NoArgs,
	RunE: runSetKey,
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored API keys (masked)",
	Args:  cobra.NoArgs,
	RunE:  runAuthShow,
}

// removeCmd represents the auth remove command
var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the stored API key of a profile",
	Args:  cobra.NoArgs,
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setKeyCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(removeCmd)

	setKeyCmd.Flags().StringVar(&setKeyValue, "key", "", "API key to store (prompted for when omitted)")
}

// selectedProfile resolves the key profile the same way the photo command does:
// --profile, then PEXELSIMPORT_PROFILE, then the config file, then the default
func selectedProfile() (string, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return "", err
	}
	return cfg.Pexels.Profile, nil
}

func runSetKey(cmd *cobra.Command, args []string) error {
	p, err := selectedProfile()
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	key := strings.TrimSpace(setKeyValue)
	if key == "" {
		auth.ShowAPIKeyGuide(ui.Output)
		fmt.Fprint(ui.Output, "\nPexels API key: ")
		key, err = readPassword()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
	}
	if key == "" {
		return errors.New("API key is required")
	}

	if err := manager.Store(p, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("API key saved for profile '%s'", p))
	ui.PrintInfo("Key", auth.MaskKey(key))
	return nil
}

func runAuthShow(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	creds, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list API keys: %w", err)
	}
	if len(creds) == 0 {
		ui.PrintWarning("No API keys stored")
		fmt.Fprintln(ui.Output, "Run 'pexelsimport auth set-key' to add one.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, c := range creds {
		modified := "unknown"
		if !c.LastModified.IsZero() {
			modified = c.LastModified.Format(time.RFC3339)
		}
		fmt.Fprintf(out, "%-12s %s  (updated %s)\n", c.Profile, auth.MaskKey(c.APIKey), modified)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	p, err := selectedProfile()
	if err != nil {
		return err
	}
	if err := manager.Delete(p); err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("API key removed for profile '%s'", p))
	return nil
}

// readPassword reads a line from stdin without echo when it is a terminal
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(ui.Output)
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
