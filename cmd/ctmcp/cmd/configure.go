package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the appliance connection settings",
	Long: `Interactively write the CipherTrust Manager connection settings to
~/.ctmcp/config.yaml. The password prompt does not echo.

Examples:
  ctmcp configure
  ctmcp doctor`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

var stdin = bufio.NewReader(os.Stdin)

func runConfigure(_ *cobra.Command, _ []string) error {
	path := filepath.Join(configDir(), "config.yaml")

	if _, err := os.Stat(path); err == nil {
		if !PromptConfirm(fmt.Sprintf("Overwrite existing configuration at %s?", path)) {
			Info("configuration unchanged")
			return nil
		}
	}

	url, err := promptLine("CipherTrust Manager URL", "")
	if err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	user, err := promptLine("Username", "admin")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	domain, err := promptLine("Domain", "root")
	if err != nil {
		return err
	}
	noSSLVerify := PromptConfirm("Skip TLS certificate verification?")

	settings := map[string]any{
		"ciphertrust": map[string]any{
			"url":         url,
			"user":        user,
			"password":    password,
			"domain":      domain,
			"nosslverify": noSSLVerify,
		},
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir(), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", configDir(), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintln(os.Stderr)
	Success("Configuration written to %s", path)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Next steps:")
	fmt.Fprintln(os.Stderr, "  ctmcp doctor            Check the setup")
	fmt.Fprintln(os.Stderr, "  ctmcp serve             Start the MCP server")

	return nil
}

// promptLine reads one line from the terminal, returning the default when
// the answer is empty.
func promptLine(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(os.Stderr, "%s: ", label)
	}

	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// promptPassword reads a password from the terminal with echo disabled.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
