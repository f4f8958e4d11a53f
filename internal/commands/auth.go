package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token",
	Long: `Store or inspect the Hugging Face API token.

The token is resolved in order: the ` + models.EnvToken + ` environment variable
(a .env file in the working directory is honored), then the token file in
the config directory. 'auth login' writes the token file.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the token comes from",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	var token string

	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Print("Enter API token (input hidden): ")
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = string(data)
	} else {
		// Piped input, e.g. `echo $TOKEN | wildchat auth login`
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = line
	}

	token = strings.TrimSpace(token)
	if err := config.SaveToken(token); err != nil {
		return err
	}

	path, _ := config.GetTokenPath()
	fmt.Printf("Token saved to %s\n", path)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	if token := strings.TrimSpace(os.Getenv(models.EnvToken)); token != "" {
		fmt.Printf("Token source: %s environment variable (%s)\n", models.EnvToken, maskToken(token))
		return nil
	}

	path, err := config.GetTokenPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			fmt.Printf("Token source: %s (%s)\n", path, maskToken(token))
			return nil
		}
	}

	fmt.Println("No token configured.")
	fmt.Printf("Set %s, add it to a .env file, or run 'wildchat auth login'.\n", models.EnvToken)
	return nil
}

// maskToken shows just enough of the token to recognize it.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
