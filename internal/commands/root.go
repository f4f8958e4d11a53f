// Package commands provides CLI commands for wildchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

var (
	// Global flags
	modelFlag       string
	personalityFlag string
	outputFlag      string
	fileFlag        string
	rawFlag         bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wildchat [prompt]",
	Short: "Chat with hosted LLMs from your terminal",
	Long: `wildchat is a terminal client for OpenAI-compatible chat APIs. It talks
to the Hugging Face Inference Providers router by default and streams
responses token by token.

Examples:
  wildchat chat                         Start interactive chat
  wildchat "What is Go?"                Send a single query
  wildchat -f prompt.md                 Read prompt from file
  cat prompt.md | wildchat              Read prompt from stdin
  wildchat "Hello" -o response.md       Save response to file
  wildchat -p writer "Draft an intro"   Query with a personality`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("wildchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), useRawOutput())
		}

		// Check for stdin
		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), useRawOutput())
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(args[0], useRawOutput())
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., deepseek-ai/DeepSeek-V3-0324)")
	rootCmd.PersistentFlags().StringVarP(&personalityFlag, "personality", "p", "", "Personality (system prompt preset) to use")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw response without decoration")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(personalityCmd)
	rootCmd.AddCommand(authCmd)
}

// useRawOutput reports whether the response should be printed undecorated:
// requested explicitly, or stdout is not a terminal (piped).
func useRawOutput() bool {
	return rawFlag || !isStdoutTTY()
}

// getModel returns the model to use (from flag or config)
func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}

	cfg, err := config.LoadConfig()
	if err != nil || cfg.DefaultModel == "" {
		return models.DefaultModel.Name
	}

	return cfg.DefaultModel
}

// resolvePersonality returns the personality for this invocation: the
// --personality flag when given, otherwise the configured default.
func resolvePersonality() (*config.Personality, error) {
	if personalityFlag != "" {
		p, err := config.GetPersonality(personalityFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to load personality '%s': %w", personalityFlag, err)
		}
		return p, nil
	}

	p, err := config.GetDefaultPersonality()
	if err != nil {
		// Missing personality store is not fatal; chat without a preset
		return nil, nil
	}
	return p, nil
}
