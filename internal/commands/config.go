package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long:  `View and change wildchat settings. Settings live in the config directory as JSON.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Supported keys:

  model          default model id
  personality    default personality name
  base-url       inference endpoint override ("" resets to the router default)
  clipboard      copy replies to the clipboard (true/false)
  theme          TUI theme (tokyonight, catppuccin, nord)
  style          markdown style (dark, light, dracula, notty, ascii, auto)
  temperature    sampling temperature
  top-p          nucleus sampling cutoff
  max-tokens     response token cap
  timeout        request timeout in seconds`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file locations",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tVALUE")
	_, _ = fmt.Fprintln(w, "---\t-----")
	_, _ = fmt.Fprintf(w, "model\t%s\n", cfg.DefaultModel)
	_, _ = fmt.Fprintf(w, "personality\t%s\n", cfg.DefaultPersonality)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "(router default)"
	}
	_, _ = fmt.Fprintf(w, "base-url\t%s\n", baseURL)
	_, _ = fmt.Fprintf(w, "clipboard\t%t\n", cfg.CopyToClipboard)
	_, _ = fmt.Fprintf(w, "theme\t%s\n", cfg.TUITheme)
	_, _ = fmt.Fprintf(w, "style\t%s\n", cfg.Markdown.Style)
	_, _ = fmt.Fprintf(w, "temperature\t%g\n", cfg.Generation.Temperature)
	_, _ = fmt.Fprintf(w, "top-p\t%g\n", cfg.Generation.TopP)
	_, _ = fmt.Fprintf(w, "max-tokens\t%d\n", cfg.Generation.MaxTokens)
	_, _ = fmt.Fprintf(w, "timeout\t%ds\n", cfg.Generation.TimeoutSeconds)

	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "model":
		cfg.DefaultModel = value

	case "personality":
		if _, err := config.GetPersonality(value); err != nil {
			return err
		}
		cfg.DefaultPersonality = value

	case "base-url":
		cfg.BaseURL = value

	case "clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("clipboard must be true or false")
		}
		cfg.CopyToClipboard = b

	case "theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme '%s' (available: %v)", value, render.TUIThemeNames())
		}
		cfg.TUITheme = value

	case "style":
		cfg.Markdown.Style = value

	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("temperature must be a number between 0 and 2")
		}
		cfg.Generation.Temperature = f

	case "top-p":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("top-p must be a number between 0 and 1")
		}
		cfg.Generation.TopP = f

	case "max-tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("max-tokens must be a positive integer")
		}
		cfg.Generation.MaxTokens = n

	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout must be a positive integer (seconds)")
		}
		cfg.Generation.TimeoutSeconds = n

	default:
		return fmt.Errorf("unknown key '%s'", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("%s set to %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	personalitiesPath, err := config.GetPersonalitiesPath()
	if err != nil {
		return err
	}
	tokenPath, err := config.GetTokenPath()
	if err != nil {
		return err
	}

	fmt.Printf("config:        %s\n", configPath)
	fmt.Printf("personalities: %s\n", personalitiesPath)
	fmt.Printf("token:         %s\n", tokenPath)
	return nil
}
