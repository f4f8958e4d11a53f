package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/render"
	"github.com/rmarques/wildchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with streaming responses.

The chat maintains conversation context across messages.
Type 'exit', 'quit', or press Ctrl+C to end the session.
Press Esc to cancel an in-flight response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply the configured TUI theme before any styles are rendered
	if cfg.TUITheme != "" {
		render.SetTUITheme(cfg.TUITheme)
		tui.UpdateTheme()
	}

	personality, err := resolvePersonality()
	if err != nil {
		return err
	}

	personalityCfg, err := config.LoadPersonalities()
	if err != nil {
		return fmt.Errorf("failed to load personalities: %w", err)
	}

	// Token problems surface here, before the TUI takes over the screen
	client, err := newAPIClient(cfg)
	if err != nil {
		fmt.Println(formatErrorMessage(err, "Setup failed"))
		return err
	}
	defer client.Close()

	session := client.StartChat(personality)

	return tui.RunChat(session, personalityCfg.Personalities, &cfg)
}
