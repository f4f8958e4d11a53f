package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
	"github.com/rmarques/wildchat/internal/render"
)

// runQuery executes a single query and outputs the response.
// If rawOutput is true, tokens are printed as they arrive without decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return apierrors.ErrEmptyPrompt
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("config unreadable, using defaults")
		if !rawOutput {
			fmt.Fprintf(os.Stderr, "warning: config unreadable (%v), using defaults\n", err)
		}
	}

	personality, err := resolvePersonality()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		if !rawOutput {
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Setup failed"))
		}
		return err
	}
	defer client.Close()

	session := client.StartChat(personality)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transcript := []models.Message{{Role: models.RoleUser, Content: prompt}}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Waiting for " + session.Model().Name)
		spin.start()
	}

	startTime := time.Now()
	events, err := session.StreamTranscript(ctx, transcript)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Request failed"))
		}
		return err
	}

	var sb strings.Builder
	firstChunk := true
	for ev := range events {
		switch ev.Kind {
		case models.StreamChunk:
			if firstChunk {
				firstChunk = false
				if !rawOutput {
					spin.stopWithSuccess("Streaming")
				}
			}
			sb.WriteString(ev.Text)
			// Raw mode streams tokens straight to stdout unless the
			// response goes to a file
			if rawOutput && outputFlag == "" {
				fmt.Print(ev.Text)
			}
		case models.StreamError:
			if !rawOutput {
				if firstChunk {
					spin.stopWithError()
				}
				fmt.Fprintln(os.Stderr, formatErrorMessage(ev.Err, "Generation failed"))
			}
			return ev.Err
		}
	}

	if !rawOutput && firstChunk {
		// Stream ended without a single token
		spin.stopWithSuccess("Done")
	}

	text := sb.String()

	// Raw output mode
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		// Trailing newline for shells; tokens already went to stdout
		if text != "" && !strings.HasSuffix(text, "\n") {
			fmt.Println()
		}
		return nil
	}

	// Decorated output mode (TTY)
	fmt.Fprintf(os.Stderr, "%s\n",
		lipgloss.NewStyle().Foreground(colorTextDim).Render(
			fmt.Sprintf("  took %s", time.Since(startTime).Round(time.Millisecond))))

	// Copy to clipboard if enabled in config
	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	// Output to file if specified
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	// Get terminal width for proper formatting
	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	// Print assistant label (similar to chat TUI)
	label := assistantLabelStyle.Render("✦ Assistant")
	fmt.Println(label)

	// Render markdown for terminal output using user config
	renderOpts := render.LoadOptionsFromConfigWithWidth(contentWidth)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	// Trim trailing newlines from glamour
	rendered = strings.TrimRight(rendered, "\n")

	// Wrap content in assistant bubble style
	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	fmt.Println(bubble)

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	// Extract additional context from structured errors
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := apierrors.GetErrorCode(err); code != apierrors.ErrCodeUnknown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// Provide helpful hints based on error type
	switch {
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Set HF_TOKEN or run 'wildchat auth login' to store a token"))
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Your token was rejected. Check HF_TOKEN or run 'wildchat auth login'"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
	}

	return sb.String()
}
