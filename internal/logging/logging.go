// Package logging configures the process-wide zerolog logger.
//
// The chat TUI owns stdout/stderr, so log output goes to a file under the
// config directory instead of the terminal.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rmarques/wildchat/internal/config"
)

// Setup initializes the global logger and returns a cleanup function that
// closes the underlying log file. Logging failures are non-fatal: if the log
// file cannot be opened the logger is disabled rather than breaking the UI.
func Setup() func() {
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	file, err := openLogFile()
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}

	log.Logger = zerolog.New(file).With().Timestamp().Logger()
	return func() { _ = file.Close() }
}

func openLogFile() (*os.File, error) {
	configDir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, err
	}

	return os.OpenFile(
		filepath.Join(logDir, "wildchat.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o600,
	)
}
