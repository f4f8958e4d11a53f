package config

import (
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// GetTokenPath returns the path to the token file
func GetTokenPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "token"), nil
}

// ResolveToken returns the bearer token for outbound API calls. Resolution
// order: HF_TOKEN environment variable (a .env file is loaded into the
// environment at startup), then the token file in the config directory.
// A missing token is a startup-time configuration error, never a
// mid-conversation crash.
func ResolveToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv(models.EnvToken)); token != "" {
		return token, nil
	}

	path, err := GetTokenPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apierrors.ErrNoToken
		}
		return "", apierrors.NewConfigError("failed to read token file: " + err.Error())
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", apierrors.ErrNoToken
	}

	return token, nil
}

// SaveToken writes the token to the config directory so the environment
// variable does not have to be exported in every shell.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apierrors.NewConfigError("token is empty")
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	path, err := GetTokenPath()
	if err != nil {
		return err
	}

	// 0o600: credentials
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}
