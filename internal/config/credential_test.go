package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

func TestResolveTokenFromEnv(t *testing.T) {
	setTempHome(t)
	t.Setenv(models.EnvToken, "hf_env_token")

	token, err := ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "hf_env_token" {
		t.Errorf("token = %q", token)
	}
}

func TestResolveTokenEnvWinsOverFile(t *testing.T) {
	setTempHome(t)
	if err := SaveToken("hf_file_token"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(models.EnvToken, "hf_env_token")

	token, err := ResolveToken()
	if err != nil {
		t.Fatal(err)
	}
	if token != "hf_env_token" {
		t.Errorf("token = %q, env should win", token)
	}
}

func TestResolveTokenFromFile(t *testing.T) {
	setTempHome(t)
	t.Setenv(models.EnvToken, "")

	if err := SaveToken("  hf_file_token\n"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	token, err := ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "hf_file_token" {
		t.Errorf("token = %q, want trimmed file content", token)
	}
}

func TestResolveTokenMissing(t *testing.T) {
	setTempHome(t)
	t.Setenv(models.EnvToken, "")

	_, err := ResolveToken()
	if !errors.Is(err, apierrors.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestResolveTokenEmptyFile(t *testing.T) {
	home := setTempHome(t)
	t.Setenv(models.EnvToken, "")

	dir := filepath.Join(home, ".wildchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveToken()
	if !errors.Is(err, apierrors.ErrNoToken) {
		t.Errorf("expected ErrNoToken for blank file, got %v", err)
	}
}

func TestSaveTokenPermissions(t *testing.T) {
	setTempHome(t)

	if err := SaveToken("hf_secret"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	path, err := GetTokenPath()
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveTokenRejectsEmpty(t *testing.T) {
	setTempHome(t)

	if err := SaveToken("   "); err == nil {
		t.Error("empty token should be rejected")
	}
}
