package commands

import (
	"testing"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

func setTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestGetModelPrecedence(t *testing.T) {
	setTempHome(t)
	defer func() { modelFlag = "" }()

	// Flag wins over everything
	modelFlag = "someorg/FlagModel"
	if got := getModel(); got != "someorg/FlagModel" {
		t.Errorf("getModel = %q, want flag value", got)
	}

	// No flag, no config file: built-in default
	modelFlag = ""
	if got := getModel(); got != models.DefaultModel.Name {
		t.Errorf("getModel = %q, want %q", got, models.DefaultModel.Name)
	}

	// Configured default beats the built-in one
	cfg := config.DefaultConfig()
	cfg.DefaultModel = "someorg/ConfigModel"
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if got := getModel(); got != "someorg/ConfigModel" {
		t.Errorf("getModel = %q, want configured default", got)
	}
}

func TestResolvePersonality(t *testing.T) {
	setTempHome(t)
	defer func() { personalityFlag = "" }()

	// Unknown flag value is an error
	personalityFlag = "does-not-exist"
	if _, err := resolvePersonality(); err == nil {
		t.Error("unknown personality flag should fail")
	}

	// Builtin resolves by flag
	personalityFlag = "writer"
	p, err := resolvePersonality()
	if err != nil {
		t.Fatalf("resolvePersonality failed: %v", err)
	}
	if p == nil || p.Name != "writer" {
		t.Errorf("personality = %+v, want writer", p)
	}

	// No flag: the configured default personality
	personalityFlag = ""
	p, err = resolvePersonality()
	if err != nil {
		t.Fatalf("resolvePersonality failed: %v", err)
	}
	if p == nil || p.Name != "default" {
		t.Errorf("personality = %+v, want default", p)
	}
}

func TestUseRawOutputFlag(t *testing.T) {
	defer func() { rawFlag = false }()

	rawFlag = true
	if !useRawOutput() {
		t.Error("useRawOutput should be true when --raw is set")
	}
}
