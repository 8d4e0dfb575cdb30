package main

import (
	"os"
	"path/filepath"
	"testing"

	"cassprep/internal/faults"
)

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if faults.ExitCode(err) != 2 {
		t.Fatalf("unexpected exit code for %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "show", "--input", env.cfg.Paths.InputDir}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path: "+target)
	requireContains(t, out, env.cfg.Paths.InputDir)
	requireContains(t, out, "marker_once")
}

func TestConfigShowWithoutFile(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "defaults in use")
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Input directory")
	requireContains(t, out, "Run ledger")
	requireContains(t, out, "Configuration valid")

	_, _, err = runCLI(t, []string{"config", "validate", "--input", filepath.Join(env.baseDir, "missing")}, env.configPath)
	if faults.ExitCode(err) != 2 {
		t.Fatalf("expected configuration failure for missing input, got %v", err)
	}
}
