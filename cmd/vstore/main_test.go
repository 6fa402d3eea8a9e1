package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"initial", []string{"render", "-C", dir, "--text"}, "number is 47"},
		{"clicks", []string{"render", "-C", dir, "--text", "--click", "btn1", "--click", "btn1"}, "number is 49"},
		{"set then increment", []string{"render", "-C", dir, "--text", "--click", "btn2,btn1"}, "number is 101"},
		{"html", []string{"render", "-C", dir}, `<span id="number">number is 47</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRenderCommandSeed(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte("numberProp: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config := `{"seed": "` + seedPath + `"}`
	if err := os.WriteFile(filepath.Join(dir, "vstore.json"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "render", "-C", dir, "--text")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "number is 7") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "render", "-C", dir, "--click", "number"); err == nil {
		t.Error("clicking an element without a handler should fail")
	}
	if _, err := execute(t, "render", "-C", dir, "--seed", filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "C003") {
		t.Errorf("missing seed error = %v, want C003", err)
	}
	if _, err := execute(t, "render", "-C", dir, "--log-level", "loud"); err == nil || !strings.Contains(err.Error(), "C001") {
		t.Errorf("bad log level error = %v, want C001", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vstore.json"), []byte(`{"server": {"port": 4000}, "log": {"level": "info"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VSTORE_PORT", "5000")
	t.Setenv("VSTORE_LOG_LEVEL", "debug")

	cfg, err := loadConfig(&globalOptions{dir: dir, logLevel: "warn"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000 from env", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from flag", cfg.Log.Level)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q, want %q", out, version)
	}
}
