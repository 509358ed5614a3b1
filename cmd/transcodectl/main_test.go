package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RowanDark/transcode/internal/cipher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcode.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	cfgPath := writeConfig(t, "log:\n  level: error\n")
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", cfgPath}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunRequiresCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), cliBanner) {
		t.Errorf("expected usage banner, got %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "rot13")
	if code != 2 || !strings.Contains(stderr, "unknown command: rot13") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestRunBadConfig(t *testing.T) {
	path := writeConfig(t, "colour: blue\n")
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", path, "codecs"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "load config") {
		t.Fatalf("unexpected result %d %q", code, stderr.String())
	}
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"version"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "transcode dev" {
		t.Fatalf("unexpected version %q", got)
	}
	if code := run([]string{"version", "extra"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for extra args, got %d", code)
	}
}

func TestCodecsTable(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "codecs")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header plus 8 codecs, got %d lines:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[1], "base64_encode") || !strings.HasPrefix(lines[8], "base32_decode") {
		t.Errorf("unexpected order:\n%s", stdout)
	}
}

func TestCodecsJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "codecs", "--json")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var out map[string][]cipher.Codec
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out["encoders"]) != 4 || len(out["decoders"]) != 4 {
		t.Fatalf("unexpected registry %+v", out)
	}
}
