package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RowanDark/transcode/internal/cipher"
)

func TestConvertSingleCodec(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"input flag", "", []string{"--codec", "hex_encode", "--input", "AB"}, 0, "4142\n", ""},
		{"stdin", "Hello", []string{"--codec", "base64_encode"}, 0, "SGVsbG8=\n", ""},
		{"empty input flag", "ignored", []string{"--codec", "base64_decode", "--input", ""}, 0, "\n", ""},
		{"line mode", "", []string{"--codec", "hex_encode", "--lines", "--input", "A\n\nB"}, 0, "41\n\n42\n", ""},
		{"failure exits 1", "", []string{"--codec", "hex_decode", "--input", "414"}, 1, "", "Invalid Hex input (must have even number of digits)"},
		{"base32 failure", "", []string{"--codec", "base32_decode", "--input", "M!======"}, 1, "", "Invalid Base32 character: !"},
		{"unknown codec", "", []string{"--codec", "rot13", "--input", "x"}, 2, "", "unknown codec: rot13"},
		{"input and file", "", []string{"--codec", "hex_encode", "--input", "x", "--file", "y"}, 2, "", "mutually exclusive"},
		{"positional arg", "", []string{"extra"}, 2, "", "no positional arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, append([]string{"convert"}, tt.args...)...)
			if code != tt.wantCode {
				t.Fatalf("expected exit %d, got %d (stderr %q)", tt.wantCode, code, stderr)
			}
			if stdout != tt.wantOut {
				t.Errorf("expected stdout %q, got %q", tt.wantOut, stdout)
			}
			if tt.wantErr != "" && !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantErr, stderr)
			}
		})
	}
}

func TestConvertFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("MY======"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	code, stdout, stderr := runCLI(t, "", "convert", "--codec", "base32_decode", "--file", path)
	if code != 0 || stdout != "f\n" {
		t.Fatalf("unexpected result %d %q %q", code, stdout, stderr)
	}

	code, _, _ = runCLI(t, "", "convert", "--codec", "base32_decode", "--file", filepath.Join(t.TempDir(), "missing"))
	if code != 1 {
		t.Fatalf("expected exit 1 for missing file, got %d", code)
	}
}

func TestConvertAllRendersCards(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "convert", "--input", "M!======")
	if code != 0 {
		t.Fatalf("codec failures must not fail the command, got exit %d", code)
	}
	for _, want := range []string{
		"# Decoded",
		"# Encoded",
		"== Base32 Decoded ==\nerror (invalid_character_set): Invalid Base32 character: !",
		"== Hex Encoded ==\n4d213d3d3d3d3d3d",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "# Decoded") > strings.Index(stdout, "# Encoded") {
		t.Error("expected decoders before encoders")
	}
}

func TestConvertJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "convert", "--json", "--input", "4142")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var report cipher.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Decoded[2].ID != "hex_decode" || report.Decoded[2].Result.Value() != "AB" {
		t.Fatalf("unexpected hex outcome %+v", report.Decoded[2])
	}

	code, stdout, _ = runCLI(t, "", "convert", "--json", "--codec", "hex_decode", "--input", "414")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	var single codecOutput
	if err := json.Unmarshal([]byte(stdout), &single); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if single.Result.OK() || single.Codec != "hex_decode" {
		t.Fatalf("unexpected single result %+v", single)
	}
}

func TestConvertLineModeFromConfig(t *testing.T) {
	path := writeConfig(t, "line_mode: true\nlog:\n  level: error\n")
	code, stdout, stderr := runWithConfig(t, path, "A\nB", "convert", "--codec", "hex_encode")
	if code != 0 || stdout != "41\n42\n" {
		t.Fatalf("unexpected result %d %q %q", code, stdout, stderr)
	}
	code, stdout, _ = runWithConfig(t, path, "A\nB", "convert", "--codec", "hex_encode", "--lines=false")
	if code != 0 || stdout != "410a42\n" {
		t.Fatalf("expected flag to override config, got %d %q", code, stdout)
	}
}
