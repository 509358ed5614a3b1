package cipher

import (
	"errors"
	"testing"
)

func TestChainApply(t *testing.T) {
	tests := []struct {
		name     string
		steps    []string
		input    string
		expected string
	}{
		{"single step", []string{"base64_encode"}, "hello", "aGVsbG8="},
		{"double encoding", []string{"base64_encode", "base64_encode"}, "test", "ZEdWemRBPT0="},
		{"encode then decode", []string{"url_encode", "url_decode"}, "hello world", "hello world"},
		{"hex of base32", []string{"base32_encode", "hex_encode"}, "f", "4d593d3d3d3d3d3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Chain{Steps: tt.steps}.Apply(tt.input, false)
			if err != nil {
				t.Fatalf("chain failed: %v", err)
			}
			if !res.OK() {
				t.Fatalf("unexpected failure: %v", res.Err())
			}
			if res.Value() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, res.Value())
			}
		})
	}
}

func TestChainStopsAtFailingStep(t *testing.T) {
	res, err := ParseChain("hex_decode,base64_encode").Apply("414", false)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if res.OK() {
		t.Fatalf("expected failure, got %q", res.Value())
	}
	if res.Err().Message != "Invalid Hex input (must have even number of digits)" {
		t.Errorf("unexpected message %q", res.Err().Message)
	}
}

func TestChainLineMode(t *testing.T) {
	res, err := ParseChain("hex_encode,base64_encode").Apply("A\n\nB", true)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if res.Value() != "NDE=\n\nNDI=" {
		t.Errorf("expected per-line chain output, got %q", res.Value())
	}
}

func TestChainReverse(t *testing.T) {
	chain := ParseChain("base64_encode, url_encode ,hex_encode")
	encoded, err := chain.Apply("Grüße!", false)
	if err != nil || !encoded.OK() {
		t.Fatalf("encode failed: %v %v", err, encoded.Err())
	}

	reversed, err := chain.Reverse()
	if err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	if got := reversed.String(); got != "hex_decode,url_decode,base64_decode" {
		t.Errorf("unexpected reversed chain %q", got)
	}

	decoded, err := reversed.Apply(encoded.Value(), false)
	if err != nil || !decoded.OK() {
		t.Fatalf("decode failed: %v %v", err, decoded.Err())
	}
	if decoded.Value() != "Grüße!" {
		t.Errorf("roundtrip: expected %q, got %q", "Grüße!", decoded.Value())
	}
}

func TestChainValidation(t *testing.T) {
	if _, err := (Chain{}).Apply("x", false); err == nil {
		t.Error("expected error for empty chain")
	}

	_, err := ParseChain("base64_encode,rot13").Apply("x", false)
	if !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("expected ErrUnknownCodec, got %v", err)
	}

	if _, err := ParseChain("nope").Reverse(); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("expected ErrUnknownCodec from Reverse, got %v", err)
	}
}
