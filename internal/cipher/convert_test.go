package cipher

import "testing"

func TestConvertIsolatesFailures(t *testing.T) {
	report := Convert("M!======", false)

	if len(report.Decoded) != 4 || len(report.Encoded) != 4 {
		t.Fatalf("expected 4 decoded and 4 encoded outcomes, got %d and %d", len(report.Decoded), len(report.Encoded))
	}

	byID := make(map[string]Outcome)
	for _, o := range append(report.Decoded, report.Encoded...) {
		byID[o.ID] = o
	}

	if o := byID["base32_decode"]; o.Result.OK() || o.Copyable {
		t.Errorf("base32_decode should fail and not be copyable: %+v", o)
	}
	if o := byID["hex_encode"]; !o.Result.OK() || o.Result.Value() != "4d213d3d3d3d3d3d" || !o.Copyable {
		t.Errorf("hex_encode should succeed: %+v", o)
	}
	if o := byID["url_encode"]; o.Result.Value() != "M!%3D%3D%3D%3D%3D%3D" {
		t.Errorf("unexpected url_encode value %q", o.Result.Value())
	}
	// base64_decode and base32_decode
	if got := report.Failures(); got != 2 {
		t.Errorf("expected 2 failures, got %d", got)
	}
}

func TestConvertOrderMatchesRegistry(t *testing.T) {
	report := Convert("abc", true)
	for i, c := range Decoders() {
		if report.Decoded[i].Name != c.Name || report.Decoded[i].Description != c.Description {
			t.Errorf("decoded[%d]: expected %q, got %q", i, c.Name, report.Decoded[i].Name)
		}
	}
	for i, c := range Encoders() {
		if report.Encoded[i].ID != c.ID {
			t.Errorf("encoded[%d]: expected %q, got %q", i, c.ID, report.Encoded[i].ID)
		}
	}
	if !report.LineMode {
		t.Error("report should record line mode")
	}
}

func TestConvertEmptyInputNotCopyable(t *testing.T) {
	report := Convert("", false)
	if report.Failures() != 0 {
		t.Errorf("empty input should never fail, got %d failures", report.Failures())
	}
	for _, o := range append(report.Decoded, report.Encoded...) {
		if o.Copyable {
			t.Errorf("%s: empty input should not be copyable", o.ID)
		}
	}
}

func TestRunSingleCodec(t *testing.T) {
	c, _ := Lookup("base32_encode")
	o := Run(c, "f", false)
	if o.Name != "Base32 Encoded" || o.Result.Value() != "MY======" || !o.Copyable {
		t.Errorf("unexpected outcome %+v", o)
	}
}
