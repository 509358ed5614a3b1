package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/RowanDark/transcode/internal/cipher"
)

type codecOutput struct {
	Codec  string        `json:"codec"`
	Result cipher.Result `json:"result"`
}

func runConvert(args []string, e *env) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	lines := fs.Bool("lines", e.cfg.LineMode, "Convert each line independently")
	codecID := fs.String("codec", "", "Run a single codec instead of all of them")
	asJSON := fs.Bool("json", false, "Emit JSON instead of text")
	input := fs.String("input", "", "Text to convert")
	file := fs.String("file", "", "Read the text to convert from a file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(e.stderr, "convert takes no positional arguments")
		return 2
	}

	text, err := e.readInput(*input, *file, flagWasSet(fs, "input"))
	if err != nil {
		return reportErr(e.stderr, err)
	}

	logger, err := e.newLogger("convert")
	if err != nil {
		fmt.Fprintf(e.stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Close() }()

	if *codecID != "" {
		codec, ok := cipher.Lookup(*codecID)
		if !ok {
			fmt.Fprintf(e.stderr, "%v: %s\n", cipher.ErrUnknownCodec, *codecID)
			return 2
		}
		res := codec.Apply(text, *lines)
		logger.Debug("convert", zap.String("codec", codec.ID), zap.Bool("ok", res.OK()))
		return writeSingle(e, codec.ID, res, *asJSON)
	}

	report := cipher.Convert(text, *lines)
	logger.Debug("convert", zap.Int("input_bytes", len(text)), zap.Int("failures", report.Failures()))
	if *asJSON {
		if err := writeJSON(e.stdout, report); err != nil {
			fmt.Fprintf(e.stderr, "encode report: %v\n", err)
			return 1
		}
		return 0
	}
	renderReport(e.stdout, report)
	return 0
}

// writeSingle prints one codec result; a failed result exits 1.
func writeSingle(e *env, id string, res cipher.Result, asJSON bool) int {
	if asJSON {
		if err := writeJSON(e.stdout, codecOutput{Codec: id, Result: res}); err != nil {
			fmt.Fprintf(e.stderr, "encode result: %v\n", err)
			return 1
		}
	} else if res.OK() {
		fmt.Fprintln(e.stdout, res.Value())
	} else {
		fmt.Fprintf(e.stderr, "%s: %s\n", id, res.Text())
	}
	if !res.OK() {
		return 1
	}
	return 0
}

func renderReport(w io.Writer, report cipher.Report) {
	sections := []struct {
		title    string
		outcomes []cipher.Outcome
	}{
		{"Decoded", report.Decoded},
		{"Encoded", report.Encoded},
	}
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n", section.title)
		for _, o := range section.outcomes {
			fmt.Fprintf(w, "\n== %s ==\n", o.Name)
			if o.Result.OK() {
				fmt.Fprintln(w, o.Result.Value())
				continue
			}
			fmt.Fprintf(w, "error (%s): %s\n", o.Result.Err().Kind, o.Result.Err().Message)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportErr prints err and maps usage errors to exit code 2.
func reportErr(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, err)
	var usage usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}
