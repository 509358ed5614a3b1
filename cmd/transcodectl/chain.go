package main

import (
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/RowanDark/transcode/internal/cipher"
)

func runChain(args []string, e *env) int {
	fs := flag.NewFlagSet("chain", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	steps := fs.String("steps", "", "Comma-separated codec IDs applied in order")
	reverse := fs.Bool("reverse", false, "Undo the chain by applying inverse codecs in reverse order")
	lines := fs.Bool("lines", e.cfg.LineMode, "Apply every step to each line independently")
	asJSON := fs.Bool("json", false, "Emit JSON instead of text")
	input := fs.String("input", "", "Text to convert")
	file := fs.String("file", "", "Read the text to convert from a file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(e.stderr, "chain takes no positional arguments")
		return 2
	}

	chain := cipher.ParseChain(*steps)
	if err := chain.Validate(); err != nil {
		fmt.Fprintf(e.stderr, "invalid --steps: %v\n", err)
		return 2
	}
	if *reverse {
		reversed, err := chain.Reverse()
		if err != nil {
			fmt.Fprintf(e.stderr, "reverse chain: %v\n", err)
			return 2
		}
		chain = reversed
	}

	text, err := e.readInput(*input, *file, flagWasSet(fs, "input"))
	if err != nil {
		return reportErr(e.stderr, err)
	}

	logger, err := e.newLogger("chain")
	if err != nil {
		fmt.Fprintf(e.stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Close() }()

	res, err := chain.Apply(text, *lines)
	if err != nil {
		fmt.Fprintf(e.stderr, "apply chain: %v\n", err)
		if errors.Is(err, cipher.ErrUnknownCodec) {
			return 2
		}
		return 1
	}
	logger.Debug("chain", zap.Stringer("steps", chain), zap.Bool("ok", res.OK()))
	return writeSingle(e, chain.String(), res, *asJSON)
}
