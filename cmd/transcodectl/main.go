package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RowanDark/transcode/internal/config"
	"github.com/RowanDark/transcode/internal/logging"
)

const productName = "transcode"
const cliBanner = productName + " CLI (transcodectl)"

// env carries the process streams and the resolved configuration into
// each subcommand.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("transcodectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML config file (skips the default search)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, cliBanner)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "usage: transcodectl [--config PATH] <command> [flags]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "commands: convert, codecs, chain, serve, version")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	if rest[0] == "version" {
		return runVersion(rest[1:], e)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	e.cfg = cfg

	switch rest[0] {
	case "convert":
		return runConvert(rest[1:], e)
	case "codecs":
		return runCodecs(rest[1:], e)
	case "chain":
		return runChain(rest[1:], e)
	case "serve":
		return runServe(rest[1:], e)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", rest[0])
		return 2
	}
}

func loadConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger routes log output to the command's stderr stream.
func (e *env) newLogger(component string) (*logging.Logger, error) {
	return logging.FromConfig(component, e.cfg.Log, logging.WithoutStderr(), logging.WithWriter(e.stderr))
}

// readInput resolves the text to convert from --input, --file or stdin.
func (e *env) readInput(input, file string, inputSet bool) (string, error) {
	if inputSet && file != "" {
		return "", errUsage("--input and --file are mutually exclusive")
	}
	if inputSet {
		return input, nil
	}
	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(e.stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

type usageError string

func errUsage(msg string) error { return usageError(msg) }

func (u usageError) Error() string { return string(u) }

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
