package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/RowanDark/transcode/internal/cipher"
)

func runCodecs(args []string, e *env) int {
	fs := flag.NewFlagSet("codecs", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	asJSON := fs.Bool("json", false, "Emit the registry as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(e.stderr, "codecs takes no arguments")
		return 2
	}

	if *asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string][]cipher.Codec{
			"encoders": cipher.Encoders(),
			"decoders": cipher.Decoders(),
		}); err != nil {
			fmt.Fprintf(e.stderr, "encode codecs: %v\n", err)
			return 1
		}
		return 0
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINVERSE\tDESCRIPTION")
	for _, c := range cipher.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Inverse, c.Description)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(e.stderr, "write codecs: %v\n", err)
		return 1
	}
	return 0
}
