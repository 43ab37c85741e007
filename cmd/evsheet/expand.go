package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evsheet/go-evsheet/parser"
	"github.com/evsheet/go-evsheet/preprocess"
	"github.com/evsheet/go-evsheet/registry"
)

func expand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	registryPath := fs.String("registry", "", "YAML instruction registry (required)")
	output := fs.String("output", "", "Write expanded sheet to file (default stdout)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: evsheet expand <sheet.json> -registry <registry.yaml> [options]

Run the preprocessing pass over an event sheet and dump the rewritten
sheet as JSON: links are replaced by copies of their target groups and
deprecated instruction ids are renamed. The output contains no link
events and compiles to the same code as the input.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("sheet file required")
	}
	if *registryPath == "" {
		fs.Usage()
		return fmt.Errorf("-registry is required")
	}

	logger := newLogger(*verbose)

	reg, err := registry.LoadYAMLFile(*registryPath)
	if err != nil {
		return err
	}

	sheetBytes, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	events, err := parser.FromJSON(sheetBytes)
	if err != nil {
		return err
	}

	pp := preprocess.New(preprocess.Options{Registry: reg, Logger: &logger})
	events, diags := pp.Run(events)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}

	out, err := parser.ToJSON(events)
	if err != nil {
		return err
	}
	if *output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(*output, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
