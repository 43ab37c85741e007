package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/evsheet/go-evsheet/cache"
	"github.com/evsheet/go-evsheet/codegen"
	"github.com/evsheet/go-evsheet/diag"
	"github.com/evsheet/go-evsheet/parser"
	"github.com/evsheet/go-evsheet/preprocess"
	"github.com/evsheet/go-evsheet/registry"
)

func compile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	registryPath := fs.String("registry", "", "YAML instruction registry (required)")
	output := fs.String("output", "", "Write generated code to file (default stdout)")
	cachePath := fs.String("cache", "", "SQLite compile cache path (optional)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: evsheet compile <sheet.json> -registry <registry.yaml> [options]

Compile an event sheet to runtime script code. Compilation is
best-effort: unresolved instruction ids and bad expressions are
reported as diagnostics while the rest of the sheet still compiles.

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

	regBytes, err := os.ReadFile(*registryPath)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	reg, err := registry.LoadYAML(bytes.NewReader(regBytes))
	if err != nil {
		return err
	}

	sheetBytes, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}

	var store *cache.Store
	key := cache.Key(sheetBytes, string(regBytes))
	if *cachePath != "" {
		store, err = cache.Open(*cachePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if entry, ok, err := store.Get(key); err != nil {
			return err
		} else if ok {
			logger.Debug().Str("key", key).Msg("cache hit")
			return emit(*output, entry.Code, entry.Diagnostics)
		}
	}

	events, err := parser.FromJSON(sheetBytes)
	if err != nil {
		return err
	}

	pp := preprocess.New(preprocess.Options{Registry: reg, Logger: &logger})
	events, ppDiags := pp.Run(events)

	gen := codegen.New(codegen.Options{Registry: reg, Logger: &logger})
	result := gen.Generate(events)

	diags := append(ppDiags, result.Diagnostics...)

	if store != nil {
		if err := store.Put(cache.Entry{Key: key, Code: result.Code, Diagnostics: diags}); err != nil {
			logger.Warn().Err(err).Msg("cache write failed")
		}
	}

	return emit(*output, result.Code, diags)
}

func emit(output, code string, diags []diag.Diagnostic) error {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	if output == "" {
		fmt.Print(code)
		return nil
	}
	if err := os.WriteFile(output, []byte(code), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
