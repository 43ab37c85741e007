package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evsheet/go-evsheet/eventtree"
	"github.com/evsheet/go-evsheet/parser"
	"github.com/evsheet/go-evsheet/registry"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	registryPath := fs.String("registry", "", "YAML instruction registry (optional)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: evsheet validate <sheet.json> [options]

Load an event sheet and report structural problems: malformed records,
unknown event types, sub-events on non-container events. With a
registry, also reports instruction ids the registry does not know.

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

	sheetBytes, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	events, err := parser.FromJSON(sheetBytes)
	if err != nil {
		return err
	}

	var reg registry.Registry
	if *registryPath != "" {
		reg, err = registry.LoadYAMLFile(*registryPath)
		if err != nil {
			return err
		}
	}

	nodes, instructions, unknown := 0, 0, 0
	eventtree.Walk(events, func(ev eventtree.Event) bool {
		nodes++
		lists := append(ev.ConditionLists(), ev.ActionLists()...)
		for _, list := range lists {
			for _, ins := range list.Items {
				instructions++
				if reg == nil {
					continue
				}
				id := ins.TypeID
				if renamed, ok := reg.Renamed(id); ok {
					id = renamed
				}
				if _, ok := reg.Instruction(id); !ok {
					fmt.Fprintf(os.Stderr, "unknown instruction id: %s\n", ins.TypeID)
					unknown++
				}
			}
		}
		return true
	})

	fmt.Printf("events: %d\ninstructions: %d\n", nodes, instructions)
	if unknown > 0 {
		return fmt.Errorf("%d unknown instruction id(s)", unknown)
	}
	fmt.Println("OK")
	return nil
}
