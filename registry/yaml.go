package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile mirrors the on-disk registry definition:
//
//	instructions:
//	  - id: KeyPressed
//	    kind: condition
//	    arity: 1
//	    template: 'runtime.keyPressed({{index .Params 0}})'
//	renames:
//	  OldSetVar: SetVar
type yamlFile struct {
	Instructions []InstructionDef  `yaml:"instructions"`
	Renames      map[string]string `yaml:"renames"`
}

// LoadYAML reads instruction definitions and deprecated-id renames from r.
func LoadYAML(r io.Reader) (*MapRegistry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("registry: read: %w", err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("registry: parse yaml: %w", err)
	}

	reg := NewMapRegistry()
	for _, def := range file.Instructions {
		if def.ID == "" {
			return nil, fmt.Errorf("registry: instruction with empty id")
		}
		if def.Kind != KindCondition && def.Kind != KindAction {
			return nil, fmt.Errorf("registry: instruction %s: unknown kind %q", def.ID, def.Kind)
		}
		reg.Add(def)
	}
	for old, replacement := range file.Renames {
		reg.AddRename(old, replacement)
	}
	return reg, nil
}

// LoadYAMLFile reads a registry from the given path.
func LoadYAMLFile(path string) (*MapRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadYAML(f)
}
