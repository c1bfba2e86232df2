package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dlogc/dlogc/internal/config"
)

// projectFile is the optional dlc.yaml shape: project-wide defaults for
// switches a user would otherwise repeat on every invocation (SPEC_FULL
// §B: yaml.v3 "loads an optional dlc.yaml project file providing
// --library-dir/--libraries defaults").
type projectFile struct {
	LibraryDir string   `yaml:"library_dir"`
	Libraries  []string `yaml:"libraries"`
}

// loadProjectDefaults builds a fresh Config, overlaying path's contents if
// it exists. A missing file is not an error -- dlc.yaml is optional.
func loadProjectDefaults(path string) (*config.Config, error) {
	cfg := config.New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	cfg.LibraryDir = pf.LibraryDir
	cfg.Libraries = pf.Libraries
	return cfg, nil
}
