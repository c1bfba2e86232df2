package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the optional "dlc.yaml" providing defaults for switches a
// user would otherwise repeat on every invocation (library search path and
// preloaded libraries, §6). CLI flags always take precedence over the file.
type ProjectFile struct {
	LibraryDir string   `yaml:"library_dir"`
	Libraries  []string `yaml:"libraries"`
	Suppress   []string `yaml:"suppress_warnings"`
}

// LoadProjectFile reads and parses a dlc.yaml at path. A missing file is not
// an error -- it simply means no defaults are provided.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectFile{}, nil
		}
		return nil, err
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

// ApplyDefaults fills in any Config field left at its zero value from the
// project file, without overriding values already set from the CLI.
func (c *Config) ApplyDefaults(pf *ProjectFile) {
	if pf == nil {
		return
	}
	if c.LibraryDir == "" {
		c.LibraryDir = pf.LibraryDir
	}
	if len(c.Libraries) == 0 {
		c.Libraries = pf.Libraries
	}
	if len(c.SuppressWarnings) == 0 {
		c.SuppressWarnings = pf.Suppress
	}
}
