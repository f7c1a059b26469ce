package inputs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed action.yml
var defaultManifest []byte

// Manifest is the subset of an action metadata file (action.yml) the step
// needs: the declared inputs with their defaults.
type Manifest struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Inputs      map[string]InputSpec  `yaml:"inputs"`
	Outputs     map[string]OutputSpec `yaml:"outputs"`
}

// InputSpec declares one pipeline input.
type InputSpec struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

// OutputSpec declares one step output.
type OutputSpec struct {
	Description string `yaml:"description"`
}

// DefaultManifest returns the manifest bundled with the binary.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultManifest)
}

// LoadManifest reads and parses an action manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses action manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Inputs == nil {
		m.Inputs = make(map[string]InputSpec)
	}
	return &m, nil
}

// InputNames returns the declared input names in sorted order.
func (m *Manifest) InputNames() []string {
	names := make([]string, 0, len(m.Inputs))
	for name := range m.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
