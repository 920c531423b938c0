package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/richinsley/goshaderhost/program"
)

// Manifest lists the shader sets that can be switched between at runtime.
type Manifest struct {
	Sets []program.SourceSet `yaml:"sets"`
}

// LoadManifest reads a YAML manifest. Relative file paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range m.Sets {
		m.Sets[i].Vertex = resolve(dir, m.Sets[i].Vertex)
		m.Sets[i].Fragment = resolve(dir, m.Sets[i].Fragment)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Sets) == 0 {
		return nil, fmt.Errorf("no shader sets")
	}
	if len(m.Sets) > 9 {
		return nil, fmt.Errorf("%d shader sets, at most 9 can be selected", len(m.Sets))
	}
	for i, s := range m.Sets {
		if !s.ShaderToy && (s.Vertex == "") != (s.Fragment == "") {
			return nil, fmt.Errorf("set %d (%s): vertex and fragment must be given together", i+1, s)
		}
		if m.Sets[i].Name == "" {
			m.Sets[i].Name = fmt.Sprintf("set %d", i+1)
		}
	}
	return &m, nil
}

// Set returns the set bound to key n (1-based).
func (m *Manifest) Set(n int) (program.SourceSet, bool) {
	if m == nil || n < 1 || n > len(m.Sets) {
		return program.SourceSet{}, false
	}
	return m.Sets[n-1], true
}

func resolve(dir, id string) string {
	if id == "" || filepath.IsAbs(id) {
		return id
	}
	if scheme, _, ok := strings.Cut(id, ":"); ok && len(scheme) > 1 {
		return id
	}
	return filepath.Join(dir, id)
}
