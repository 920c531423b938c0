package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrResourceUnavailable is matched by every loader failure.
var ErrResourceUnavailable = errors.New("resource unavailable")

// ResourceError reports a shader source that could not be read completely.
type ResourceError struct {
	ID  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("load shader %q: %v", e.ID, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	return []error{ErrResourceUnavailable, e.Err}
}

// Loader reads raw shader text from a named resource.
type Loader interface {
	Load(id string, stage Stage) (Source, error)
}

// FileLoader reads sources from the filesystem. It never caches, so every call
// observes the file as it is on disk.
type FileLoader struct {
	// Dir, when set, is joined in front of relative identifiers.
	Dir string
}

func (l FileLoader) Load(id string, stage Stage) (Source, error) {
	if id == "" {
		return Source{}, &ResourceError{ID: id, Err: errors.New("empty identifier")}
	}
	path := id
	if l.Dir != "" && !filepath.IsAbs(id) {
		path = filepath.Join(l.Dir, id)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Source{}, &ResourceError{ID: id, Err: err}
	}
	return Source{Stage: stage, Origin: path, Text: string(b)}, nil
}

// MultiLoader routes identifiers of the form "scheme:rest" to the loader
// registered for scheme and everything else to Default.
type MultiLoader struct {
	Default Loader
	Schemes map[string]Loader
}

func (m MultiLoader) Load(id string, stage Stage) (Source, error) {
	if scheme, rest, ok := strings.Cut(id, ":"); ok && len(scheme) > 1 {
		if l, ok := m.Schemes[scheme]; ok {
			return l.Load(rest, stage)
		}
	}
	if m.Default == nil {
		return Source{}, &ResourceError{ID: id, Err: errors.New("no loader for identifier")}
	}
	return m.Default.Load(id, stage)
}
