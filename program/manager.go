package program

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/richinsley/goshaderhost/shader"
)

// ErrNoSourceSet is returned by ReloadCurrent when the manager was
// initialized from literal sources and has nothing to re-read.
var ErrNoSourceSet = errors.New("no source set to reload")

// SourceSet names the sources a program is built from. It is the state a
// reload re-reads.
type SourceSet struct {
	Name     string `yaml:"name"`
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	// ShaderToy marks Fragment as a mainImage snippet to be wrapped. An empty
	// Vertex then selects the companion vertex program.
	ShaderToy bool `yaml:"shadertoy"`
}

func (s SourceSet) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Vertex + "+" + s.Fragment
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Layout lists the vertex inputs each program must resolve. Defaults to
	// QuadLayout.
	Layout Layout
	// Loader reads SourceSet identifiers. Defaults to shader.FileLoader.
	Loader shader.Loader
	// ShaderToyDialect selects the wrapper header for ShaderToy sets.
	ShaderToyDialect shader.Dialect
}

// Manager owns the single active program and every transition of it. A
// program is published only after it linked and resolved its attributes; the
// program it replaces is released strictly afterwards.
type Manager struct {
	mu         sync.Mutex
	compiler   *Compiler
	layout     Layout
	loader     shader.Loader
	dialect    shader.Dialect
	active     *Program
	generation uint64
	current    SourceSet
	hasSet     bool
}

func NewManager(c *Compiler, cfg ManagerConfig) *Manager {
	m := &Manager{
		compiler: c,
		layout:   cfg.Layout,
		loader:   cfg.Loader,
		dialect:  cfg.ShaderToyDialect,
	}
	if m.layout == nil {
		m.layout = QuadLayout
	}
	if m.loader == nil {
		m.loader = shader.FileLoader{}
	}
	return m
}

// Initialize builds the first program. There is nothing to fall back to, so
// callers treat an error as fatal.
func (m *Manager) Initialize(vertex, fragment shader.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialize(vertex, fragment)
}

// Reload builds a candidate program and swaps it in. On failure the active
// program is left untouched and the error is returned.
func (m *Manager) Reload(vertex, fragment shader.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reload(vertex, fragment)
}

// Active returns the current program, or nil before initialization. The
// result can change between frames and must not be cached.
func (m *Manager) Active() *Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Generation increases every time a program is published.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Current returns the source set the next ReloadCurrent re-reads.
func (m *Manager) Current() (SourceSet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasSet
}

// Load reads set through the loader and builds it: the first load initializes,
// later loads reload. set becomes current even if the build fails so that a
// corrected file can be retried with ReloadCurrent.
func (m *Manager) Load(set SourceSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current, m.hasSet = set, true
	return m.loadLocked(set)
}

// ReloadCurrent re-reads the current source set and reloads it.
func (m *Manager) ReloadCurrent() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSet {
		return ErrNoSourceSet
	}
	return m.loadLocked(m.current)
}

// Close releases the active program.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active.Release()
	m.active = nil
}

func (m *Manager) loadLocked(set SourceSet) error {
	log.Printf("Loading shader set %s", set)
	vertex, fragment, err := m.sources(set)
	if err != nil {
		if m.active != nil {
			log.Printf("Shader reload failed, keeping previous program: %v", err)
		}
		return err
	}
	if m.active == nil {
		return m.initialize(vertex, fragment)
	}
	return m.reload(vertex, fragment)
}

func (m *Manager) sources(set SourceSet) (shader.Source, shader.Source, error) {
	if set.ShaderToy {
		snippet := shader.Literal(shader.Fragment, shader.DefaultImage)
		if set.Fragment != "" {
			var err error
			if snippet, err = m.loader.Load(set.Fragment, shader.Fragment); err != nil {
				return shader.Source{}, shader.Source{}, err
			}
		}
		vertex := shader.ShaderToyVertex(m.dialect)
		if set.Vertex != "" {
			var err error
			if vertex, err = m.loader.Load(set.Vertex, shader.Vertex); err != nil {
				return shader.Source{}, shader.Source{}, err
			}
			vertex.Dialect = m.dialect
		}
		return vertex, shader.Wrap(snippet, m.dialect), nil
	}

	if set.Vertex == "" && set.Fragment == "" {
		return shader.Literal(shader.Vertex, shader.GradientVertex), shader.Literal(shader.Fragment, shader.GradientFragment), nil
	}
	vertex, err := m.loader.Load(set.Vertex, shader.Vertex)
	if err != nil {
		return shader.Source{}, shader.Source{}, err
	}
	fragment, err := m.loader.Load(set.Fragment, shader.Fragment)
	if err != nil {
		return shader.Source{}, shader.Source{}, err
	}
	return vertex, fragment, nil
}

func (m *Manager) initialize(vertex, fragment shader.Source) error {
	if m.active != nil {
		return ErrAlreadyInitialized
	}
	p, err := m.build(vertex, fragment)
	if err != nil {
		return fmt.Errorf("initialize shader program: %w", err)
	}
	m.publish(p)
	log.Printf("Shader program created successfully")
	return nil
}

func (m *Manager) reload(vertex, fragment shader.Source) error {
	if m.active == nil {
		return ErrNotInitialized
	}
	p, err := m.build(vertex, fragment)
	if err != nil {
		log.Printf("Shader reload failed, keeping previous program: %v", err)
		return fmt.Errorf("reload shader program: %w", err)
	}
	old := m.active
	m.publish(p)
	old.Release()
	log.Printf("Shader reloaded successfully")
	return nil
}

// build compiles a candidate and resolves its attributes. The candidate is
// released if it cannot be published.
func (m *Manager) build(vertex, fragment shader.Source) (*Program, error) {
	p, err := m.compiler.Compile(vertex, fragment)
	if err != nil {
		return nil, err
	}
	if err := p.resolveAttributes(m.layout); err != nil {
		p.Release()
		return nil, err
	}
	for _, d := range p.Diagnostics() {
		if d.Log != "" {
			log.Printf("Shader diagnostics: %v", d)
		}
	}
	return p, nil
}

func (m *Manager) publish(p *Program) {
	m.active = p
	m.generation++
}
