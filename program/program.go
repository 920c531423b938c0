package program

import "log"

// Program is a linked GPU program owned by a Manager. The handle is released
// exactly once through Release.
type Program struct {
	dev         Device
	handle      uint32
	released    bool
	diagnostics []Diagnostic

	// aliases maps names as written in the source to names in the compiled
	// code when a translator renamed them.
	aliases  map[string]string
	uniforms map[string]UniformDescriptor
	attribs  map[string]int32

	locations map[string]int32
	reported  map[string]bool
}

func newProgram(dev Device, handle uint32, aliases map[string]string, diags []Diagnostic) *Program {
	p := &Program{
		dev:         dev,
		handle:      handle,
		diagnostics: diags,
		aliases:     aliases,
		uniforms:    make(map[string]UniformDescriptor),
		attribs:     make(map[string]int32),
		locations:   make(map[string]int32),
		reported:    make(map[string]bool),
	}
	if p.aliases == nil {
		p.aliases = make(map[string]string)
	}
	for _, u := range dev.ActiveUniforms(handle) {
		p.uniforms[p.sourceName(u.Name)] = UniformDescriptor{Name: p.sourceName(u.Name), Kind: u.Kind}
	}
	return p
}

// Handle returns the GPU program object.
func (p *Program) Handle() uint32 {
	return p.handle
}

// Diagnostics returns the per-unit logs recorded while building the program.
// Warnings of successful stages end up here.
func (p *Program) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// Uniforms returns the uniforms the program declares as active.
func (p *Program) Uniforms() []UniformDescriptor {
	out := make([]UniformDescriptor, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	return out
}

// Uniform looks up a declared uniform by its source name.
func (p *Program) Uniform(name string) (UniformDescriptor, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// AttribLocation returns a resolved attribute location.
func (p *Program) AttribLocation(name string) (int32, bool) {
	loc, ok := p.attribs[name]
	return loc, ok
}

// Attributes returns a copy of the resolved attribute locations.
func (p *Program) Attributes() map[string]int32 {
	out := make(map[string]int32, len(p.attribs))
	for k, v := range p.attribs {
		out[k] = v
	}
	return out
}

// Use binds the program for subsequent draw and uniform calls.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// Release deletes the GPU program. Further calls are no-ops.
func (p *Program) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.dev.DeleteProgram(p.handle)
}

// Released reports whether Release has been called.
func (p *Program) Released() bool {
	return p.released
}

func (p *Program) compiledName(name string) string {
	if mapped, ok := p.aliases[name]; ok {
		return mapped
	}
	return name
}

func (p *Program) sourceName(compiled string) string {
	for src, mapped := range p.aliases {
		if mapped == compiled {
			return src
		}
	}
	return compiled
}

// resolveAttributes fills the attribute table from layout. A missing required
// attribute fails; a missing optional one is left out of the table.
func (p *Program) resolveAttributes(layout Layout) error {
	attribs := make(map[string]int32, len(layout))
	for _, a := range layout {
		loc := p.dev.AttribLocation(p.handle, p.compiledName(a.Name))
		if loc < 0 {
			if a.Required {
				return &AttributeError{Name: a.Name}
			}
			continue
		}
		attribs[a.Name] = loc
	}
	p.attribs = attribs
	return nil
}

// uniformLocation resolves name once per program; -1 means absent.
func (p *Program) uniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, p.compiledName(name))
	p.locations[name] = loc
	return loc
}

// reportOnce logs msg the first time key is seen for this program.
func (p *Program) reportOnce(key, format string, args ...any) {
	if p.reported[key] {
		return
	}
	p.reported[key] = true
	log.Printf(format, args...)
}
