package program

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderhost/shader"
)

// Provider hands out the program uniforms are written to.
type Provider interface {
	Active() *Program
}

// FrameState carries the per-frame values of the ShaderToy uniform contract.
type FrameState struct {
	Width, Height int
	// Time and TimeDelta are in seconds.
	Time      float32
	TimeDelta float32
	Frame     int32
	Mouse     mgl32.Vec2
}

// Binder writes uniform values to whichever program is active. Locations are
// resolved once per program; names the program does not declare are ignored.
type Binder struct {
	src     Provider
	bound   *Program
	verbose bool
}

func NewBinder(src Provider) *Binder {
	return &Binder{src: src}
}

// SetVerbose makes the binder log, once per program, names it could not
// resolve.
func (b *Binder) SetVerbose(v bool) {
	b.verbose = v
}

func (b *Binder) SetFloat(name string, v float32) {
	if p, loc := b.resolve(name, KindFloat); p != nil {
		p.dev.Uniform1f(loc, v)
	}
}

func (b *Binder) SetInt(name string, v int32) {
	if p, loc := b.resolve(name, KindInt); p != nil {
		p.dev.Uniform1i(loc, v)
	}
}

func (b *Binder) SetVec2(name string, v mgl32.Vec2) {
	if p, loc := b.resolve(name, KindVec2); p != nil {
		p.dev.Uniform2f(loc, v[0], v[1])
	}
}

func (b *Binder) SetVec3(name string, v mgl32.Vec3) {
	if p, loc := b.resolve(name, KindVec3); p != nil {
		p.dev.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (b *Binder) SetVec4(name string, v mgl32.Vec4) {
	if p, loc := b.resolve(name, KindVec4); p != nil {
		p.dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// ApplyStandardUniforms binds the active program and writes iResolution,
// iTime, iTimeDelta, iFrame and iMouse. Uniform values do not survive a
// program swap, so this runs every frame before drawing.
func (b *Binder) ApplyStandardUniforms(f FrameState) {
	p := b.src.Active()
	if p == nil {
		return
	}
	b.use(p)
	b.SetVec3(shader.UniformResolution, mgl32.Vec3{float32(f.Width), float32(f.Height), 1.0})
	b.SetFloat(shader.UniformTime, f.Time)
	b.SetFloat(shader.UniformTimeDelta, f.TimeDelta)
	b.SetInt(shader.UniformFrame, f.Frame)
	b.SetVec4(shader.UniformMouse, mgl32.Vec4{f.Mouse[0], f.Mouse[1], 0, 0})
}

func (b *Binder) use(p *Program) {
	if b.bound != p {
		p.Use()
		b.bound = p
	}
}

// resolve returns the active program, bound, and the location of name, or a
// nil program when the write must be skipped.
func (b *Binder) resolve(name string, kind UniformKind) (*Program, int32) {
	p := b.src.Active()
	if p == nil || p.Released() {
		return nil, -1
	}
	loc := p.uniformLocation(name)
	if loc < 0 {
		if b.verbose {
			p.reportOnce("missing:"+name, "Uniform %s is not used by the active program", name)
		}
		return nil, -1
	}
	if d, ok := p.Uniform(name); ok && d.Kind != KindOther && d.Kind != kind {
		p.reportOnce("kind:"+name, "Uniform %s is declared as %v, ignoring %v update", name, d.Kind, kind)
		return nil, -1
	}
	b.use(p)
	return p, loc
}
