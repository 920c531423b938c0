package program

import (
	"fmt"

	"github.com/richinsley/goshaderhost/shader"
)

// Translator rewrites a WebGL2 source into the dialect the device compiles.
// names maps identifiers as written to identifiers in the returned code.
type Translator interface {
	Translate(src shader.Source) (code string, names map[string]string, err error)
}

// Compiler turns a vertex/fragment pair into a linked Program.
type Compiler struct {
	dev        Device
	translator Translator
}

// NewCompiler returns a Compiler issuing calls against dev. t may be nil, in
// which case WebGL2 sources are rejected.
func NewCompiler(dev Device, t Translator) *Compiler {
	return &Compiler{dev: dev, translator: t}
}

// stageObject owns a compiled shader object until release.
type stageObject struct {
	dev    Device
	handle uint32
}

func (s *stageObject) release() {
	if s.handle != 0 {
		s.dev.DeleteShader(s.handle)
		s.handle = 0
	}
}

// Compile builds and links a program. A stage that fails to compile stops the
// build before linking; every intermediate object is released on all paths.
// The returned program has no attributes resolved.
func (c *Compiler) Compile(vertex, fragment shader.Source) (*Program, error) {
	if vertex.Stage != shader.Vertex {
		return nil, fmt.Errorf("compile: %s passed as vertex source", vertex)
	}
	if fragment.Stage != shader.Fragment {
		return nil, fmt.Errorf("compile: %s passed as fragment source", fragment)
	}

	aliases := make(map[string]string)
	var diags []Diagnostic

	vs, d, err := c.compileStage(vertex, aliases)
	if err != nil {
		return nil, err
	}
	defer vs.release()
	diags = append(diags, d)

	fs, d, err := c.compileStage(fragment, aliases)
	if err != nil {
		return nil, err
	}
	defer fs.release()
	diags = append(diags, d)

	handle, ok, linkLog := c.dev.LinkProgram(vs.handle, fs.handle)
	if !ok {
		if handle != 0 {
			c.dev.DeleteProgram(handle)
		}
		return nil, &LinkError{Log: linkLog}
	}
	diags = append(diags, Diagnostic{Stage: StageProgram, Success: true, Log: linkLog})

	return newProgram(c.dev, handle, aliases, diags), nil
}

func (c *Compiler) compileStage(src shader.Source, aliases map[string]string) (*stageObject, Diagnostic, error) {
	stage := src.Stage.String()
	text := src.Text
	if src.Dialect == shader.WebGL2 {
		if c.translator == nil {
			return nil, Diagnostic{}, &CompileError{Stage: stage, Origin: src.Origin, Log: "no translator configured for webgl2 source"}
		}
		code, names, err := c.translator.Translate(src)
		if err != nil {
			return nil, Diagnostic{}, &CompileError{Stage: stage, Origin: src.Origin, Log: err.Error()}
		}
		text = code
		for k, v := range names {
			aliases[k] = v
		}
	}

	handle, ok, compileLog := c.dev.CompileShader(src.Stage, text)
	obj := &stageObject{dev: c.dev, handle: handle}
	if !ok {
		obj.release()
		return nil, Diagnostic{}, &CompileError{Stage: stage, Origin: src.Origin, Log: compileLog}
	}
	return obj, Diagnostic{Stage: stage, Success: true, Log: compileLog}, nil
}
