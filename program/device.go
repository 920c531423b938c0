package program

import "github.com/richinsley/goshaderhost/shader"

// UniformKind is the value type of a declared uniform.
type UniformKind int

const (
	KindOther UniformKind = iota
	KindFloat
	KindInt
	KindVec2
	KindVec3
	KindVec4
)

func (k UniformKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	}
	return "other"
}

// UniformDescriptor describes a uniform the linked program declares as active.
type UniformDescriptor struct {
	Name string
	Kind UniformKind
}

// Device is the subset of the GPU API the core needs. All methods are called
// from the goroutine that owns the GL context.
type Device interface {
	// CompileShader creates a shader object for stage and compiles text into it.
	// The object is returned even when compilation fails so the caller can
	// release it.
	CompileShader(stage shader.Stage, text string) (handle uint32, ok bool, log string)
	DeleteShader(handle uint32)

	// LinkProgram creates a program object, attaches the given shaders and links.
	// As with CompileShader the object is returned on failure.
	LinkProgram(shaders ...uint32) (handle uint32, ok bool, log string)
	DeleteProgram(handle uint32)
	UseProgram(handle uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	ActiveUniforms(program uint32) []UniformDescriptor

	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
}
