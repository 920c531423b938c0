// Package gldevice implements program.Device on top of OpenGL 4.1 core.
package gldevice

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderhost/program"
	"github.com/richinsley/goshaderhost/shader"
)

var glInitOnce sync.Once

// Device issues GL calls. It must only be used on the thread owning the
// current context.
type Device struct{}

// New initializes the GL function pointers for the current context.
func New() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Device{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CompileShader(stage shader.Stage, text string) (uint32, bool, string) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == shader.Fragment {
		shaderType = gl.FRAGMENT_SHADER
	}
	handle := gl.CreateShader(shaderType)
	csources, free := gl.Strs(text + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	return handle, status != gl.FALSE, shaderLog(handle)
}

func (d *Device) DeleteShader(handle uint32) {
	gl.DeleteShader(handle)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, bool, string) {
	handle := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(handle, s)
	}
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	logText := programLog(handle)
	if status != gl.FALSE {
		for _, s := range shaders {
			gl.DetachShader(handle, s)
		}
	}
	return handle, status != gl.FALSE, logText
}

func (d *Device) DeleteProgram(handle uint32) {
	gl.DeleteProgram(handle)
}

func (d *Device) UseProgram(handle uint32) {
	gl.UseProgram(handle)
}

func (d *Device) AttribLocation(prog uint32, name string) int32 {
	return gl.GetAttribLocation(prog, gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (d *Device) ActiveUniforms(prog uint32) []program.UniformDescriptor {
	var count, maxLen int32
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count == 0 {
		return nil
	}

	out := make([]program.UniformDescriptor, 0, count)
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(prog, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		// arrays are reported as "name[0]"
		name = strings.TrimSuffix(name, "[0]")
		out = append(out, program.UniformDescriptor{Name: name, Kind: kindOf(xtype)})
	}
	return out
}

func kindOf(xtype uint32) program.UniformKind {
	switch xtype {
	case gl.FLOAT:
		return program.KindFloat
	case gl.INT:
		return program.KindInt
	case gl.FLOAT_VEC2:
		return program.KindVec2
	case gl.FLOAT_VEC3:
		return program.KindVec3
	case gl.FLOAT_VEC4:
		return program.KindVec4
	}
	return program.KindOther
}

func (d *Device) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }

func shaderLog(handle uint32) string {
	var logLength int32
	gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00\n")
}

func programLog(handle uint32) string {
	var logLength int32
	gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00\n")
}

var _ program.Device = (*Device)(nil)
