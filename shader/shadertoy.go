package shader

// --- Version lines ---

const (
	desktopVersion = "#version 330 core\n"
	webglVersion   = `#version 300 es
precision highp float;
precision highp int;
`
)

func versionLine(d Dialect) string {
	if d == WebGL2 {
		return webglVersion
	}
	return desktopVersion
}

// --- Companion vertex ---

const shaderToyVertexBody = `
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texCoord;
out vec2 frag_coord_uv;
void main() {
    gl_Position = vec4(position, 1.0);
    frag_coord_uv = texCoord;
}
`

// ShaderToyVertex returns the vertex program that pairs with WrapShaderToy: it
// passes position through and forwards the normalized quad coordinate.
func ShaderToyVertex(d Dialect) Source {
	return Source{
		Stage:   Vertex,
		Origin:  "shadertoy-vertex",
		Text:    versionLine(d) + shaderToyVertexBody,
		Dialect: d,
	}
}

// --- Preamble / user glue ---

// Uniform names of the ShaderToy contract.
const (
	UniformResolution = "iResolution"
	UniformTime       = "iTime"
	UniformTimeDelta  = "iTimeDelta"
	UniformFrame      = "iFrame"
	UniformMouse      = "iMouse"
)

const shaderToyPreamble = `
in vec2 frag_coord_uv;
out vec4 fragColor;

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform int   iFrame;
uniform vec4  iMouse;

`

const shaderToyMain = `

void main(void)
{
    mainImage(fragColor, frag_coord_uv * iResolution.xy);
}
`

// GeneratePreamble returns the fixed header placed in front of user code.
func GeneratePreamble(d Dialect) string {
	return versionLine(d) + shaderToyPreamble
}

// GetMain returns the entry point that adapts main() to mainImage().
func GetMain() string {
	return shaderToyMain
}

// WrapShaderToy embeds a snippet defining
// mainImage(out vec4 fragColor, in vec2 fragCoord) into a complete fragment
// program. The snippet is copied verbatim and not validated; mistakes surface
// as compile diagnostics.
func WrapShaderToy(code string, d Dialect) Source {
	return Source{
		Stage:   Fragment,
		Origin:  "shadertoy",
		Text:    GeneratePreamble(d) + code + GetMain(),
		Dialect: d,
	}
}

// Wrap is WrapShaderToy keeping the origin of an already loaded snippet.
func Wrap(snippet Source, d Dialect) Source {
	s := WrapShaderToy(snippet.Text, d)
	s.Origin = snippet.Origin
	return s
}
