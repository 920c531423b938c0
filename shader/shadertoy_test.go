package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const userImage = `void mainImage(out vec4 c, vec2 p) { c = vec4(p / iResolution.xy, 0.0, 1.0); }`

func TestWrapShaderToyOrdering(t *testing.T) {
	src := WrapShaderToy(userImage, Desktop)
	assert.Equal(t, Fragment, src.Stage)
	assert.True(t, strings.HasPrefix(src.Text, "#version 330 core\n"))

	header := strings.Index(src.Text, "uniform vec4  iMouse;")
	user := strings.Index(src.Text, userImage)
	footer := strings.Index(src.Text, "mainImage(fragColor, frag_coord_uv * iResolution.xy);")
	assert.Greater(t, header, 0)
	assert.Greater(t, user, header)
	assert.Greater(t, footer, user)
}

func TestWrapShaderToyDeclaresContract(t *testing.T) {
	text := WrapShaderToy("", Desktop).Text
	for _, decl := range []string{
		"uniform vec3  iResolution;",
		"uniform float iTime;",
		"uniform float iTimeDelta;",
		"uniform int   iFrame;",
		"uniform vec4  iMouse;",
		"out vec4 fragColor;",
		"in vec2 frag_coord_uv;",
	} {
		assert.Contains(t, text, decl)
	}
}

func TestWrapShaderToyWebGL(t *testing.T) {
	src := WrapShaderToy(userImage, WebGL2)
	assert.Equal(t, WebGL2, src.Dialect)
	assert.True(t, strings.HasPrefix(src.Text, "#version 300 es\nprecision highp float;"))
}

func TestWrapKeepsOrigin(t *testing.T) {
	src := Wrap(Source{Stage: Fragment, Origin: "shaders/toy.glsl", Text: userImage}, Desktop)
	assert.Equal(t, "shaders/toy.glsl", src.Origin)
	assert.Contains(t, src.Text, userImage)
}

func TestShaderToyVertexForwardsCoordinate(t *testing.T) {
	v := ShaderToyVertex(Desktop)
	assert.Equal(t, Vertex, v.Stage)
	assert.Contains(t, v.Text, "layout (location = 0) in vec3 position;")
	assert.Contains(t, v.Text, "layout (location = 1) in vec2 texCoord;")
	assert.Contains(t, v.Text, "frag_coord_uv = texCoord;")
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "VERTEX", Vertex.String())
	assert.Equal(t, "FRAGMENT", Fragment.String())
}
