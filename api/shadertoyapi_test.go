package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/richinsley/goshaderhost/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imagePass(code string, inputs ...Input) RenderPass {
	return RenderPass{Type: "image", Name: "Image", Code: code, Inputs: inputs}
}

func apiServer(t *testing.T, passes []RenderPass) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/v1/shaders/abc123" || r.URL.Query().Get("key") != "k" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(ShadertoyResponse{Shader: &Shader{
			Info:       ShaderInfo{ID: "abc123", Name: "Waves", Username: "someone"},
			RenderPass: passes,
		}})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testClient(srv *httptest.Server, key string) *Client {
	c := NewClient(key)
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestShaderID(t *testing.T) {
	assert.Equal(t, "abc123", ShaderID("abc123"))
	assert.Equal(t, "abc123", ShaderID("https://www.shadertoy.com/view/abc123"))
	assert.Equal(t, "abc123", ShaderID("https://www.shadertoy.com/view/abc123/"))
}

func TestNewClientFallsBackToEnvironmentKey(t *testing.T) {
	t.Setenv("SHADERTOY_KEY", "from-env")
	assert.Equal(t, "from-env", NewClient("").APIKey)
	assert.Equal(t, "explicit", NewClient("explicit").APIKey)
}

func TestShaderFromIDUsesAPI(t *testing.T) {
	srv, _ := apiServer(t, []RenderPass{imagePass("void mainImage(out vec4 c, in vec2 p) { c = vec4(1.0); }")})

	resp, err := testClient(srv, "k").ShaderFromID("abc123")
	require.NoError(t, err)
	assert.True(t, resp.IsAPI)
	assert.Equal(t, "Waves", resp.Shader.Info.Name)
}

func TestShaderFromIDRawFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shadertoy", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, `{"shaders":["raw1"]}`, r.PostForm.Get("s"))
		w.Write([]byte(`[{"info":{"id":"raw1","name":"Raw","username":"u"},"renderpass":[{"type":"image","code":"void mainImage(out vec4 c, in vec2 p) {}","inputs":[]}]}]`))
	}))
	defer srv.Close()

	c := testClient(srv, "")
	c.APIKey = ""
	resp, err := c.ShaderFromID("raw1")
	require.NoError(t, err)
	assert.False(t, resp.IsAPI)
	require.Len(t, resp.Shader.RenderPass, 1)
	assert.Equal(t, "image", resp.Shader.RenderPass[0].Type)
}

func TestShaderFromIDStatusError(t *testing.T) {
	srv, _ := apiServer(t, nil)
	_, err := testClient(srv, "k").ShaderFromID("missing")
	assert.Error(t, err)
}

func TestShaderArgsFromJSON(t *testing.T) {
	resp := &ShadertoyResponse{Shader: &Shader{
		Info: ShaderInfo{Name: "Mix", Username: "u"},
		RenderPass: []RenderPass{
			{Type: "common", Code: "float k() { return 1.0; }"},
			{Type: "buffer", Code: "x"},
			imagePass("y", Input{Channel: 0, CType: "texture"}),
		},
	}}
	args, err := ShaderArgsFromJSON(resp)
	require.NoError(t, err)
	assert.Equal(t, "y", args.ShaderCode)
	assert.Equal(t, "float k() { return 1.0; }", args.CommonCode)
	assert.Equal(t, 1, args.Buffers)
	assert.Equal(t, 1, args.Inputs)
	assert.False(t, args.Complete())
	assert.Equal(t, `"Mix" by u`, args.Title)

	_, err = ShaderArgsFromJSON(&ShadertoyResponse{Shader: &Shader{}})
	assert.Error(t, err)
	_, err = ShaderArgsFromJSON(&ShadertoyResponse{})
	assert.Error(t, err)
}

func TestLoaderFetchesEveryCall(t *testing.T) {
	srv, hits := apiServer(t, []RenderPass{
		{Type: "common", Code: "float k() { return 1.0; }"},
		imagePass("void mainImage(out vec4 c, in vec2 p) { c = vec4(k()); }"),
	})
	l := Loader{Client: testClient(srv, "k")}

	src, err := l.Load("abc123", shader.Fragment)
	require.NoError(t, err)
	assert.Equal(t, shader.Fragment, src.Stage)
	assert.Equal(t, shader.WebGL2, src.Dialect)
	assert.Equal(t, "shadertoy:abc123", src.Origin)
	assert.Contains(t, src.Text, "float k()")
	assert.Contains(t, src.Text, "mainImage")

	_, err = l.Load("abc123", shader.Fragment)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(hits))
}

func TestLoaderRejectsUnsupportedShaders(t *testing.T) {
	srv, _ := apiServer(t, []RenderPass{
		{Type: "buffer", Code: "x"},
		imagePass("y"),
	})
	l := Loader{Client: testClient(srv, "k")}

	_, err := l.Load("abc123", shader.Fragment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shader.ErrResourceUnavailable))
	assert.Contains(t, err.Error(), "buffer passes")

	_, err = l.Load("abc123", shader.Vertex)
	assert.True(t, errors.Is(err, shader.ErrResourceUnavailable))
}

func TestLoaderThroughMultiLoader(t *testing.T) {
	srv, _ := apiServer(t, []RenderPass{imagePass("void mainImage(out vec4 c, in vec2 p) {}")})
	ml := shader.MultiLoader{
		Default: shader.FileLoader{},
		Schemes: map[string]shader.Loader{"shadertoy": Loader{Client: testClient(srv, "k")}},
	}
	src, err := ml.Load("shadertoy:"+url.PathEscape("abc123"), shader.Fragment)
	require.NoError(t, err)
	assert.Equal(t, "shadertoy:abc123", src.Origin)
}
