package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoaderReadsWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frag.glsl")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}\n"), 0o644))

	src, err := FileLoader{}.Load(path, Fragment)
	require.NoError(t, err)
	assert.Equal(t, Fragment, src.Stage)
	assert.Equal(t, path, src.Origin)
	assert.Equal(t, "void main() {}\n", src.Text)
	assert.Equal(t, Desktop, src.Dialect)
}

func TestFileLoaderObservesEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vert.glsl")
	l := FileLoader{Dir: dir}

	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))
	src, err := l.Load("vert.glsl", Vertex)
	require.NoError(t, err)
	assert.Equal(t, "first", src.Text)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
	src, err = l.Load("vert.glsl", Vertex)
	require.NoError(t, err)
	assert.Equal(t, "second", src.Text)
}

func TestFileLoaderMissing(t *testing.T) {
	_, err := FileLoader{}.Load(filepath.Join(t.TempDir(), "nope.glsl"), Vertex)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var re *ResourceError
	require.True(t, errors.As(err, &re))
	assert.Contains(t, re.ID, "nope.glsl")
}

func TestFileLoaderEmptyID(t *testing.T) {
	_, err := FileLoader{}.Load("", Fragment)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

type stubLoader struct {
	got string
}

func (s *stubLoader) Load(id string, stage Stage) (Source, error) {
	s.got = id
	return Source{Stage: stage, Origin: "stub:" + id, Text: "stub"}, nil
}

func TestMultiLoaderRoutesSchemes(t *testing.T) {
	remote := &stubLoader{}
	local := &stubLoader{}
	m := MultiLoader{Default: local, Schemes: map[string]Loader{"shadertoy": remote}}

	src, err := m.Load("shadertoy:XlSSzV", Fragment)
	require.NoError(t, err)
	assert.Equal(t, "XlSSzV", remote.got)
	assert.Equal(t, "stub:XlSSzV", src.Origin)

	_, err = m.Load("shaders/shader1/fragment.glsl", Fragment)
	require.NoError(t, err)
	assert.Equal(t, "shaders/shader1/fragment.glsl", local.got)

	// drive letters are not schemes
	_, err = m.Load(`C:\shaders\a.glsl`, Fragment)
	require.NoError(t, err)
	assert.Equal(t, `C:\shaders\a.glsl`, local.got)
}

func TestMultiLoaderWithoutDefault(t *testing.T) {
	_, err := MultiLoader{}.Load("a.glsl", Vertex)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}
