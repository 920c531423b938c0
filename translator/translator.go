package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goshaderhost/shader"
	gst "github.com/richinsley/goshadertranslator"
)

// Translator converts WebGL2 shaders to desktop GLSL 4.10. It satisfies
// program.Translator.
type Translator struct {
	st *gst.ShaderTranslator
}

var (
	shared    *Translator
	sharedErr error
	once      sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
// Start-up compiles the translator module, so it is only paid for when a
// WebGL2 source is actually built.
func GetTranslator() (*Translator, error) {
	once.Do(func() {
		st, err := gst.NewShaderTranslator(context.Background())
		if err != nil {
			sharedErr = fmt.Errorf("failed to create shader translator: %w", err)
			return
		}
		shared = &Translator{st: st}
	})
	return shared, sharedErr
}

func stageName(s shader.Stage) string {
	if s == shader.Vertex {
		return "vertex"
	}
	return "fragment"
}

// Translate returns the desktop source and the identifiers the translator
// renamed, keyed by their original name.
func (t *Translator) Translate(src shader.Source) (string, map[string]string, error) {
	out, err := t.st.TranslateShader(src.Text, stageName(src.Stage), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stageName(src.Stage), err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return out.Code, names, nil
}
