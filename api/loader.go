package api

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/goshaderhost/shader"
)

// Loader serves "shadertoy:<id>" identifiers as fragment snippets. Every call
// fetches the shader again.
type Loader struct {
	Client *Client
}

func (l Loader) Load(id string, stage shader.Stage) (shader.Source, error) {
	if stage != shader.Fragment {
		return shader.Source{}, &shader.ResourceError{ID: id, Err: errors.New("shadertoy.com only provides fragment code")}
	}
	resp, err := l.Client.ShaderFromID(id)
	if err != nil {
		return shader.Source{}, &shader.ResourceError{ID: id, Err: err}
	}
	args, err := ShaderArgsFromJSON(resp)
	if err != nil {
		return shader.Source{}, &shader.ResourceError{ID: id, Err: err}
	}
	if !args.Complete() {
		return shader.Source{}, &shader.ResourceError{
			ID:  id,
			Err: fmt.Errorf("%s needs %d buffer passes and %d input channels; only single-pass shaders without inputs are supported", args.Title, args.Buffers, args.Inputs),
		}
	}
	log.Printf("Fetched shader %s", args.Title)
	return shader.Source{
		Stage:   shader.Fragment,
		Origin:  "shadertoy:" + ShaderID(id),
		Text:    args.CommonCode + "\n" + args.ShaderCode,
		Dialect: shader.WebGL2,
	}, nil
}
