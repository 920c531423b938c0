package shader

// Stage identifies a single compilation unit of a program.
type Stage int

const (
	Vertex Stage = iota
	Fragment
)

// String returns the stage name used to attribute diagnostics.
func (s Stage) String() string {
	switch s {
	case Vertex:
		return "VERTEX"
	case Fragment:
		return "FRAGMENT"
	}
	return "UNKNOWN"
}

// Dialect tells the compiler whether a source can be handed to the driver as-is
// or has to be translated first.
type Dialect int

const (
	// Desktop sources target GLSL 3.30+ core and are compiled unchanged.
	Desktop Dialect = iota
	// WebGL2 sources are "#version 300 es" as written on shadertoy.com and are
	// translated to the desktop profile before compilation.
	WebGL2
)

func (d Dialect) String() string {
	if d == WebGL2 {
		return "webgl2"
	}
	return "desktop"
}

// Source is an immutable shader text tagged with its stage and origin.
type Source struct {
	Stage   Stage
	Origin  string
	Text    string
	Dialect Dialect
}

// Literal builds a Source from in-memory text.
func Literal(stage Stage, text string) Source {
	return Source{Stage: stage, Origin: "literal", Text: text}
}

func (s Source) String() string {
	return s.Stage.String() + "(" + s.Origin + ")"
}
