package options

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/richinsley/goshaderhost/program"
)

type ShaderOptions struct {
	VertexPath   *string
	FragmentPath *string
	ShaderToy    *bool // FragmentPath holds a mainImage snippet
	ShaderID     *string
	APIKey       *string
	ManifestPath *string
	Watch        *bool
	Translate    *bool // compile ShaderToy sets as WebGL2 through the translator
	Help         *bool

	// Recording options
	Record     *bool
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	OutputFile *string
	FFmpegPath *string
	Codec      *string
}

// FromFlags registers the command-line flags on fs and returns the options
// they populate once fs is parsed.
func FromFlags(fs *flag.FlagSet) *ShaderOptions {
	return &ShaderOptions{
		VertexPath:   fs.String("vertex", "", "Path to the vertex shader"),
		FragmentPath: fs.String("fragment", "", "Path to the fragment shader"),
		ShaderToy:    fs.Bool("shadertoy", false, "Treat -fragment as a ShaderToy mainImage snippet"),
		ShaderID:     fs.String("shader", "", "Shadertoy shader ID or URL to fetch from shadertoy.com"),
		APIKey:       fs.String("apikey", "", "Shadertoy API key (from SHADERTOY_KEY env var if not set)"),
		ManifestPath: fs.String("manifest", "", "YAML file listing shader sets selectable with keys 1-9"),
		Watch:        fs.Bool("watch", false, "Reload the current shader set when its files change"),
		Translate:    fs.Bool("translate", false, "Compile ShaderToy snippets as WebGL2 through the shader translator"),
		Help:         fs.Bool("help", false, "Show help message"),

		Record:     fs.Bool("record", false, "Enable recording mode"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFmpegPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "libx264", "Video codec for recording"),
	}
}

// Validate checks option combinations that cannot be rendered.
func (o *ShaderOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.Record {
		if *o.FPS <= 0 {
			return fmt.Errorf("invalid fps %d", *o.FPS)
		}
		if *o.Duration <= 0 {
			return fmt.Errorf("invalid duration %g", *o.Duration)
		}
		if *o.Watch {
			return errors.New("-watch cannot be combined with -record")
		}
	}
	if *o.ShaderID != "" && (*o.VertexPath != "" || *o.FragmentPath != "") {
		return errors.New("-shader cannot be combined with -vertex or -fragment")
	}
	if !*o.ShaderToy && *o.ShaderID == "" && (*o.VertexPath == "") != (*o.FragmentPath == "") {
		return errors.New("-vertex and -fragment must be given together unless -shadertoy is set")
	}
	return nil
}

// ResolvedAPIKey returns the API key flag, or SHADERTOY_KEY when it is empty.
func (o *ShaderOptions) ResolvedAPIKey() string {
	if *o.APIKey != "" {
		return *o.APIKey
	}
	return os.Getenv("SHADERTOY_KEY")
}

// InitialSet picks the shader set to start with: a shadertoy.com ID, then
// explicit paths, then the first manifest set, then the built-in demo.
func (o *ShaderOptions) InitialSet(m *Manifest) program.SourceSet {
	switch {
	case *o.ShaderID != "":
		id := "shadertoy:" + *o.ShaderID
		return program.SourceSet{Name: id, Fragment: id, ShaderToy: true}
	case *o.VertexPath != "" || *o.FragmentPath != "":
		return program.SourceSet{
			Name:      "command line",
			Vertex:    *o.VertexPath,
			Fragment:  *o.FragmentPath,
			ShaderToy: *o.ShaderToy,
		}
	case m != nil && len(m.Sets) > 0:
		return m.Sets[0]
	default:
		return program.SourceSet{Name: "built-in", ShaderToy: true}
	}
}
