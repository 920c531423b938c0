package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/goshaderhost/api"
	"github.com/richinsley/goshaderhost/encoder"
	"github.com/richinsley/goshaderhost/gldevice"
	"github.com/richinsley/goshaderhost/glfwcontext"
	"github.com/richinsley/goshaderhost/hotreload"
	"github.com/richinsley/goshaderhost/options"
	"github.com/richinsley/goshaderhost/program"
	"github.com/richinsley/goshaderhost/renderer"
	"github.com/richinsley/goshaderhost/shader"
	"github.com/richinsley/goshaderhost/translator"
)

func init() {
	runtime.LockOSThread()
}

func newManager(opts *options.ShaderOptions, dev *gldevice.Device) *program.Manager {
	dialect := shader.Desktop
	var tr program.Translator
	if *opts.Translate {
		t, err := translator.GetTranslator()
		if err != nil {
			log.Fatalf("Failed to start shader translator: %v", err)
		}
		tr = t
		dialect = shader.WebGL2
	}

	loader := shader.MultiLoader{
		Default: shader.FileLoader{},
		Schemes: map[string]shader.Loader{
			"shadertoy": api.Loader{Client: api.NewClient(opts.ResolvedAPIKey())},
		},
	}
	return program.NewManager(program.NewCompiler(dev, tr), program.ManagerConfig{
		Layout:           program.QuadLayout,
		Loader:           loader,
		ShaderToyDialect: dialect,
	})
}

func record(opts *options.ShaderOptions, r *renderer.Renderer) error {
	target, err := renderer.NewOffscreen(*opts.Width, *opts.Height)
	if err != nil {
		return err
	}
	defer target.Destroy()

	enc, err := encoder.New(encoder.Config{
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		FFmpegPath: *opts.FFmpegPath,
		Codec:      *opts.Codec,
	})
	if err != nil {
		return err
	}
	enc.Start()
	return r.Record(target, enc, *opts.FPS, *opts.Duration)
}

func main() {
	opts := options.FromFlags(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("GLSL Shader Host")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	var manifest *options.Manifest
	if *opts.ManifestPath != "" {
		var err error
		if manifest, err = options.LoadManifest(*opts.ManifestPath); err != nil {
			log.Fatalf("Error loading manifest: %v", err)
		}
	}
	initial := opts.InitialSet(manifest)
	// ShaderToy code is written against WebGL2.
	if *opts.ShaderID != "" {
		*opts.Translate = true
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts, "goshaderhost - "+initial.String())
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	if err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	log.Printf("OpenGL version %s", dev.Version())

	manager := newManager(opts, dev)
	defer manager.Close()
	if err := manager.Load(initial); err != nil {
		log.Fatalf("Failed to load shader set %s: %v", initial, err)
	}

	quad, err := renderer.NewQuad(program.QuadLayout)
	if err != nil {
		log.Fatalf("Failed to create quad: %v", err)
	}
	defer quad.Destroy()

	binder := program.NewBinder(manager)
	r := renderer.NewRenderer(ctx, manager, binder, quad)

	if *opts.Record {
		log.Println("Starting offscreen render loop...")
		if err := record(opts, r); err != nil {
			log.Fatalf("Offscreen rendering failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return
	}

	var watcher *hotreload.Watcher
	if *opts.Watch {
		if watcher, err = hotreload.New(r.RequestReload, hotreload.DefaultDebounce); err != nil {
			log.Fatalf("Failed to start file watcher: %v", err)
		}
		defer watcher.Close()
		if err := watcher.Watch(initial); err != nil {
			log.Printf("Failed to watch %s: %v", initial, err)
		}
	}

	ctx.RegisterKeyCallback(glfw.KeyR, r.RequestReload)
	if manifest != nil {
		for i := 1; i <= len(manifest.Sets); i++ {
			set, _ := manifest.Set(i)
			ctx.RegisterKeyCallback(glfw.Key1+glfw.Key(i-1), func() {
				// Key callbacks run on the render thread from EndFrame.
				if err := manager.Load(set); err != nil {
					log.Printf("Failed to switch to %s: %v", set, err)
				}
				ctx.SetTitle("goshaderhost - " + set.String())
				if watcher != nil {
					if err := watcher.Watch(set); err != nil {
						log.Printf("Failed to watch %s: %v", set, err)
					}
				}
			})
		}
	}

	log.Println("Starting interactive render loop...")
	r.Run()
}
