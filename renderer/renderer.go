package renderer

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/goshaderhost/encoder"
	"github.com/richinsley/goshaderhost/graphics"
	"github.com/richinsley/goshaderhost/program"
)

// Programs is the program source the loop draws with. *program.Manager
// implements it.
type Programs interface {
	program.Provider
	Generation() uint64
	ReloadCurrent() error
}

// Drawer draws the fixed geometry with whatever program is in use.
type Drawer interface {
	// Bind rebinds vertex attributes for a newly active program.
	Bind(p *program.Program) error
	Draw(width, height int)
}

// Target is an offscreen framebuffer that frames can be read back from.
type Target interface {
	Bind()
	Unbind()
	ReadPixels() ([]byte, error)
	Size() (int, int)
}

// FrameSink receives recorded frames.
type FrameSink interface {
	Send(f *encoder.Frame) error
	Close() error
}

// Renderer runs the frame loop: it drains reload requests, feeds the standard
// uniforms to the active program and draws the quad.
type Renderer struct {
	context  graphics.Context
	programs Programs
	binder   *program.Binder
	drawer   Drawer
	clock    Clock
	reloads  chan struct{}

	generation uint64
	bound      *program.Program
}

func NewRenderer(ctx graphics.Context, programs Programs, binder *program.Binder, drawer Drawer) *Renderer {
	return &Renderer{
		context:  ctx,
		programs: programs,
		binder:   binder,
		drawer:   drawer,
		reloads:  make(chan struct{}, 1),
	}
}

// RequestReload asks the loop to reload the current shader set before the
// next frame. It is safe to call from any goroutine, and requests made before
// the loop gets to them collapse into one.
func (r *Renderer) RequestReload() {
	select {
	case r.reloads <- struct{}{}:
	default:
	}
}

// Run renders until the context asks to close.
func (r *Renderer) Run() {
	for !r.context.ShouldClose() {
		r.Step()
		r.context.EndFrame()
	}
}

// Step renders a single interactive frame without presenting it.
func (r *Renderer) Step() {
	r.drainReloads()

	width, height := r.context.GetFramebufferSize()
	elapsed, delta, frame := r.clock.Tick(r.context.Time())
	mouse := r.context.GetMouseInput()
	r.RenderFrame(program.FrameState{
		Width:     width,
		Height:    height,
		Time:      elapsed,
		TimeDelta: delta,
		Frame:     frame,
		Mouse:     mgl32.Vec2{mouse[0], mouse[1]},
	})
}

// RenderFrame draws one frame with the active program. Nothing is drawn
// before a program exists.
func (r *Renderer) RenderFrame(f program.FrameState) {
	p := r.programs.Active()
	if p == nil {
		return
	}
	if gen := r.programs.Generation(); p != r.bound || gen != r.generation {
		if err := r.drawer.Bind(p); err != nil {
			log.Printf("Failed to bind geometry to shader program: %v", err)
		}
		r.bound, r.generation = p, gen
	}
	r.binder.ApplyStandardUniforms(f)
	r.drawer.Draw(f.Width, f.Height)
}

// Record renders duration seconds at fps into target on a fixed timestep and
// hands every frame to sink. The sink is closed before Record returns.
func (r *Renderer) Record(target Target, sink FrameSink, fps int, duration float64) error {
	if fps <= 0 {
		sink.Close()
		return fmt.Errorf("invalid fps %d", fps)
	}
	width, height := target.Size()
	totalFrames := int(duration * float64(fps))
	log.Printf("Recording %d frames at %dx%d", totalFrames, width, height)

	var renderErr error
	for i := 0; i < totalFrames; i++ {
		elapsed, delta, frame := FixedStep(i, fps)
		target.Bind()
		r.RenderFrame(program.FrameState{
			Width:     width,
			Height:    height,
			Time:      elapsed,
			TimeDelta: delta,
			Frame:     frame,
		})
		pixels, err := target.ReadPixels()
		target.Unbind()
		if err != nil {
			renderErr = fmt.Errorf("read frame %d: %w", i, err)
			break
		}
		if err := sink.Send(&encoder.Frame{Pixels: pixels, PTS: int64(i)}); err != nil {
			renderErr = fmt.Errorf("send frame %d: %w", i, err)
			break
		}
	}

	if err := sink.Close(); err != nil && renderErr == nil {
		renderErr = err
	}
	return renderErr
}

func (r *Renderer) drainReloads() {
	select {
	case <-r.reloads:
		if err := r.programs.ReloadCurrent(); err != nil {
			log.Printf("Reload request failed: %v", err)
		}
	default:
	}
}
