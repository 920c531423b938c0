package encoder

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one rendered frame of tightly packed RGBA8 pixels, bottom row
// first as glReadPixels returns them.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	FFmpegPath string
	Codec      string
}

// FrameSize is the byte size of one RGBA frame.
func (c Config) FrameSize() int {
	return c.Width * c.Height * 4
}

// Args returns the ffmpeg input and output arguments for raw RGBA frames
// arriving on stdin.
func Args(c Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", c.Width, c.Height),
		"framerate": c.FPS,
	}

	codec := c.Codec
	if codec == "" {
		codec = "libx264"
	}
	outputArgs = ffmpeg.KwArgs{
		// GL rows are bottom-up.
		"vf":      "vflip",
		"c:v":     codec,
		"pix_fmt": "yuv420p",
	}
	if codec == "libx265" && strings.EqualFold(filepath.Ext(c.OutputFile), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// Encoder consumes frames on its own goroutine and pipes them to ffmpeg.
type Encoder struct {
	cfg    Config
	run    func(r io.Reader) error
	frames chan *Frame
	done   chan error
}

// New validates cfg and returns an encoder that writes cfg.OutputFile.
func New(cfg Config) (*Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder config %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return nil, fmt.Errorf("no output file")
	}
	inputArgs, outputArgs := Args(cfg)
	run := func(r io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs).
			Output(cfg.OutputFile, outputArgs).
			OverWriteOutput().WithInput(r).ErrorToStdOut()
		if cfg.FFmpegPath != "" {
			cmd = cmd.SetFfmpegPath(cfg.FFmpegPath)
		}
		return cmd.Run()
	}
	return newEncoder(cfg, run), nil
}

func newEncoder(cfg Config, run func(r io.Reader) error) *Encoder {
	return &Encoder{
		cfg:    cfg,
		run:    run,
		frames: make(chan *Frame, 3),
		done:   make(chan error, 1),
	}
}

// Start launches ffmpeg and the consumer goroutine.
func (e *Encoder) Start() {
	go e.consume()
}

// Send queues a frame, blocking while the queue is full.
func (e *Encoder) Send(f *Frame) error {
	if len(f.Pixels) != e.cfg.FrameSize() {
		return fmt.Errorf("frame %d has %d bytes, want %d", f.PTS, len(f.Pixels), e.cfg.FrameSize())
	}
	e.frames <- f
	return nil
}

// Close flushes queued frames and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	close(e.frames)
	return <-e.done
}

func (e *Encoder) consume() {
	pipeReader, pipeWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := e.run(pipeReader)
		// Unblock writes if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range e.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to FFmpeg: %v", frame.PTS, err)
			writeErr = fmt.Errorf("write frame %d: %w", frame.PTS, err)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		e.done <- fmt.Errorf("ffmpeg: %w", err)
		return
	}
	e.done <- writeErr
}
