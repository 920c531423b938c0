package renderer

// Clock turns wall-clock samples into the per-frame time values.
type Clock struct {
	start   float64
	last    float64
	frame   int32
	started bool
}

// Tick records a frame at now (seconds) and returns the time since the first
// frame, the time since the previous frame and the frame index. The first
// frame is at time zero with a zero delta.
func (c *Clock) Tick(now float64) (elapsed, delta float32, frame int32) {
	if !c.started {
		c.start, c.last, c.started = now, now, true
		return 0, 0, 0
	}
	c.frame++
	elapsed = float32(now - c.start)
	delta = float32(now - c.last)
	c.last = now
	return elapsed, delta, c.frame
}

// FixedStep returns the time values of frame i when rendering at fps.
func FixedStep(i, fps int) (elapsed, delta float32, frame int32) {
	step := 1.0 / float64(fps)
	return float32(float64(i) * step), float32(step), int32(i)
}
