package anim

// Scheduler runs one tick gate across every registered stream (spec §4.6
// "A single cooperative scheduler runs once per frame"). The gate
// interval defaults to 16ms but titles vary it (spec §9 "some titles use
// 20, 50, or adaptive").
type Scheduler struct {
	streams      []*Stream
	sinks        []DrawSink
	afterDraw    func()
	frameIntervalMS int
	accumMS      int
}

// NewScheduler builds a Scheduler with the standard ~16ms (60fps) gate.
func NewScheduler() *Scheduler {
	return &Scheduler{frameIntervalMS: 16}
}

// SetFrameInterval overrides the tick gate for titles that run their
// animation layer at a different cadence than 60fps.
func (s *Scheduler) SetFrameInterval(ms int) { s.frameIntervalMS = ms }

// SetAfterDraw installs the per-title after_anim_draw hook (spec §4.6:
// "can re-draw UI chrome... over any blit that overlaps a reserved
// region"), invoked once per tick after every stream has stepped.
func (s *Scheduler) SetAfterDraw(f func()) { s.afterDraw = f }

// Register adds a stream to the scheduler along with the sink that
// receives its draw calls.
func (s *Scheduler) Register(stream *Stream, sink DrawSink) {
	s.streams = append(s.streams, stream)
	s.sinks = append(s.sinks, sink)
}

// Advance accumulates deltaMS of wall-clock time and fires as many tick
// gates as have elapsed, stepping every un-halted stream once per gate.
func (s *Scheduler) Advance(deltaMS int) {
	s.accumMS += deltaMS
	for s.accumMS >= s.frameIntervalMS {
		s.accumMS -= s.frameIntervalMS
		s.tick()
	}
}

func (s *Scheduler) tick() {
	for i, stream := range s.streams {
		stream.Step(s.sinks[i])
	}
	if s.afterDraw != nil {
		s.afterDraw()
	}
}

// AllHalted reports whether every registered stream has reached the
// halted state, the condition anim_wait polls for (spec §4.6
// "anim_wait(stream) spins the event loop until the stream reports
// halted").
func (s *Scheduler) AllHalted() bool {
	for _, stream := range s.streams {
		if !stream.Halted() {
			return false
		}
	}
	return true
}
