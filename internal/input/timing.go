package input

import "time"

// Clock abstracts the monotonic millisecond counter spec §4.7 describes,
// so timing logic can be tested without a wall clock.
type Clock interface {
	NowMS() int64
}

// clockStart is the origin of WallClock's readings.
var clockStart = time.Now()

// WallClock is the real Clock, backed by time.Now, used outside tests.
type WallClock struct{}

// NowMS returns the milliseconds elapsed since the package was
// initialised, measured on the monotonic clock reading of time.Now.
func (WallClock) NowMS() int64 { return time.Since(clockStart).Milliseconds() }

// TimerTick sleeps (by pumping host events) until ms have elapsed since
// *t, then advances *t to the new current time (spec §4.7 "timer_tick(&t,
// ms) that sleeps until ms have elapsed since the previous call and then
// updates the timer").
func TimerTick(src Source, q *Queue, clk Clock, t *int64, ms int64) {
	for clk.NowMS()-*t < ms {
		src.PumpEvents(q)
	}
	*t = clk.NowMS()
}

// VMDelay pumps host events until ms milliseconds have elapsed (spec
// §4.7 "vm_delay(ms) pumps host events while waiting").
func VMDelay(src Source, q *Queue, clk Clock, ms int64) {
	deadline := clk.NowMS() + ms
	for clk.NowMS() < deadline {
		src.PumpEvents(q)
	}
}

// VMPeek performs a single, non-blocking event pump (spec §4.7 "vm_peek
// performs a single pump without blocking").
func VMPeek(src Source, q *Queue) {
	src.PumpEvents(q)
}
