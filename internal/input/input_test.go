package input

import "testing"

type stubSource struct {
	down    map[Button]bool
	pumps   int
	onPump  func(q *Queue, n int)
}

func (s *stubSource) IsDown(b Button) bool { return s.down[b] }
func (s *stubSource) MouseX() int          { return 0 }
func (s *stubSource) MouseY() int          { return 0 }
func (s *stubSource) PumpEvents(q *Queue) {
	s.pumps++
	if s.onPump != nil {
		s.onPump(q, s.pumps)
	}
}

func TestWaitUntilUpSpinsWhileDown(t *testing.T) {
	src := &stubSource{down: map[Button]bool{ButtonActivate: true}}
	src.onPump = func(q *Queue, n int) {
		if n >= 3 {
			src.down[ButtonActivate] = false
		}
	}
	var q Queue
	WaitUntilUp(src, &q, ButtonActivate)
	if src.pumps != 3 {
		t.Fatalf("expected 3 pumps before release, got %d", src.pumps)
	}
}

func TestWaitUntilUpReturnsImmediatelyIfAlreadyUp(t *testing.T) {
	src := &stubSource{down: map[Button]bool{}}
	var q Queue
	WaitUntilUp(src, &q, ButtonCancel)
	if src.pumps != 0 {
		t.Fatalf("expected no pumps when already up, got %d", src.pumps)
	}
}

func TestQueuePushPopIsFIFO(t *testing.T) {
	var q Queue
	q.Push(Event{Button: ButtonUp, Pressed: true})
	q.Push(Event{Button: ButtonDown, Pressed: true})

	first, ok := q.Pop()
	if !ok || first.Button != ButtonUp {
		t.Fatal("expected ButtonUp popped first")
	}
	second, ok := q.Pop()
	if !ok || second.Button != ButtonDown {
		t.Fatal("expected ButtonDown popped second")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected queue empty after two pops")
	}
}

func TestKeywaitPumpsUntilEventArrives(t *testing.T) {
	src := &stubSource{down: map[Button]bool{}}
	src.onPump = func(q *Queue, n int) {
		if n == 2 {
			q.Push(Event{Button: ButtonActivate, Pressed: true})
		}
	}
	var q Queue
	e := Keywait(src, &q)
	if e.Button != ButtonActivate {
		t.Fatalf("unexpected event: %+v", e)
	}
	if src.pumps != 2 {
		t.Fatalf("expected keywait to stop pumping once an event arrived, got %d pumps", src.pumps)
	}
}

type fakeClock struct{ ms int64 }

func (c *fakeClock) NowMS() int64 { return c.ms }

func TestTimerTickAdvancesOnlyAfterIntervalElapses(t *testing.T) {
	clk := &fakeClock{ms: 0}
	src := &stubSource{down: map[Button]bool{}}
	src.onPump = func(q *Queue, n int) { clk.ms += 5 }

	var q Queue
	last := int64(0)
	TimerTick(src, &q, clk, &last, 16)

	if last != clk.ms {
		t.Fatalf("timer was not advanced to the new current time: last=%d now=%d", last, clk.ms)
	}
	if src.pumps < 4 {
		t.Fatalf("expected at least 4 pumps (5ms each) to cross a 16ms gate, got %d", src.pumps)
	}
}

func TestVMDelayStopsAtDeadline(t *testing.T) {
	clk := &fakeClock{ms: 100}
	src := &stubSource{down: map[Button]bool{}}
	src.onPump = func(q *Queue, n int) { clk.ms += 10 }

	var q Queue
	VMDelay(src, &q, clk, 25)

	if clk.ms < 125 {
		t.Fatalf("VMDelay returned before the deadline: now=%d", clk.ms)
	}
}

func TestVMPeekPumpsExactlyOnce(t *testing.T) {
	src := &stubSource{down: map[Button]bool{}}
	var q Queue
	VMPeek(src, &q)
	if src.pumps != 1 {
		t.Fatalf("expected exactly one pump, got %d", src.pumps)
	}
}
