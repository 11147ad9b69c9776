package anim

import "testing"

func TestStreamHaltsOnHaltOpcode(t *testing.T) {
	s := NewStream([]byte{OpNoop, OpHalt}, nil)
	s.Step(nil)
	if s.Halted() {
		t.Fatal("stream halted too early")
	}
	s.Step(nil)
	if !s.Halted() {
		t.Fatal("stream did not halt on HALT")
	}
}

func TestStreamStopsOnCheckStopAfterStopCommand(t *testing.T) {
	s := NewStream([]byte{OpCheckStop, OpNoop}, nil)
	s.SetCommand(CmdStop)
	s.Step(nil)
	if !s.Halted() {
		t.Fatal("CHECK_STOP must halt the stream once a stop command is pending")
	}
}

func TestStreamIgnoresCheckStopWithoutStopCommand(t *testing.T) {
	s := NewStream([]byte{OpCheckStop, OpHalt}, nil)
	s.Step(nil)
	if s.Halted() {
		t.Fatal("CHECK_STOP must not halt without a pending stop command")
	}
}

func TestStallDecrementsBeforeAdvancing(t *testing.T) {
	s := NewStream([]byte{OpStall, 2, OpHalt}, nil)
	s.Step(nil) // consumes STALL, sets stall=2
	if s.Halted() {
		t.Fatal("stream halted during stall setup")
	}
	s.Step(nil) // stall 2 -> 1
	s.Step(nil) // stall 1 -> 0
	if s.Halted() {
		t.Fatal("stream should still be mid-stall")
	}
	s.Step(nil) // now executes HALT
	if !s.Halted() {
		t.Fatal("stream did not halt after stall expired")
	}
}

func TestResetRewindsToZero(t *testing.T) {
	s := NewStream([]byte{OpNoop, OpReset}, nil)
	s.Step(nil)
	s.Step(nil)
	if s.ip != 0 {
		t.Fatalf("RESET did not rewind ip, got %d", s.ip)
	}
}

func TestLoopRepeatsBody(t *testing.T) {
	draws := []DrawRecord{{Kind: DrawFill}}
	code := []byte{OpLoopStart, 3, FirstDrawOp, OpLoopEnd, OpHalt}
	s := NewStream(code, draws)

	var fired int
	sink := func(rec DrawRecord) { fired++ }

	for i := 0; i < 20 && !s.Halted(); i++ {
		s.Step(sink)
	}
	if fired != 3 {
		t.Fatalf("loop body fired %d times, want 3", fired)
	}
}

func TestNestedLoop2RunsIndependentlyOfLoop1(t *testing.T) {
	draws := []DrawRecord{{Kind: DrawCopy}}
	// outer loop runs twice, inner loop runs twice each outer iteration:
	// total draw fires = 4.
	code := []byte{
		OpLoopStart, 2,
		OpLoop2Start, 2,
		FirstDrawOp,
		OpLoop2End,
		OpLoopEnd,
		OpHalt,
	}
	s := NewStream(code, draws)
	var fired int
	sink := func(rec DrawRecord) { fired++ }
	for i := 0; i < 50 && !s.Halted(); i++ {
		s.Step(sink)
	}
	if fired != 4 {
		t.Fatalf("nested loop fired %d times, want 4", fired)
	}
}

func TestDrawOpcodeInvokesSinkAndAdvances(t *testing.T) {
	draws := []DrawRecord{{Kind: DrawSetColor, Color: 0xff0000}}
	s := NewStream([]byte{FirstDrawOp, OpHalt}, draws)
	var got *DrawRecord
	s.Step(func(rec DrawRecord) { r := rec; got = &r })
	if got == nil || got.Color != 0xff0000 {
		t.Fatal("draw sink was not invoked with the expected record")
	}
	if s.ip != 1 {
		t.Fatalf("ip did not advance past the draw opcode, got %d", s.ip)
	}
}

func TestSchedulerAdvanceGatesByFrameInterval(t *testing.T) {
	sched := NewScheduler()
	s := NewStream([]byte{OpHalt}, nil)
	sched.Register(s, nil)

	sched.Advance(5) // well under 16ms, must not tick
	if s.Halted() {
		t.Fatal("scheduler ticked before the frame interval elapsed")
	}
	sched.Advance(20) // crosses the 16ms gate
	if !s.Halted() {
		t.Fatal("scheduler did not tick once the frame interval elapsed")
	}
}

func TestSchedulerAfterDrawHookRunsEveryTick(t *testing.T) {
	sched := NewScheduler()
	sched.SetFrameInterval(10)
	calls := 0
	sched.SetAfterDraw(func() { calls++ })
	sched.Register(NewStream([]byte{OpNoop}, nil), nil)

	sched.Advance(35)
	if calls != 3 {
		t.Fatalf("after_anim_draw hook ran %d times, want 3", calls)
	}
}

func TestAllHaltedReflectsEveryStream(t *testing.T) {
	sched := NewScheduler()
	a := NewStream([]byte{OpHalt}, nil)
	b := NewStream([]byte{OpNoop, OpNoop}, nil)
	sched.Register(a, nil)
	sched.Register(b, nil)

	sched.SetFrameInterval(1)
	sched.Advance(1)
	if sched.AllHalted() {
		t.Fatal("b has not halted yet")
	}
}

func TestParseStreamOffsetsSliceCodeIndependently(t *testing.T) {
	raw := []byte{
		2, 0, // stream count
		6, 0, // stream 0 offset (right after the 2-entry offset table)
		8, 0, // stream 1 offset
		OpNoop, OpHalt,
		OpHalt,
	}
	f, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(f.Streams))
	}
	if len(f.Streams[0].Code) != 2 {
		t.Fatalf("stream 0 code length = %d, want 2", len(f.Streams[0].Code))
	}
	if len(f.Streams[1].Code) != 1 {
		t.Fatalf("stream 1 code length = %d, want 1", len(f.Streams[1].Code))
	}
}

func TestParseDrawsRejectsMisalignedTable(t *testing.T) {
	f := &File{}
	if err := f.ParseDraws(make([]byte, 14)); err == nil {
		t.Fatal("expected an error for a draw table not a multiple of 15 bytes")
	}
}

func TestParseDrawsAttachesSharedTableToEveryStream(t *testing.T) {
	raw := []byte{1, 0, 4, 0, OpHalt}
	f, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	rec := make([]byte, 15)
	rec[0] = byte(DrawFill)
	if err := f.ParseDraws(rec); err != nil {
		t.Fatal(err)
	}
	if len(f.Streams[0].Draws) != 1 {
		t.Fatal("ParseDraws did not attach the draw table to the stream")
	}
}
