// Package anim implements the S4 animation stream format of spec §4.6: a
// per-stream bytecode interpreter driven by a single cooperative scheduler
// tick gate, independent of the VM's own statement interpreter.
package anim

import "github.com/ai5run/ai5/internal/vmerr"

// Opcodes below 20 are control instructions; values 20 and above index a
// draw-call record (spec §4.6 "≥ 20 draw-call index").
const (
	OpNoop       byte = 0
	OpCheckStop  byte = 1
	OpStall      byte = 2
	OpReset      byte = 3
	OpHalt       byte = 4
	OpLoopStart  byte = 5
	OpLoopEnd    byte = 6
	OpLoop2Start byte = 7
	OpLoop2End   byte = 8

	FirstDrawOp byte = 20
)

// DrawKind enumerates the draw-record operations spec §4.6 lists.
type DrawKind byte

const (
	DrawFill DrawKind = iota
	DrawCopy
	DrawCopyMasked
	DrawSwap
	DrawCompose
	DrawSetColor
	DrawSetPalette
)

// DrawRecord is one 15-byte draw-call record following an S4 file's offset
// table (spec §4.6).
type DrawRecord struct {
	Kind       DrawKind
	SrcSurface byte
	DstSurface byte
	X, Y       int16
	W, H       int16
	Color      uint32
}

// State is the externally observable lifecycle of a stream (spec §4.6
// "Commands vs states").
type State int

const (
	StateRun State = iota
	StateHalted
)

// Command is the externally requested transition a caller sets on a
// stream; the stream itself only transitions State at well-defined points.
type Command int

const (
	CmdRun Command = iota
	CmdStop
	CmdHalt
)

type loopFrame struct {
	startIP byte
	remain  int
}

// Stream is one independent bytecode program within an S4 file.
type Stream struct {
	Code    []byte
	Draws   []DrawRecord
	ip      byte
	state   State
	cmd     Command
	stall   int
	loop1   *loopFrame
	loop2   *loopFrame
}

// NewStream builds a Stream over code with the given draw-record table.
func NewStream(code []byte, draws []DrawRecord) *Stream {
	return &Stream{Code: code, Draws: draws, state: StateRun}
}

// SetCommand installs the externally requested command (spec §4.6
// "External code sets a command").
func (s *Stream) SetCommand(c Command) { s.cmd = c }

// State reports the stream's current lifecycle state.
func (s *Stream) State() State { return s.state }

// Halted reports whether anim_wait should stop spinning on this stream.
func (s *Stream) Halted() bool { return s.state == StateHalted }

// DrawSink receives a draw record fired by a stream's bytecode; the caller
// wires this to the compositor (spec §4.6's draw ops map onto
// internal/gfx.Compositor operations).
type DrawSink func(rec DrawRecord)

// Step executes exactly one instruction of the stream if it is not halted,
// per the scheduler contract in spec §4.6: "stall_count decrements first",
// "each un-halted stream executes one instruction per tick, unless that
// instruction is a draw".
func (s *Stream) Step(sink DrawSink) {
	if s.state == StateHalted {
		return
	}
	if s.stall > 0 {
		s.stall--
		return
	}
	if int(s.ip) >= len(s.Code) {
		s.state = StateHalted
		return
	}
	op := s.Code[s.ip]
	switch {
	case op >= FirstDrawOp:
		idx := int(op - FirstDrawOp)
		if idx < len(s.Draws) && sink != nil {
			sink(s.Draws[idx])
		}
		s.ip++
	default:
		s.execControl(op)
	}
}

func (s *Stream) execControl(op byte) {
	switch op {
	case OpNoop:
		s.ip++
	case OpCheckStop:
		if s.cmd == CmdStop {
			s.state = StateHalted
			return
		}
		s.ip++
	case OpStall:
		s.ip++
		if int(s.ip) >= len(s.Code) {
			vmerr.Warn("anim: STALL missing operand, halting stream")
			s.state = StateHalted
			return
		}
		s.stall = int(s.Code[s.ip])
		s.ip++
	case OpReset:
		s.ip = 0
	case OpHalt:
		s.state = StateHalted
	case OpLoopStart:
		s.ip++
		if int(s.ip) >= len(s.Code) {
			vmerr.Warn("anim: LOOP_START missing operand, halting stream")
			s.state = StateHalted
			return
		}
		n := int(s.Code[s.ip])
		s.ip++
		s.loop1 = &loopFrame{startIP: s.ip, remain: n}
	case OpLoopEnd:
		s.endLoop(&s.loop1)
	case OpLoop2Start:
		s.ip++
		if int(s.ip) >= len(s.Code) {
			vmerr.Warn("anim: LOOP2_START missing operand, halting stream")
			s.state = StateHalted
			return
		}
		n := int(s.Code[s.ip])
		s.ip++
		s.loop2 = &loopFrame{startIP: s.ip, remain: n}
	case OpLoop2End:
		s.endLoop(&s.loop2)
	default:
		vmerr.Warn("anim: unknown opcode %#x, halting stream", op)
		s.state = StateHalted
	}
}

func (s *Stream) endLoop(lf **loopFrame) {
	f := *lf
	if f == nil {
		s.ip++
		return
	}
	f.remain--
	if f.remain > 0 {
		s.ip = f.startIP
		return
	}
	*lf = nil
	s.ip++
}
