package dispatch

import (
	"strconv"

	"github.com/ai5run/ai5/internal/anim"
	"github.com/ai5run/ai5/internal/collab"
	"github.com/ai5run/ai5/internal/gfx"
	"github.com/ai5run/ai5/internal/input"
	"github.com/ai5run/ai5/internal/text"
	"github.com/ai5run/ai5/internal/vm"
	"github.com/ai5run/ai5/internal/vmerr"
)

// ClassicUtils is the shared-library utility bank spec §4.3 describes as
// "syscalls exposed by the shared library", modeled as a single struct of
// collaborators so every title can wire the same set of handlers into its
// own util vector at whatever slot numbers that title's original binary
// used. It is grounded on the shared-helper-bank shape of a general
// virtual-machine record of constants and collaborators rather than on
// any one opcode numbering. Methods are split across classics.go (the
// original scalar syscalls), graphics.go (compositor/palette/display/
// text/cursor), audio.go, and anim.go by concern, the way internal/text
// and internal/collab already split cache/layout and assets/audio/
// savedata into separate files.
type ClassicUtils struct {
	Compositor *gfx.Compositor
	Renderer   *text.Renderer
	Backlog    *text.Backlog
	Input      input.Source
	Clock      input.Clock
	Queue      *input.Queue
	Savedata   collab.Savedata
	Assets     collab.Assets
	Display    *gfx.Display
	Cursor     collab.Cursor
	Audio      collab.Audio
	Anim       *anim.Scheduler

	// MaskColorVar16 names the sysvar16 slot holding the active mask
	// colour COPY_MASKED/COMPOSE animation draw records read at the time
	// each draw fires (spec §4.6, original anim.c:150). Each title's
	// NewXxx constructor sets this to whatever slot its own binary uses.
	MaskColorVar16 uint32

	loadedCG   *collab.CG
	crossfader *gfx.Crossfader
	fontSize   int
	textColor  uint32

	animStreams    map[uint32]*anim.Stream
	nextAnimHandle uint32
}

// Strlen pushes len(s) back through var32[0] for the caller to read, the
// common pattern for utility calls that return a scalar (spec §4.3
// "strlen").
func (c *ClassicUtils) Strlen(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 || !params[0].IsString {
		return vmerr.NewWarning("strlen: expected a string parameter")
	}
	return m.Mem().SetVar32(0, uint32(len(params[0].Str)))
}

// SetScreenSurface changes which fixed surface slot is presented (spec
// §4.3 "set-screen-surface").
func (c *ClassicUtils) SetScreenSurface(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("set-screen-surface: missing surface index")
	}
	c.Compositor.ScreenIndex = int(params[0].Value)
	return nil
}

// BacklogPush records the most recently drawn line of text (spec §4.3
// "backlog (history log)").
func (c *ClassicUtils) BacklogPush(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 || !params[0].IsString {
		return vmerr.NewWarning("backlog: expected a string parameter")
	}
	c.Backlog.Push(params[0].Str)
	return nil
}

// GetTime pushes the current monotonic millisecond count into var32[0]
// (spec §4.3 "get-time").
func (c *ClassicUtils) GetTime(m *vm.VM, params []vm.Param) error {
	return m.Mem().SetVar32(0, uint32(uint64(c.Clock.NowMS())&0xffffffff))
}

// InputCheck pushes 1 into var32[0] if the named button (by ordinal) is
// currently down, else 0 (spec §4.3 "input check").
func (c *ClassicUtils) InputCheck(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("input-check: missing button ordinal")
	}
	down := c.Input.IsDown(input.Button(params[0].Value))
	var v uint32
	if down {
		v = 1
	}
	return m.Mem().SetVar32(0, v)
}

// CursorHitTest pushes 1 into var32[0] if the point (x,y) falls within
// the rectangle (rx,ry,rw,rh) given as six expression parameters (spec
// §4.3 "cursor-segment hit-test").
func (c *ClassicUtils) CursorHitTest(m *vm.VM, params []vm.Param) error {
	if len(params) < 6 {
		return vmerr.NewWarning("cursor-hit-test: expected 6 parameters")
	}
	x, y := int(params[0].Value), int(params[1].Value)
	rx, ry, rw, rh := int(params[2].Value), int(params[3].Value), int(params[4].Value), int(params[5].Value)
	hit := x >= rx && x < rx+rw && y >= ry && y < ry+rh
	var v uint32
	if hit {
		v = 1
	}
	return m.Mem().SetVar32(0, v)
}

// MenuQuery pushes the number of currently defined menu entries into
// var32[0] (spec §4.3 "menu query").
func (c *ClassicUtils) MenuQuery(m *vm.VM, params []vm.Param) error {
	return m.Mem().SetVar32(0, uint32(m.MenuCount()))
}

// SaveGame writes the mem16 prefix to a numbered save slot (spec §6
// "Save files": "a verbatim copy of mem16"; spec §4.8 "savedata").
func (c *ClassicUtils) SaveGame(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("save-game: missing slot number")
	}
	slot := strconv.Itoa(int(params[0].Value))
	if err := c.Savedata.Write(slot, m.Mem().Mem16()); err != nil {
		return vmerr.NewWarning(err.Error())
	}
	return nil
}

// LoadGame restores the mem16 prefix from a numbered save slot.
func (c *ClassicUtils) LoadGame(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("load-game: missing slot number")
	}
	slot := strconv.Itoa(int(params[0].Value))
	buf := make([]byte, m.Mem().Layout().Mem16Len)
	if err := c.Savedata.Read(slot, buf); err != nil {
		return vmerr.NewWarning(err.Error())
	}
	if err := m.Mem().SetMem16(buf); err != nil {
		return vmerr.NewWarning(err.Error())
	}
	return nil
}
