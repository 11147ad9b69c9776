// Package dispatch implements the per-title "vtable" spec §4.3 describes:
// a Game record satisfying vm.Title, its sys/util dispatch vectors, the
// classics.c-style shared utility bank, farcall, and concrete title
// wirings (starting with YU-NO).
package dispatch

import "github.com/ai5run/ai5/internal/vm"

// maxSysSlots/maxUtilSlots are the dispatch vector sizes spec §4.3 names
// ("sys (up to 256 entries) and util (up to 601 entries)"); dispatch
// indices running that high argue for a densely indexed array rather
// than a hash map (spec §9 "Polymorphism over titles").
const (
	maxSysSlots  = 256
	maxUtilSlots = 601
)

// Game is the concrete vm.Title implementation every shipped title
// builds one instance of at startup (spec §4.3 "A title is described by
// a record containing...").
type Game struct {
	id    string
	flags map[string]uint16
	sys   [maxSysSlots]vm.SysHandler
	util  [maxUtilSlots]vm.UtilHandler

	xmult               int
	callSavesProcedures bool
	procClearsFlag      bool
	noAntialiasText     bool

	memInit       func(m *vm.VM)
	customTXT     func(m *vm.VM, text string) bool
	afterAnimDraw func(m *vm.VM)

	// FrameIntervalMS is the animation scheduler's tick gate for this
	// title (DESIGN.md, "Animation base frame rate"); most titles use
	// 16ms but some run at 20, 50, or an adaptive rate.
	FrameIntervalMS int
}

// NewGame builds an empty Game ready for Register* calls.
func NewGame(id string) *Game {
	return &Game{
		id:              id,
		flags:           make(map[string]uint16),
		FrameIntervalMS: 16,
	}
}

func (g *Game) ID() string { return g.id }

// SetFlag registers a logical flag name's bitmask (spec §3 "Flags").
func (g *Game) SetFlag(name string, mask uint16) { g.flags[name] = mask }

func (g *Game) Flag(name string) uint16 { return g.flags[name] }

// RegisterSys installs handler at sys vector slot n.
func (g *Game) RegisterSys(n int, h vm.SysHandler) { g.sys[n] = h }

// RegisterUtil installs handler at util vector slot n.
func (g *Game) RegisterUtil(n int, h vm.UtilHandler) { g.util[n] = h }

func (g *Game) SysHandler(n int) (vm.SysHandler, bool) {
	if n < 0 || n >= len(g.sys) || g.sys[n] == nil {
		return nil, false
	}
	return g.sys[n], true
}

func (g *Game) UtilHandler(n int) (vm.UtilHandler, bool) {
	if n < 0 || n >= len(g.util) || g.util[n] == nil {
		return nil, false
	}
	return g.util[n], true
}

// StmtHandler/ExprHandler are left unimplemented by every title wired so
// far: the default opcode tables in internal/vm already cover the shared
// instruction set, and no title in this repository needs a bytecode-level
// override. The extension point stays available on vm.Title for a title
// that does.
func (g *Game) StmtHandler(op byte) (vm.StmtHandler, bool) { return nil, false }
func (g *Game) ExprHandler(op byte) (vm.ExprHandler, bool) { return nil, false }

func (g *Game) XMult() int { return g.xmult }

// SetXMult sets the per-title X-coordinate unit multiplier.
func (g *Game) SetXMult(n int) { g.xmult = n }

func (g *Game) CallSavesProcedures() bool { return g.callSavesProcedures }

// SetCallSavesProcedures configures whether nested CALLs retain the
// caller's procedure table.
func (g *Game) SetCallSavesProcedures(v bool) { g.callSavesProcedures = v }

func (g *Game) ProcClearsFlag() bool { return g.procClearsFlag }

// SetProcClearsFlag configures whether PROC clears the RETURN flag.
func (g *Game) SetProcClearsFlag(v bool) { g.procClearsFlag = v }

// NoAntialiasText reports whether this title's text renderer must avoid
// alpha-blended glyph edges (spec §4.3 behavioural booleans).
func (g *Game) NoAntialiasText() bool { return g.noAntialiasText }

func (g *Game) SetNoAntialiasText(v bool) { g.noAntialiasText = v }

// SetMemInit installs the title's initial-pointer/system-var setup hook.
func (g *Game) SetMemInit(f func(m *vm.VM)) { g.memInit = f }

func (g *Game) MemInit(m *vm.VM) {
	if g.memInit != nil {
		g.memInit(m)
	}
}

// SetCustomTXT installs a title's TXT interception hook.
func (g *Game) SetCustomTXT(f func(m *vm.VM, text string) bool) { g.customTXT = f }

func (g *Game) CustomTXT(m *vm.VM, text string) bool {
	if g.customTXT != nil {
		return g.customTXT(m, text)
	}
	return false
}

// SetAfterAnimDraw installs a title's after-anim-draw UI-chrome hook.
func (g *Game) SetAfterAnimDraw(f func(m *vm.VM)) { g.afterAnimDraw = f }

func (g *Game) AfterAnimDraw(m *vm.VM) {
	if g.afterAnimDraw != nil {
		g.afterAnimDraw(m)
	}
}
