// Package vm implements the AI5 bytecode virtual machine: the expression
// and statement interpreters, the call/procedure stacks, and the exec
// loop that drives them (spec §4.2).
package vm

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/ai5run/ai5/internal/memory"
	"github.com/ai5run/ai5/internal/vmerr"
)

// Assets is the narrow collaborator contract the VM needs to load MES
// bytecode (spec §4.8). Archive mounting, decompression, and other
// asset-format concerns live entirely behind this interface.
type Assets interface {
	LoadMES(name string) ([]byte, error)
}

// MenuEntry is one MENUI-defined menu body.
type MenuEntry struct {
	Num     uint32
	BodyOff uint32
}

// VM is the single process-wide interpreter context. Per spec §9
// ("Globals"), a real reimplementation threads one VM value through the
// whole program instead of relying on package-level state; NewVM is the
// one place that constructs it.
type VM struct {
	mem    *memory.Image
	title  Title
	assets Assets

	ip        uint32
	callStack []frame
	procs     procTable
	scope     int
	returnFlag bool
	halted    bool

	curMESName string
	menu       []MenuEntry

	drawText func(text string, halfWidth bool)
	chooseMenu func(entries []MenuEntry) int

	onPollGraphics func()
	onPumpEvents   func()

	traceW io.Writer
	rng    *rand.Rand
}

// NewVM constructs a VM over a freshly allocated memory image for title,
// using assets to resolve MES file loads.
func NewVM(mem *memory.Image, title Title, assets Assets, seed int64) *VM {
	return &VM{
		mem:    mem,
		title:  title,
		assets: assets,
		procs:  newProcTable(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Mem returns the VM's memory image, for syscall/util handlers.
func (m *VM) Mem() *memory.Image { return m.mem }

// Title returns the active title record.
func (m *VM) Title() Title { return m.title }

// MenuCount reports the number of entries defined by MENUI since the
// last MENUS (spec §4.3 "menu query"), the live count the dispatch
// layer's menu-query util reads.
func (m *VM) MenuCount() int { return len(m.menu) }

// IP returns the current instruction pointer, for diagnostics.
func (m *VM) IP() uint32 { return m.ip }

// SetDrawText installs the default text-draw hook used by TXT/STR when
// the title's CustomTXT does not claim the statement.
func (m *VM) SetDrawText(f func(text string, halfWidth bool)) { m.drawText = f }

// SetChooseMenu installs the hook MENUS uses to let a host UI present the
// currently defined menu and return the chosen entry's index.
func (m *VM) SetChooseMenu(f func(entries []MenuEntry) int) { m.chooseMenu = f }

// SetPollGraphics installs the per-statement graphics poll hook (spec
// §4.2 exec loop step (a)).
func (m *VM) SetPollGraphics(f func()) { m.onPollGraphics = f }

// SetPumpEvents installs the per-statement host event pump hook (spec
// §4.2 exec loop step (d)).
func (m *VM) SetPumpEvents(f func()) { m.onPumpEvents = f }

// SetTrace enables per-statement opcode tracing to w, or disables it when
// w is nil. This is the narrow hook SPEC_FULL keeps from original_source's
// interactive debugger without adopting its REPL.
func (m *VM) SetTrace(w io.Writer) { m.traceW = w }

func fmtTrace(w io.Writer, ip uint32, op byte, mesName string) {
	fmt.Fprintf(w, "%s:%#06x op=%#02x\n", mesName, ip, op)
}

func (m *VM) mesName() string { return m.curMESName }

func (m *VM) frameNames() []string {
	names := make([]string, len(m.callStack))
	for i, f := range m.callStack {
		names[i] = f.mesName
	}
	return names
}

func (m *VM) randUint32(n Value) Value {
	if n == 0 {
		return 0
	}
	return Value(m.rng.Uint32() % uint32(n))
}

// --- fetch helpers: read the code stream at m.ip and advance it ---

func (m *VM) fetchByte() (byte, error) {
	b, err := m.mem.Byte(m.ip)
	if err != nil {
		return 0, m.wrapFatal(err)
	}
	m.ip++
	return b, nil
}

func (m *VM) fetchWord() (uint16, error) {
	v, err := m.mem.Word(m.ip)
	if err != nil {
		return 0, m.wrapFatal(err)
	}
	m.ip += 2
	return v, nil
}

func (m *VM) fetchDword() (uint32, error) {
	v, err := m.mem.Dword(m.ip)
	if err != nil {
		return 0, m.wrapFatal(err)
	}
	m.ip += 4
	return v, nil
}

func (m *VM) fetchCString(maxLen uint32) (string, error) {
	s, err := m.mem.GetCString(m.ip, maxLen)
	if err != nil {
		return "", m.wrapFatal(err)
	}
	m.ip += uint32(len(s)) + 1
	return s, nil
}

func (m *VM) wrapFatal(err error) error {
	if f, ok := err.(*vmerr.Fatal); ok {
		f.IP = m.ip
		f.MESName = m.curMESName
		f.Frames = m.frameNames()
		return f
	}
	return err
}

// Run loads the given start MES and interprets it until end-of-program
// (spec §3 "Lifecycle": "the VM then loads the INI-configured start MES
// and interprets until end-of-program").
func (m *VM) Run(startMES string) error {
	m.title.MemInit(m)
	if err := m.loadMESInto(startMES, m.mem.Layout().FileDataOff); err != nil {
		return err
	}
	m.ip = m.mem.Layout().FileDataOff
	m.curMESName = startMES
	return m.exec()
}

// exec is the statement dispatch loop (spec §4.2 "Execution loop").
func (m *VM) exec() error {
	m.scope++
	defer func() { m.scope-- }()

	for {
		if m.onPollGraphics != nil {
			m.onPollGraphics()
		}
		if m.returnFlag {
			if m.scope == 1 {
				m.returnFlag = false
			}
			return nil
		}
		if m.halted {
			m.halted = false
			return nil
		}
		if err := m.step(); err != nil {
			if vmerr.IsFatal(err) {
				return err
			}
			vmerr.Warn("%v", err)
		}
		if m.onPumpEvents != nil {
			m.onPumpEvents()
		}
	}
}

// SignalReturn sets the RETURN flag; checked by exec at the next
// iteration boundary (spec §3 "a scope counter used so that return
// terminates the correct nested execution loop").
func (m *VM) SignalReturn() { m.returnFlag = true }

func (m *VM) loadMESInto(name string, dst uint32) error {
	data, err := m.assets.LoadMES(name)
	if err != nil {
		return vmerr.NewFatal(m.ip, name, m.frameNames(), "loading MES %q: %v", name, err)
	}
	if !m.mem.PtrValid(dst, uint32(len(data))) {
		return vmerr.NewFatal(m.ip, name, m.frameNames(), "MES %q (%d bytes) does not fit at offset %#x", name, len(data), dst)
	}
	copy(m.mem.Raw()[dst:], data)
	return nil
}

// callMES implements CALL: save the caller's state into a new frame,
// zero (or retain, per-title) the procedure table, load and run the
// target MES, and restore the caller on unwind (spec §4.2 "CALL
// semantics").
func (m *VM) callMES(name string) error {
	savedProcs := m.procs
	m.callStack = append(m.callStack, frame{
		returnIP: m.ip,
		mesName:  m.curMESName,
		procs:    savedProcs,
	})

	if !m.title.CallSavesProcedures() {
		m.procs = newProcTable()
	}

	if err := m.loadMESInto(name, m.mem.Layout().FileDataOff); err != nil {
		m.callStack = m.callStack[:len(m.callStack)-1]
		return err
	}
	m.ip = m.mem.Layout().FileDataOff
	m.curMESName = name

	if err := m.exec(); err != nil {
		return err
	}

	top := m.callStack[len(m.callStack)-1]
	m.callStack = m.callStack[:len(m.callStack)-1]

	// On unwind, whether the callee ended with END or RETURN, reload the
	// caller's MES so its bytecode is back in file_data; the MES name is
	// the only restoration key (spec §4.2).
	if err := m.loadMESInto(top.mesName, m.mem.Layout().FileDataOff); err != nil {
		return err
	}
	m.ip = top.returnIP
	m.curMESName = top.mesName
	m.procs = top.procs
	return nil
}

// callProcedure implements PROC n: save the current IP, jump to the
// procedure's entry, run exec, then restore the caller IP (spec §4.2
// "PROC/PROCD").
func (m *VM) callProcedure(n int) error {
	if n < 0 || n >= MaxProcedures {
		return vmerr.NewFatal(m.ip, m.curMESName, m.frameNames(), "procedure index %d out of range", n)
	}
	entry := m.procs[n]
	if entry == noProc {
		return vmerr.NewFatal(m.ip, m.curMESName, m.frameNames(), "call to undefined procedure %d", n)
	}
	savedIP := m.ip
	m.ip = entry
	if m.title.ProcClearsFlag() {
		m.returnFlag = false
	}
	if err := m.exec(); err != nil {
		return err
	}
	m.ip = savedIP
	return nil
}

// CallAt implements farcall: invoke the code at offset as if it were a
// procedure body, without loading a different MES file and without
// touching the procedure table (spec §4.3 "farcall (invoke a code block
// at an arbitrary image offset)"). The caller's IP is restored on return,
// matching PROC's restore-on-unwind shape rather than CALL's MES reload.
func (m *VM) CallAt(offset uint32) error {
	savedIP := m.ip
	m.ip = offset
	if err := m.exec(); err != nil {
		return err
	}
	m.ip = savedIP
	return nil
}

func (m *VM) defineMenuEntry(num, bodyOff uint32) error {
	layout := m.mem.Layout()
	if layout.MenuMax != 0 && uint32(len(m.menu)) >= layout.MenuMax {
		return vmerr.NewFatal(m.ip, m.curMESName, m.frameNames(), "menu entry table full (max %d)", layout.MenuMax)
	}
	m.menu = append(m.menu, MenuEntry{Num: num, BodyOff: bodyOff})
	if layout.MenuAddrOff != 0 {
		idx := uint32(len(m.menu) - 1)
		if err := m.mem.SetDword(layout.MenuAddrOff+idx*4, bodyOff); err != nil {
			return err
		}
		if err := m.mem.SetDword(layout.MenuNumOff+idx*4, num); err != nil {
			return err
		}
	}
	return nil
}

// presentMenu implements MENUS: ask the host (via chooseMenu) which of
// the currently-defined entries was picked, jump to its body, run it,
// then clear the menu table for the next MENUI/MENUS cycle.
func (m *VM) presentMenu() error {
	entries := m.menu
	m.menu = nil
	if len(entries) == 0 {
		vmerr.Warn("MENUS with no defined entries at ip %#x", m.ip)
		return nil
	}
	choice := 0
	if m.chooseMenu != nil {
		choice = m.chooseMenu(entries)
	}
	if choice < 0 || choice >= len(entries) {
		return vmerr.NewFatal(m.ip, m.curMESName, m.frameNames(), "menu choice %d out of range (have %d entries)", choice, len(entries))
	}
	savedIP := m.ip
	m.ip = entries[choice].BodyOff
	if err := m.exec(); err != nil {
		return err
	}
	m.ip = savedIP
	return nil
}
