package vm

import (
	"testing"

	"github.com/ai5run/ai5/internal/memory"
)

// stubTitle is a minimal Title with no per-title overrides, used to
// exercise the default opcode tables in isolation.
type stubTitle struct {
	callSavesProcs bool
}

func (s *stubTitle) ID() string                                { return "stub" }
func (s *stubTitle) Flag(name string) uint16                   { return 0 }
func (s *stubTitle) SysHandler(n int) (SysHandler, bool)       { return nil, false }
func (s *stubTitle) UtilHandler(n int) (UtilHandler, bool)     { return nil, false }
func (s *stubTitle) StmtHandler(op byte) (StmtHandler, bool)   { return nil, false }
func (s *stubTitle) ExprHandler(op byte) (ExprHandler, bool)   { return nil, false }
func (s *stubTitle) XMult() int                                { return 1 }
func (s *stubTitle) CallSavesProcedures() bool                 { return s.callSavesProcs }
func (s *stubTitle) ProcClearsFlag() bool                      { return false }
func (s *stubTitle) MemInit(m *VM)                             {}
func (s *stubTitle) CustomTXT(m *VM, text string) bool         { return false }
func (s *stubTitle) AfterAnimDraw(m *VM)                       {}

// stubAssets resolves MES names from an in-memory map, in lieu of the
// real archive-backed collaborator.
type stubAssets struct {
	files map[string][]byte
}

func (a *stubAssets) LoadMES(name string) ([]byte, error) {
	data, ok := a.files[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return data, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "mes not found: " + string(e) }

func testLayout() memory.Layout {
	l := memory.Layout{
		Var4Off:     0x000,
		Var4Count:   64,
		SysVar16Ptr: 0x040,
		Var16Off:    0x100,
		SysVar16Off: 0x200,
		SysVar16Len: 28,
		Var32Off:    0x300,
		SysVar32Off: 0x400,
		SysVar32Len: 200,
		HeapOff:     0x800,
		HeapLen:     0x1000,
		FileDataOff: 0x2000,
		FileDataLen: 0x20000,
		PaletteOff:  0x22000,
		MenuAddrOff: 0x22400,
		MenuNumOff:  0x22600,
		MenuMax:     32,
		Mem16Len:    0x1000,
	}
	l.TotalSize = l.PaletteOff + 256*4 + 0x1000
	return l
}

func newTestVM(t *testing.T, files map[string][]byte) *VM {
	t.Helper()
	img := memory.New(testLayout())
	if err := img.SetSysVar16Bank(img.Layout().SysVar16Off); err != nil {
		t.Fatal(err)
	}
	m := NewVM(img, &stubTitle{}, &stubAssets{files: files}, 1)
	return m
}

// TestPushPopArithmetic is spec §8 scenario 1.
func TestPushPopArithmetic(t *testing.T) {
	m := newTestVM(t, nil)
	code := []byte{OpImm8, 0x03, OpImm8, 0x04, OpPlus, OpEnd}
	copy(m.mem.Raw()[m.mem.Layout().FileDataOff:], code)
	m.ip = m.mem.Layout().FileDataOff

	v, err := m.eval()
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != 7 {
		t.Fatalf("eval result = %d, want 7", v)
	}
}

// TestConditionalJump is spec §8 scenario 2.
func TestConditionalJump(t *testing.T) {
	base := testLayout().FileDataOff
	target := base + 0x100

	buildJZ := func(cond byte) []byte {
		code := make([]byte, 0x110)
		code[0] = OpJZ
		// target offset (absolute, LE)
		code[1] = byte(target)
		code[2] = byte(target >> 8)
		code[3] = byte(target >> 16)
		code[4] = byte(target >> 24)
		code[5] = OpImm8
		code[6] = cond
		code[7] = OpEnd
		return code
	}

	t.Run("zero jumps", func(t *testing.T) {
		m := newTestVM(t, nil)
		code := buildJZ(0)
		copy(m.mem.Raw()[base:], code)
		m.ip = base
		if err := m.step(); err != nil {
			t.Fatalf("step: %v", err)
		}
		if m.ip != target {
			t.Fatalf("ip = %#x, want %#x", m.ip, target)
		}
	})

	t.Run("nonzero falls through", func(t *testing.T) {
		m := newTestVM(t, nil)
		code := buildJZ(1)
		copy(m.mem.Raw()[base:], code)
		m.ip = base
		if err := m.step(); err != nil {
			t.Fatalf("step: %v", err)
		}
		if m.ip != base+8 {
			t.Fatalf("ip = %#x, want %#x (past the statement)", m.ip, base+8)
		}
	})
}

// TestCallReturn is spec §8 scenario 3.
func TestCallReturn(t *testing.T) {
	base := testLayout().FileDataOff

	// MES "A": at offset 0x10, CALL "B.MES\0", then an END byte follows
	// (so we can observe IP resumes right after the CALL).
	aCode := make([]byte, 0x20)
	aCode[0x10] = OpCALL
	copy(aCode[0x11:], "B.MES")
	aCode[0x11+5] = 0 // NUL terminator
	afterCall := 0x11 + 6
	aCode[afterCall] = OpSTMTEnd

	// MES "B": just END.
	bCode := []byte{OpSTMTEnd}

	m := newTestVM(t, map[string][]byte{
		"A.MES": aCode,
		"B.MES": bCode,
	})
	if err := m.loadMESInto("A.MES", base); err != nil {
		t.Fatal(err)
	}
	m.curMESName = "A.MES"
	m.ip = base + 0x10
	if err := m.procD(7, 0x999); err != nil {
		t.Fatal(err)
	}

	if err := m.step(); err != nil {
		t.Fatalf("step (CALL): %v", err)
	}

	if m.curMESName != "A.MES" {
		t.Fatalf("after CALL/RETURN, curMESName = %q, want A.MES", m.curMESName)
	}
	if m.ip != base+uint32(afterCall) {
		t.Fatalf("after CALL/RETURN, ip = %#x, want %#x (right after CALL)", m.ip, base+uint32(afterCall))
	}
	if m.procs[7] != 0x999 {
		t.Fatalf("original procedure table was not restored: procs[7] = %#x, want 0x999", m.procs[7])
	}
}

// procD is a small test helper that defines a procedure entry directly,
// without going through the PROCD opcode encoding.
func (m *VM) procD(n int, off uint32) error {
	m.procs[n] = off
	return nil
}

func TestEvalEndRequiresEmptyStack(t *testing.T) {
	m := newTestVM(t, nil)
	base := m.mem.Layout().FileDataOff
	code := []byte{OpImm8, 1, OpImm8, 2, OpEnd}
	copy(m.mem.Raw()[base:], code)
	m.ip = base
	if _, err := m.eval(); err == nil {
		t.Fatal("expected a fatal error for a non-empty stack at END")
	}
}

// TestProcDDefinesEntryAndSkipsInlineBody exercises the PROCD opcode
// itself (not the procD test helper): it must record the procedure
// entry as the byte right after the skip-target dword, then jump ip
// past the inline body instead of falling into it.
func TestProcDDefinesEntryAndSkipsInlineBody(t *testing.T) {
	m := newTestVM(t, nil)
	base := m.mem.Layout().FileDataOff

	bodyOff := base + 6 // past opcode byte + procedure number byte + dword
	skipTarget := base + 20

	code := make([]byte, 30)
	code[0] = OpPROCD
	code[1] = 3 // procedure number
	code[2] = byte(skipTarget)
	code[3] = byte(skipTarget >> 8)
	code[4] = byte(skipTarget >> 16)
	code[5] = byte(skipTarget >> 24)
	// bytes [6,20) stand in for the inline procedure body; if execProcD
	// fell into them instead of skipping, ip would be left at bodyOff
	// rather than skipTarget.
	code[int(skipTarget-base)] = OpSTMTEnd
	copy(m.mem.Raw()[base:], code)

	m.ip = base
	if err := m.step(); err != nil {
		t.Fatalf("step (PROCD): %v", err)
	}
	if m.procs[3] != bodyOff {
		t.Fatalf("procs[3] = %#x, want %#x (byte right after the dword)", m.procs[3], bodyOff)
	}
	if m.ip != skipTarget {
		t.Fatalf("ip = %#x, want %#x (jumped past the inline body)", m.ip, skipTarget)
	}
}

func TestVar4ExprRoundTrip(t *testing.T) {
	m := newTestVM(t, nil)
	if err := m.mem.SetVar4(9, 5); err != nil {
		t.Fatal(err)
	}
	base := m.mem.Layout().FileDataOff
	code := []byte{OpImm8, 9, OpVar4Read8Key, OpEnd}
	copy(m.mem.Raw()[base:], code)
	m.ip = base
	v, err := m.eval()
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Fatalf("var4 read via expr = %d, want 5", v)
	}
}
