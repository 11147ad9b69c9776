package dispatch

import (
	"testing"

	"github.com/ai5run/ai5/internal/vm"
)

func TestGameFlagLookupReturnsZeroForUnknownName(t *testing.T) {
	g := NewGame("test")
	if g.Flag("nonexistent") != 0 {
		t.Fatal("expected 0 for an unregistered flag name")
	}
	g.SetFlag("seen-intro", 0x04)
	if g.Flag("seen-intro") != 0x04 {
		t.Fatalf("Flag returned %#x, want 0x04", g.Flag("seen-intro"))
	}
}

func TestGameSysAndUtilLookupReportsAbsence(t *testing.T) {
	g := NewGame("test")
	if _, ok := g.SysHandler(5); ok {
		t.Fatal("expected an unregistered sys slot to report ok=false")
	}

	called := false
	g.RegisterSys(5, func(m *vm.VM, params []vm.Param) error {
		called = true
		return nil
	})

	h, ok := g.SysHandler(5)
	if !ok {
		t.Fatal("expected sys slot 5 to be registered")
	}
	if err := h(nil, nil); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("registered handler was not invoked")
	}
}

func TestGameDefaultBooleans(t *testing.T) {
	g := NewGame("test")
	if g.CallSavesProcedures() {
		t.Fatal("expected CallSavesProcedures to default false")
	}
	if g.ProcClearsFlag() {
		t.Fatal("expected ProcClearsFlag to default false")
	}
	g.SetCallSavesProcedures(true)
	g.SetProcClearsFlag(true)
	if !g.CallSavesProcedures() || !g.ProcClearsFlag() {
		t.Fatal("setters did not take effect")
	}
}

func TestGameStmtAndExprHandlerAlwaysAbsent(t *testing.T) {
	g := NewGame("test")
	if _, ok := g.StmtHandler(0x10); ok {
		t.Fatal("no title wired so far overrides stmt opcodes")
	}
	if _, ok := g.ExprHandler(0x90); ok {
		t.Fatal("no title wired so far overrides expr opcodes")
	}
}
