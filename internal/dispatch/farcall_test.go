package dispatch

import (
	"testing"

	"github.com/ai5run/ai5/internal/memory"
	"github.com/ai5run/ai5/internal/vm"
)

func TestFarcallRejectsStringTarget(t *testing.T) {
	layout := testLayout()
	mem := memory.New(layout)

	// At offset 1500: SET var32[0] = 1 style handwritten bytecode would
	// require the full statement opcode set; instead this exercises
	// Farcall's parameter validation path, which is what dispatch owns.
	g := NewGame("test")
	m := vm.NewVM(mem, g, stubAssets{}, 1)

	if err := Farcall(m, []vm.Param{{IsString: true, Str: "oops"}}); err == nil {
		t.Fatal("expected a warning for a farcall target given as a string parameter")
	}
}

func TestFarcallRunsAndRestoresIP(t *testing.T) {
	layout := testLayout()
	mem := memory.New(layout)
	if err := mem.SetByte(1500, vm.OpSTMTEnd); err != nil {
		t.Fatal(err)
	}

	g := NewGame("test")
	m := vm.NewVM(mem, g, stubAssets{}, 1)

	if err := Farcall(m, []vm.Param{{Value: 1500}}); err != nil {
		t.Fatal(err)
	}
	if m.IP() != 0 {
		t.Fatalf("farcall did not restore the caller's ip, got %#x", m.IP())
	}
}
