package dispatch

import (
	"github.com/ai5run/ai5/internal/vm"
	"github.com/ai5run/ai5/internal/vmerr"
)

// Farcall implements the farcall syscall: invoke the code block at an
// arbitrary image offset, without reloading a MES file (spec §4.3
// "farcall (invoke a code block at an arbitrary image offset)"). It is
// registered into a title's sys vector at whatever slot number that
// title's original binary used.
func Farcall(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 || params[0].IsString {
		return vmerr.NewWarning("farcall: expected one expression parameter (the target offset)")
	}
	return m.CallAt(params[0].Value)
}
