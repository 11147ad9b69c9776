package vm

import "github.com/ai5run/ai5/internal/vmerr"

// Value is the VM's single scalar type: every expression, variable and
// pointer is a 32-bit value (spec §3 "VM state": "an expression stack
// (LIFO of 32-bit values, max 1024 deep)").
type Value = uint32

// MaxStackDepth is the expression stack depth limit from spec §3.
const MaxStackDepth = 1024

// stack is the expression evaluator's LIFO.
type stack struct {
	vals []Value
}

func newStack() *stack {
	return &stack{vals: make([]Value, 0, 64)}
}

func (s *stack) push(v Value) error {
	if len(s.vals) >= MaxStackDepth {
		return vmerr.NewFatal(0, "", nil, "expression stack overflow (max depth %d)", MaxStackDepth)
	}
	s.vals = append(s.vals, v)
	return nil
}

func (s *stack) pop() (Value, error) {
	if len(s.vals) == 0 {
		return 0, vmerr.NewFatal(0, "", nil, "expression stack underflow")
	}
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return v, nil
}

func (s *stack) len() int { return len(s.vals) }
