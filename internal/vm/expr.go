package vm

import "github.com/ai5run/ai5/internal/vmerr"

// Expression opcodes (spec §4.2 "Expression language"). Bytes below 0x80
// are short immediates: the opcode byte itself is the pushed value, which
// lets single-digit literals encode as one byte. 0x80 and above select a
// specific operation.
const (
	OpImm8  byte = 0x80 // next byte is the immediate value
	OpImm16 byte = 0x81 // next 2 bytes (LE) are the immediate value
	OpImm32 byte = 0x82 // next 4 bytes (LE) are the immediate value

	OpVar16Read    byte = 0x83 // next byte: user var16 index
	OpVar32Read    byte = 0x84 // next byte: user var32 index
	OpSysVar16Read byte = 0x85 // next byte: sysvar16 index
	OpSysVar32Read byte = 0x86 // next byte: sysvar32 index

	// Indexed reads through a user-32 pointer variable: pop an offset,
	// read the pointer from var32[idx], add the popped offset, and read
	// byte/word/dword at the resulting address.
	OpIndexedByteRead  byte = 0x87 // next byte: var32 index holding base pointer
	OpIndexedWordRead  byte = 0x88
	OpIndexedDwordRead byte = 0x89

	OpVar4Read16Key byte = 0x8A // pop a 16-bit key, push var4[key]
	OpVar4Read8Key  byte = 0x8B // pop an 8-bit key, push var4[key]

	OpPlus  byte = 0x90
	OpMinus byte = 0x91
	OpMul   byte = 0x92
	OpDiv   byte = 0x93
	OpMod   byte = 0x94

	OpBitAnd byte = 0x95
	OpBitOr  byte = 0x96
	OpBitXor byte = 0x97

	OpLAnd byte = 0x98
	OpLOr  byte = 0x99

	OpLT byte = 0x9A
	OpGT byte = 0x9B
	OpLE byte = 0x9C
	OpGE byte = 0x9D
	OpEQ byte = 0x9E
	OpNE byte = 0x9F

	OpRand byte = 0xA0 // pop n, push uniform random value in [0, n)

	OpEnd byte = 0xFF
)

// eval runs the expression VM over m's current code stream starting at
// m.ip until OP_END, per spec §4.2: "end pops exactly one value and
// asserts the stack is empty." It returns the single resulting value.
func (m *VM) eval() (Value, error) {
	s := newStack()
	for {
		op, err := m.fetchByte()
		if err != nil {
			return 0, err
		}

		if op < OpImm8 {
			if err := s.push(Value(op)); err != nil {
				return 0, err
			}
			continue
		}

		if op == OpEnd {
			v, err := s.pop()
			if err != nil {
				return 0, err
			}
			if s.len() != 0 {
				return 0, vmerr.NewFatal(m.ip, m.mesName(), m.frameNames(), "expression stack not empty at end (%d leftover values)", s.len())
			}
			return v, nil
		}

		if h, ok := m.title.ExprHandler(op); ok {
			if err := h(m, s); err != nil {
				return 0, err
			}
			continue
		}

		if err := m.defaultExprOp(op, s); err != nil {
			return 0, err
		}
	}
}

func (m *VM) defaultExprOp(op byte, s *stack) error {
	switch op {
	case OpImm8:
		b, err := m.fetchByte()
		if err != nil {
			return err
		}
		return s.push(Value(b))
	case OpImm16:
		v, err := m.fetchWord()
		if err != nil {
			return err
		}
		return s.push(Value(v))
	case OpImm32:
		v, err := m.fetchDword()
		if err != nil {
			return err
		}
		return s.push(v)
	case OpVar16Read:
		idx, err := m.fetchByte()
		if err != nil {
			return err
		}
		v, err := m.mem.GetVar16(uint32(idx))
		if err != nil {
			return err
		}
		return s.push(Value(v))
	case OpVar32Read:
		idx, err := m.fetchByte()
		if err != nil {
			return err
		}
		v, err := m.mem.GetVar32(uint32(idx))
		if err != nil {
			return err
		}
		return s.push(v)
	case OpSysVar16Read:
		idx, err := m.fetchByte()
		if err != nil {
			return err
		}
		v, err := m.mem.GetSysVar16(uint32(idx))
		if err != nil {
			return err
		}
		return s.push(Value(v))
	case OpSysVar32Read:
		idx, err := m.fetchByte()
		if err != nil {
			return err
		}
		v, err := m.mem.GetSysVar32(uint32(idx))
		if err != nil {
			return err
		}
		return s.push(v)
	case OpIndexedByteRead, OpIndexedWordRead, OpIndexedDwordRead:
		return m.evalIndexedRead(op, s)
	case OpVar4Read16Key, OpVar4Read8Key:
		key, err := s.pop()
		if err != nil {
			return err
		}
		v, err := m.mem.GetVar4(key)
		if err != nil {
			return err
		}
		return s.push(Value(v))
	case OpPlus, OpMinus, OpMul, OpDiv, OpMod,
		OpBitAnd, OpBitOr, OpBitXor, OpLAnd, OpLOr,
		OpLT, OpGT, OpLE, OpGE, OpEQ, OpNE:
		return m.evalBinary(op, s)
	case OpRand:
		n, err := s.pop()
		if err != nil {
			return err
		}
		return s.push(m.randUint32(n))
	default:
		vmerr.Warn("unknown expression opcode %#02x at ip %#x, treating as 0", op, m.ip)
		return s.push(0)
	}
}

func (m *VM) evalIndexedRead(op byte, s *stack) error {
	varIdx, err := m.fetchByte()
	if err != nil {
		return err
	}
	base, err := m.mem.GetVar32(uint32(varIdx))
	if err != nil {
		return err
	}
	offset, err := s.pop()
	if err != nil {
		return err
	}
	addr := base + offset
	switch op {
	case OpIndexedByteRead:
		b, err := m.mem.Byte(addr)
		if err != nil {
			return err
		}
		return s.push(Value(b))
	case OpIndexedWordRead:
		w, err := m.mem.Word(addr)
		if err != nil {
			return err
		}
		return s.push(Value(w))
	default:
		v, err := m.mem.Dword(addr)
		if err != nil {
			return err
		}
		return s.push(v)
	}
}

func (m *VM) evalBinary(op byte, s *stack) error {
	rhs, err := s.pop()
	if err != nil {
		return err
	}
	lhs, err := s.pop()
	if err != nil {
		return err
	}
	var result Value
	switch op {
	case OpPlus:
		result = lhs + rhs
	case OpMinus:
		result = lhs - rhs
	case OpMul:
		result = lhs * rhs
	case OpDiv:
		if rhs == 0 {
			vmerr.Warn("division by zero at ip %#x, result 0", m.ip)
			result = 0
		} else {
			result = lhs / rhs
		}
	case OpMod:
		if rhs == 0 {
			vmerr.Warn("modulo by zero at ip %#x, result 0", m.ip)
			result = 0
		} else {
			result = lhs % rhs
		}
	case OpBitAnd:
		result = lhs & rhs
	case OpBitOr:
		result = lhs | rhs
	case OpBitXor:
		result = lhs ^ rhs
	case OpLAnd:
		result = boolVal(lhs != 0 && rhs != 0)
	case OpLOr:
		result = boolVal(lhs != 0 || rhs != 0)
	case OpLT:
		result = boolVal(lhs < rhs)
	case OpGT:
		result = boolVal(lhs > rhs)
	case OpLE:
		result = boolVal(lhs <= rhs)
	case OpGE:
		result = boolVal(lhs >= rhs)
	case OpEQ:
		result = boolVal(lhs == rhs)
	case OpNE:
		result = boolVal(lhs != rhs)
	}
	return s.push(result)
}

func boolVal(b bool) Value {
	if b {
		return 1
	}
	return 0
}
