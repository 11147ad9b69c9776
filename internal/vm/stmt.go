package vm

import "github.com/ai5run/ai5/internal/vmerr"

// Statement opcodes (spec §4.2 "Statement language").
const (
	OpTXT   byte = 0x01 // literal full-width text, draws at text cursor
	OpSTR   byte = 0x02 // half-width text
	OpSET4  byte = 0x03 // set var4 at a fixed slot
	OpSET16 byte = 0x04 // set var16 at a fixed slot
	OpSET32 byte = 0x05 // set var32 at a fixed slot
	OpSETS  byte = 0x06 // set sysvar16 at a fixed slot

	OpSET4I  byte = 0x07 // set var4 through an evaluated index
	OpSET16I byte = 0x08 // set var16 through an evaluated index
	OpSET32I byte = 0x09 // set var32 through an evaluated index

	OpArray16 byte = 0x0A // array assignment through a var32 pointer, word-sized
	OpArray32 byte = 0x0B // array assignment through a var32 pointer, dword-sized

	OpJZ  byte = 0x0C
	OpJMP byte = 0x0D

	OpSYS  byte = 0x0E
	OpUTIL byte = 0x0F

	OpCALL  byte = 0x10
	OpMENUI byte = 0x11
	OpMENUS byte = 0x12
	OpPROC  byte = 0x13
	OpPROCD byte = 0x14

	OpSTMTEnd byte = 0xFF
)

// Parameter tags (spec §4.2 "Parameter parsing").
const (
	ParamEnd        byte = 0x00
	ParamExpression byte = 0x01
	ParamString     byte = 0x02
)

// MaxParams is the per-call parameter limit from spec §4.2.
const MaxParams = 30

// MaxStringParam is the max length of a STRING parameter, NUL included.
const MaxStringParam = 64

// Param is one resolved call parameter: either an evaluated expression
// value or a decoded string.
type Param struct {
	IsString bool
	Value    Value
	Str      string
}

// readParams parses a parameter list starting at m.ip (immediately after
// the opcode byte) up to the zero terminator, per spec §4.2.
func (m *VM) readParams() ([]Param, error) {
	var params []Param
	for {
		tag, err := m.fetchByte()
		if err != nil {
			return nil, err
		}
		if tag == ParamEnd {
			return params, nil
		}
		if len(params) >= MaxParams {
			return nil, vmerr.NewFatal(m.ip, m.mesName(), m.frameNames(), "parameter list exceeds MAX_PARAMS (%d)", MaxParams)
		}
		switch tag {
		case ParamExpression:
			v, err := m.eval()
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Value: v})
		case ParamString:
			s, err := m.fetchCString(MaxStringParam)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{IsString: true, Str: s})
		default:
			return nil, vmerr.NewWarning("malformed parameter tag %#02x at ip %#x", tag, m.ip)
		}
	}
}

// step fetches and dispatches exactly one statement (spec §4.2 "Execution
// loop": "(c) fetches and dispatches one statement").
func (m *VM) step() error {
	if m.traceW != nil {
		op, _ := m.mem.Byte(m.ip)
		fmtTrace(m.traceW, m.ip, op, m.mesName())
	}

	op, err := m.fetchByte()
	if err != nil {
		return err
	}

	if h, ok := m.title.StmtHandler(op); ok {
		return h(m)
	}
	return m.defaultStmtOp(op)
}

func (m *VM) defaultStmtOp(op byte) error {
	switch op {
	case OpTXT, OpSTR:
		return m.execText(op == OpSTR)
	case OpSET4:
		return m.execSetFixed4()
	case OpSET16:
		return m.execSetFixed16()
	case OpSET32:
		return m.execSetFixed32()
	case OpSETS:
		return m.execSetFixedSysVar16()
	case OpSET4I:
		return m.execSetIndexed4()
	case OpSET16I:
		return m.execSetIndexed16()
	case OpSET32I:
		return m.execSetIndexed32()
	case OpArray16, OpArray32:
		return m.execArraySet(op == OpArray32)
	case OpJZ:
		return m.execJZ()
	case OpJMP:
		return m.execJMP()
	case OpSYS:
		return m.execSys()
	case OpUTIL:
		return m.execUtil()
	case OpCALL:
		return m.execCall()
	case OpMENUI:
		return m.execMenuI()
	case OpMENUS:
		return m.execMenuS()
	case OpPROC:
		return m.execProc()
	case OpPROCD:
		return m.execProcD()
	case OpSTMTEnd:
		m.halted = true
		return nil
	default:
		vmerr.Warn("unknown statement opcode %#02x at ip %#x, skipping", op, m.ip)
		return nil
	}
}

func (m *VM) execText(halfWidth bool) error {
	text, err := m.fetchCString(0xffff)
	if err != nil {
		return err
	}
	if m.title.CustomTXT(m, text) {
		return nil
	}
	if m.drawText != nil {
		m.drawText(text, halfWidth)
	}
	return nil
}

func (m *VM) execSetFixed4() error {
	idx, err := m.fetchByte()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar4(uint32(idx), byte(v))
}

func (m *VM) execSetFixed16() error {
	idx, err := m.fetchByte()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar16(uint32(idx), uint16(v))
}

func (m *VM) execSetFixed32() error {
	idx, err := m.fetchByte()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar32(uint32(idx), v)
}

func (m *VM) execSetFixedSysVar16() error {
	idx, err := m.fetchByte()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetSysVar16(uint32(idx), uint16(v))
}

func (m *VM) execSetIndexed4() error {
	idx, err := m.eval()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar4(idx, byte(v))
}

func (m *VM) execSetIndexed16() error {
	idx, err := m.eval()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar16(idx, uint16(v))
}

func (m *VM) execSetIndexed32() error {
	idx, err := m.eval()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	return m.mem.SetVar32(idx, v)
}

// execArraySet handles array assignment through a var32 pointer variable:
// ptrVarIdx identifies the var32 holding the base, followed by an
// evaluated byte-offset expression, then an evaluated value expression.
func (m *VM) execArraySet(dword bool) error {
	ptrIdx, err := m.fetchByte()
	if err != nil {
		return err
	}
	base, err := m.mem.GetVar32(uint32(ptrIdx))
	if err != nil {
		return err
	}
	offset, err := m.eval()
	if err != nil {
		return err
	}
	v, err := m.eval()
	if err != nil {
		return err
	}
	if dword {
		return m.mem.SetDword(base+offset, v)
	}
	return m.mem.SetWord(base+offset, uint16(v))
}

func (m *VM) execJZ() error {
	target, err := m.fetchDword()
	if err != nil {
		return err
	}
	cond, err := m.eval()
	if err != nil {
		return err
	}
	if cond == 0 {
		m.ip = target
	}
	return nil
}

func (m *VM) execJMP() error {
	target, err := m.fetchDword()
	if err != nil {
		return err
	}
	m.ip = target
	return nil
}

func (m *VM) execSys() error {
	n, err := m.fetchByte()
	if err != nil {
		return err
	}
	params, err := m.readParams()
	if err != nil {
		return err
	}
	h, ok := m.title.SysHandler(int(n))
	if !ok {
		vmerr.Warn("unregistered sys handler %d (title %s)", n, m.title.ID())
		return nil
	}
	return h(m, params)
}

func (m *VM) execUtil() error {
	n, err := m.fetchByte()
	if err != nil {
		return err
	}
	params, err := m.readParams()
	if err != nil {
		return err
	}
	h, ok := m.title.UtilHandler(int(n))
	if !ok {
		vmerr.Warn("unregistered util handler %d (title %s)", n, m.title.ID())
		return nil
	}
	return h(m, params)
}

// execCall implements CALL semantics from spec §4.2.
func (m *VM) execCall() error {
	name, err := m.fetchCString(64)
	if err != nil {
		return err
	}
	return m.callMES(name)
}

// execMenuI parses `MENUI num, skip_target` then the entry body, which
// begins immediately after the skip target and runs up to it (spec §4.2
// "MENUI (define a menu entry, jumping over its body)").
func (m *VM) execMenuI() error {
	num, err := m.fetchDword()
	if err != nil {
		return err
	}
	skipTarget, err := m.fetchDword()
	if err != nil {
		return err
	}
	bodyOff := m.ip
	if err := m.defineMenuEntry(num, bodyOff); err != nil {
		return err
	}
	m.ip = skipTarget
	return nil
}

func (m *VM) execMenuS() error {
	return m.presentMenu()
}

func (m *VM) execProc() error {
	n, err := m.fetchByte()
	if err != nil {
		return err
	}
	return m.callProcedure(int(n))
}

// execProcD parses `PROCD n, skip_target` then the procedure body, which
// begins immediately after skip_target and runs up to it: the entry is
// the byte right after the dword, and ip then jumps past the inline body
// to skip_target, the same shape execMenuI uses for MENUI (spec §4.2
// "PROCD (define procedure n at the following offset and skip its
// body)").
func (m *VM) execProcD() error {
	n, err := m.fetchByte()
	if err != nil {
		return err
	}
	skipTarget, err := m.fetchDword()
	if err != nil {
		return err
	}
	if int(n) >= MaxProcedures {
		return vmerr.NewFatal(m.ip, m.mesName(), m.frameNames(), "procedure index %d exceeds MaxProcedures (%d)", n, MaxProcedures)
	}
	m.procs[n] = m.ip
	m.ip = skipTarget
	return nil
}
