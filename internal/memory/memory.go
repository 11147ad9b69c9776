// Package memory implements the process-wide flat byte image described in
// spec §3: a single buffer holding every region a title's bytecode can
// address by 32-bit offset, with typed little-endian accessors over it.
//
// All offsets stored inside the image are byte offsets into the image
// itself, never host pointers, and every multibyte access is little-endian
// regardless of host, matching spec §3's save-portability invariant.
package memory

import (
	"encoding/binary"

	"github.com/ai5run/ai5/internal/vmerr"
)

// Layout describes where each region of a title's memory image begins, in
// bytes. It is fixed at startup by the active title (see internal/dispatch)
// and never changes afterward. Sizes of var4/var16/var32/sysvar16/sysvar32
// are per-title because different games shipped different counts of system
// variables.
type Layout struct {
	MESNameOff  uint32
	MESNameLen  uint32
	Var4Off     uint32
	Var4Count   uint32 // number of packed 4-bit entries (two per byte)
	SysVar16Ptr uint32 // offset of the 32-bit bank-select pointer itself
	Var16Off    uint32 // 26 entries, 2 bytes each
	SysVar16Off uint32 // per-bank entries selected via SysVar16Ptr
	SysVar16Len uint32 // entries per bank (26..28)
	Var32Off    uint32 // 26 entries, 4 bytes each
	SysVar32Off uint32
	SysVar32Len uint32 // ~200 entries
	HeapOff     uint32
	HeapLen     uint32
	FileDataOff uint32
	FileDataLen uint32 // bulk asset buffer, >= 0x20000
	PaletteOff  uint32 // 256 * 4 bytes, BGR + reserved byte
	MenuAddrOff uint32
	MenuNumOff  uint32
	MenuMax     uint32

	// Mem16Len is the size of the mem16 prefix that save files capture
	// verbatim (spec §6 "Save files").
	Mem16Len uint32

	TotalSize uint32
}

// Image is the process-wide memory buffer plus the layout describing it.
type Image struct {
	buf    []byte
	layout Layout
}

// New allocates a zero-initialised image sized per layout, matching spec
// §3's "the image is zero-initialised" lifecycle note.
func New(layout Layout) *Image {
	return &Image{buf: make([]byte, layout.TotalSize), layout: layout}
}

// Layout returns the image's region layout.
func (m *Image) Layout() Layout { return m.layout }

// Len returns the total addressable size of the image.
func (m *Image) Len() uint32 { return uint32(len(m.buf)) }

// Raw exposes the full backing buffer. Collaborators (assets, savedata)
// are given read-only views built from this; the VM and syscall handlers
// are the only writers (spec §5 "Shared resources").
func (m *Image) Raw() []byte { return m.buf }

// PtrValid is the bounds-check predicate spec §4.1 calls ptr_valid:
// reports whether [offset, offset+length) lies entirely within the image.
func (m *Image) PtrValid(offset, length uint32) bool {
	if length == 0 {
		return offset <= uint32(len(m.buf))
	}
	end := uint64(offset) + uint64(length)
	return end <= uint64(len(m.buf))
}

func (m *Image) checkBounds(offset, length uint32, what string) error {
	if !m.PtrValid(offset, length) {
		return vmerr.NewFatal(offset, "", nil, "out-of-bounds %s access at offset %#x (len %d, image size %d)", what, offset, length, len(m.buf))
	}
	return nil
}

// Byte reads a single byte at offset.
func (m *Image) Byte(offset uint32) (byte, error) {
	if err := m.checkBounds(offset, 1, "byte"); err != nil {
		return 0, err
	}
	return m.buf[offset], nil
}

// SetByte writes a single byte at offset.
func (m *Image) SetByte(offset uint32, v byte) error {
	if err := m.checkBounds(offset, 1, "byte"); err != nil {
		return err
	}
	m.buf[offset] = v
	return nil
}

// Word reads a little-endian 16-bit value at offset.
func (m *Image) Word(offset uint32) (uint16, error) {
	if err := m.checkBounds(offset, 2, "word"); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.buf[offset : offset+2]), nil
}

// SetWord writes a little-endian 16-bit value at offset.
func (m *Image) SetWord(offset uint32, v uint16) error {
	if err := m.checkBounds(offset, 2, "word"); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.buf[offset:offset+2], v)
	return nil
}

// Dword reads a little-endian 32-bit value at offset.
func (m *Image) Dword(offset uint32) (uint32, error) {
	if err := m.checkBounds(offset, 4, "dword"); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[offset : offset+4]), nil
}

// SetDword writes a little-endian 32-bit value at offset.
func (m *Image) SetDword(offset uint32, v uint32) error {
	if err := m.checkBounds(offset, 4, "dword"); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.buf[offset:offset+4], v)
	return nil
}

// --- var4: packed 4-bit user flags, low-nibble-first (spec §3 invariants) ---

// GetVar4 reads the 4-bit flag at logical index i.
func (m *Image) GetVar4(i uint32) (byte, error) {
	if i >= m.layout.Var4Count {
		return 0, vmerr.NewFatal(m.layout.Var4Off, "", nil, "var4 index %d out of range (max %d)", i, m.layout.Var4Count)
	}
	off := m.layout.Var4Off + i/2
	b, err := m.Byte(off)
	if err != nil {
		return 0, err
	}
	if i%2 == 0 {
		return b & 0x0f, nil
	}
	return (b >> 4) & 0x0f, nil
}

// SetVar4 writes the 4-bit flag at logical index i without disturbing the
// sibling nibble at i^1, per spec §8's quantified invariant.
func (m *Image) SetVar4(i uint32, v byte) error {
	if i >= m.layout.Var4Count {
		return vmerr.NewFatal(m.layout.Var4Off, "", nil, "var4 index %d out of range (max %d)", i, m.layout.Var4Count)
	}
	off := m.layout.Var4Off + i/2
	b, err := m.Byte(off)
	if err != nil {
		return err
	}
	v &= 0x0f
	if i%2 == 0 {
		b = (b & 0xf0) | v
	} else {
		b = (b & 0x0f) | (v << 4)
	}
	return m.SetByte(off, b)
}

// --- var16 / var32: user variables, 26 slots each (A-Z) ---

const userVarCount = 26

func (m *Image) checkUserIndex(i uint32) error {
	if i >= userVarCount {
		return vmerr.NewFatal(0, "", nil, "user variable index %d out of range (max %d)", i, userVarCount)
	}
	return nil
}

// GetVar16 reads user 16-bit variable i.
func (m *Image) GetVar16(i uint32) (uint16, error) {
	if err := m.checkUserIndex(i); err != nil {
		return 0, err
	}
	return m.Word(m.layout.Var16Off + i*2)
}

// SetVar16 writes user 16-bit variable i.
func (m *Image) SetVar16(i uint32, v uint16) error {
	if err := m.checkUserIndex(i); err != nil {
		return err
	}
	return m.SetWord(m.layout.Var16Off+i*2, v)
}

// GetVar32 reads user 32-bit variable i.
func (m *Image) GetVar32(i uint32) (uint32, error) {
	if err := m.checkUserIndex(i); err != nil {
		return 0, err
	}
	return m.Dword(m.layout.Var32Off + i*4)
}

// SetVar32 writes user 32-bit variable i.
func (m *Image) SetVar32(i uint32, v uint32) error {
	if err := m.checkUserIndex(i); err != nil {
		return err
	}
	return m.SetDword(m.layout.Var32Off+i*4, v)
}

// --- sysvar16: banked via SysVar16Ptr, sysvar32: flat ---

// SysVar16Bank returns the offset of the currently selected sysvar16 bank.
func (m *Image) SysVar16Bank() (uint32, error) {
	bank, err := m.Dword(m.layout.SysVar16Ptr)
	if err != nil {
		return 0, err
	}
	if !m.PtrValid(bank, m.layout.SysVar16Len*2) {
		return 0, vmerr.NewFatal(m.layout.SysVar16Ptr, "", nil, "sysvar16_ptr %#x out of bounds", bank)
	}
	return bank, nil
}

// SetSysVar16Bank points sysvar16_ptr at a new bank offset.
func (m *Image) SetSysVar16Bank(off uint32) error {
	if !m.PtrValid(off, m.layout.SysVar16Len*2) {
		return vmerr.NewFatal(m.layout.SysVar16Ptr, "", nil, "sysvar16 bank offset %#x out of bounds", off)
	}
	return m.SetDword(m.layout.SysVar16Ptr, off)
}

// GetSysVar16 reads system 16-bit variable i in the active bank.
func (m *Image) GetSysVar16(i uint32) (uint16, error) {
	if i >= m.layout.SysVar16Len {
		return 0, vmerr.NewFatal(0, "", nil, "sysvar16 index %d out of range (max %d)", i, m.layout.SysVar16Len)
	}
	bank, err := m.SysVar16Bank()
	if err != nil {
		return 0, err
	}
	return m.Word(bank + i*2)
}

// SetSysVar16 writes system 16-bit variable i in the active bank.
func (m *Image) SetSysVar16(i uint32, v uint16) error {
	if i >= m.layout.SysVar16Len {
		return vmerr.NewFatal(0, "", nil, "sysvar16 index %d out of range (max %d)", i, m.layout.SysVar16Len)
	}
	bank, err := m.SysVar16Bank()
	if err != nil {
		return err
	}
	return m.SetWord(bank+i*2, v)
}

// GetSysVar32 reads system 32-bit variable i.
func (m *Image) GetSysVar32(i uint32) (uint32, error) {
	if i >= m.layout.SysVar32Len {
		return 0, vmerr.NewFatal(0, "", nil, "sysvar32 index %d out of range (max %d)", i, m.layout.SysVar32Len)
	}
	return m.Dword(m.layout.SysVar32Off + i*4)
}

// SetSysVar32 writes system 32-bit variable i.
func (m *Image) SetSysVar32(i uint32, v uint32) error {
	if i >= m.layout.SysVar32Len {
		return vmerr.NewFatal(0, "", nil, "sysvar32 index %d out of range (max %d)", i, m.layout.SysVar32Len)
	}
	return m.SetDword(m.layout.SysVar32Off+i*4, v)
}

// GetCString returns a bounds-checked view into the image starting at
// offset, up to (and not including) the first NUL byte, or up to maxLen
// bytes if no NUL is found first.
func (m *Image) GetCString(offset uint32, maxLen uint32) (string, error) {
	if err := m.checkBounds(offset, 0, "cstring"); err != nil {
		return "", err
	}
	end := offset
	limit := offset + maxLen
	if limit > uint32(len(m.buf)) {
		limit = uint32(len(m.buf))
	}
	for end < limit && m.buf[end] != 0 {
		end++
	}
	return string(m.buf[offset:end]), nil
}

// SetCString writes s followed by a NUL terminator at offset, bounds
// checked against maxLen (spec §4.2 parameter parsing: STRING params are
// NUL-terminated, max 64 bytes).
func (m *Image) SetCString(offset uint32, s string, maxLen uint32) error {
	if uint32(len(s))+1 > maxLen {
		return vmerr.NewFatal(offset, "", nil, "string %q exceeds max length %d", s, maxLen)
	}
	if err := m.checkBounds(offset, uint32(len(s))+1, "cstring"); err != nil {
		return err
	}
	copy(m.buf[offset:], s)
	m.buf[offset+uint32(len(s))] = 0
	return nil
}

// Mem16 returns the mem16 prefix used verbatim by save files (spec §6).
func (m *Image) Mem16() []byte {
	return m.buf[:m.layout.Mem16Len]
}

// SetMem16 overwrites the mem16 prefix from a save buffer. len(data) must
// equal the title's Mem16Len.
func (m *Image) SetMem16(data []byte) error {
	if uint32(len(data)) != m.layout.Mem16Len {
		return vmerr.NewFatal(0, "", nil, "save data length %d does not match mem16 length %d", len(data), m.layout.Mem16Len)
	}
	copy(m.buf[:m.layout.Mem16Len], data)
	return nil
}
