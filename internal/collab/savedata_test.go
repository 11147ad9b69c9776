package collab

import (
	"fmt"
	"testing"

	"github.com/ai5run/ai5/internal/memory"
)

type memSavedata struct {
	slots map[string][]byte
}

func newMemSavedata() *memSavedata { return &memSavedata{slots: make(map[string][]byte)} }

func (m *memSavedata) Read(slot string, buf []byte) error {
	data, ok := m.slots[slot]
	if !ok {
		return fmt.Errorf("no such slot %q", slot)
	}
	n := copy(buf, data)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

func (m *memSavedata) Write(slot string, buf []byte) error {
	cp := append([]byte(nil), buf...)
	m.slots[slot] = cp
	return nil
}

func (m *memSavedata) Exists(slot string) bool {
	_, ok := m.slots[slot]
	return ok
}

func testSaveLayout() memory.Layout {
	return memory.Layout{
		MESNameOff: 0,
		MESNameLen: 16,
		Var4Off:    16,
		Var4Count:  8,
		TotalSize:  64,
	}
}

func TestCopySaveToSaveDuplicatesBytes(t *testing.T) {
	sd := newMemSavedata()
	sd.slots["slot1"] = []byte("hello world data")

	if err := CopySaveToSave(sd, "slot1", "slot2", len(sd.slots["slot1"])); err != nil {
		t.Fatal(err)
	}
	if string(sd.slots["slot2"]) != "hello world data" {
		t.Fatalf("copy mismatch: %q", sd.slots["slot2"])
	}
}

func TestStashAndRestoreMESName(t *testing.T) {
	layout := testSaveLayout()
	sd := newMemSavedata()

	img := memory.New(layout)
	if err := img.SetCString(layout.MESNameOff, "OP0101", layout.MESNameLen); err != nil {
		t.Fatal(err)
	}
	if err := sd.Write("slot1", img.Raw()); err != nil {
		t.Fatal(err)
	}

	name, err := StashMESName(sd, "slot1", layout)
	if err != nil {
		t.Fatal(err)
	}
	if name != "OP0101" {
		t.Fatalf("stashed name = %q, want OP0101", name)
	}

	if err := RestoreMESName(sd, "slot1", "OP0202", layout); err != nil {
		t.Fatal(err)
	}
	name, err = StashMESName(sd, "slot1", layout)
	if err != nil {
		t.Fatal(err)
	}
	if name != "OP0202" {
		t.Fatalf("restored name = %q, want OP0202", name)
	}
}

func TestUnionMergeVar4OrsEverySlot(t *testing.T) {
	layout := testSaveLayout()
	dst := memory.New(layout)
	src := memory.New(layout)

	if err := dst.SetVar4(0, 0b0101); err != nil {
		t.Fatal(err)
	}
	if err := src.SetVar4(0, 0b1010); err != nil {
		t.Fatal(err)
	}
	if err := dst.SetVar4(1, 0b0001); err != nil {
		t.Fatal(err)
	}
	if err := src.SetVar4(1, 0b0001); err != nil {
		t.Fatal(err)
	}

	if err := UnionMergeVar4(dst, src, layout.Var4Count); err != nil {
		t.Fatal(err)
	}

	got0, _ := dst.GetVar4(0)
	if got0 != 0b1111 {
		t.Fatalf("slot 0 = %#x, want 0b1111", got0)
	}
	got1, _ := dst.GetVar4(1)
	if got1 != 0b0001 {
		t.Fatalf("slot 1 = %#x, want 0b0001", got1)
	}
}
