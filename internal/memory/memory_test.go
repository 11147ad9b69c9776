package memory

import (
	"testing"

	"github.com/ai5run/ai5/internal/vmerr"
)

func testLayout() Layout {
	l := Layout{
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
		Mem16Len:    0x1000,
	}
	l.TotalSize = l.PaletteOff + 256*4
	return l
}

func newTestImage(t *testing.T) *Image {
	t.Helper()
	img := New(testLayout())
	if err := img.SetSysVar16Bank(img.Layout().SysVar16Off); err != nil {
		t.Fatalf("SetSysVar16Bank: %v", err)
	}
	return img
}

func TestVar4PackingDoesNotDisturbSibling(t *testing.T) {
	img := newTestImage(t)
	for i := uint32(0); i < img.Layout().Var4Count; i++ {
		if err := img.SetVar4(i^1, 0xf); err != nil {
			t.Fatalf("seed sibling: %v", err)
		}
		if err := img.SetVar4(i, 0x7); err != nil {
			t.Fatalf("SetVar4(%d): %v", i, err)
		}
		got, err := img.GetVar4(i)
		if err != nil || got != 0x7 {
			t.Fatalf("GetVar4(%d) = %d, %v; want 7, nil", i, got, err)
		}
		sibling, err := img.GetVar4(i ^ 1)
		if err != nil || sibling != 0xf {
			t.Fatalf("sibling nibble at %d changed: got %d, want 15", i^1, sibling)
		}
	}
}

func TestVar4MasksToFourBits(t *testing.T) {
	img := newTestImage(t)
	if err := img.SetVar4(3, 0xff); err != nil {
		t.Fatal(err)
	}
	got, _ := img.GetVar4(3)
	if got != 0x0f {
		t.Fatalf("GetVar4 = %#x, want 0xf", got)
	}
}

func TestVar32RoundTripFullRange(t *testing.T) {
	img := newTestImage(t)
	cases := []uint32{0, 1, 0x7fffffff, 0x80000000, 0xffffffff}
	for _, v := range cases {
		if err := img.SetVar32(0, v); err != nil {
			t.Fatal(err)
		}
		got, err := img.GetVar32(0)
		if err != nil || got != v {
			t.Fatalf("var32 round trip: got %#x, want %#x", got, v)
		}
	}
}

func TestSysVar16Banking(t *testing.T) {
	img := newTestImage(t)
	bankA := img.Layout().SysVar16Off
	bankB := bankA + img.Layout().SysVar16Len*2

	if err := img.SetSysVar16Bank(bankA); err != nil {
		t.Fatal(err)
	}
	if err := img.SetSysVar16(0, 111); err != nil {
		t.Fatal(err)
	}
	if err := img.SetSysVar16Bank(bankB); err != nil {
		t.Fatal(err)
	}
	if err := img.SetSysVar16(0, 222); err != nil {
		t.Fatal(err)
	}

	if err := img.SetSysVar16Bank(bankA); err != nil {
		t.Fatal(err)
	}
	got, _ := img.GetSysVar16(0)
	if got != 111 {
		t.Fatalf("bank A sysvar16[0] = %d, want 111 (banks must not alias)", got)
	}
}

func TestPtrValidBounds(t *testing.T) {
	img := newTestImage(t)
	if !img.PtrValid(0, img.Len()) {
		t.Fatal("whole image should be valid")
	}
	if img.PtrValid(img.Len()-1, 2) {
		t.Fatal("range exceeding the image must be invalid")
	}
	if img.PtrValid(img.Len()+1, 0) {
		t.Fatal("offset beyond the image must be invalid even with zero length")
	}
}

func TestGetCStringStopsAtNUL(t *testing.T) {
	img := newTestImage(t)
	if err := img.SetCString(img.Layout().HeapOff, "hello", 64); err != nil {
		t.Fatal(err)
	}
	s, err := img.GetCString(img.Layout().HeapOff, 64)
	if err != nil || s != "hello" {
		t.Fatalf("GetCString = %q, %v; want hello, nil", s, err)
	}
}

func TestOutOfBoundsAccessIsFatal(t *testing.T) {
	img := newTestImage(t)
	_, err := img.Byte(img.Len() + 100)
	if !isFatalErr(err) {
		t.Fatalf("expected fatal error for out-of-bounds byte access, got %v", err)
	}
}

func isFatalErr(err error) bool {
	return vmerr.IsFatal(err)
}

func TestMem16RoundTrip(t *testing.T) {
	img := newTestImage(t)
	if err := img.SetVar32(5, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	snapshot := append([]byte(nil), img.Mem16()...)

	// overwrite the whole image with 0xaa, then restore
	for i := range img.Raw() {
		img.Raw()[i] = 0xaa
	}
	if err := img.SetMem16(snapshot); err != nil {
		t.Fatal(err)
	}
	got := img.Mem16()
	for i := range snapshot {
		if got[i] != snapshot[i] {
			t.Fatalf("mem16 byte %d = %#x, want %#x", i, got[i], snapshot[i])
		}
	}
}
