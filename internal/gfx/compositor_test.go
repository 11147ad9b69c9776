package gfx

import (
	"bytes"
	"testing"
)

func newTestCompositor() *Compositor {
	var sizes [MaxSurfaces][2]int
	sizes[0] = [2]int{16, 16}
	sizes[1] = [2]int{16, 16}
	return NewCompositor(FormatIndexed8, sizes, 0)
}

func TestCopySwapIsSelfIdentity(t *testing.T) {
	c := newTestCompositor()
	rect := Rect{X: 0, Y: 0, W: 16, H: 16}
	if err := c.Fill(0, rect, 0x07); err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), c.Surfaces[0].Pixels...)
	if err := c.CopySwap(0, 0, rect); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, c.Surfaces[0].Pixels) {
		t.Fatal("copy_swap(S,R,S,R) must be the identity")
	}
}

func TestCopySwapTwiceIsIdentity(t *testing.T) {
	c := newTestCompositor()
	rect := Rect{X: 0, Y: 0, W: 16, H: 16}
	if err := c.Fill(0, rect, 0x03); err != nil {
		t.Fatal(err)
	}
	if err := c.Fill(1, rect, 0x09); err != nil {
		t.Fatal(err)
	}
	beforeA := append([]byte(nil), c.Surfaces[0].Pixels...)
	beforeB := append([]byte(nil), c.Surfaces[1].Pixels...)

	if err := c.CopySwap(0, 1, rect); err != nil {
		t.Fatal(err)
	}
	if err := c.CopySwap(0, 1, rect); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(beforeA, c.Surfaces[0].Pixels) || !bytes.Equal(beforeB, c.Surfaces[1].Pixels) {
		t.Fatal("copy_swap applied twice must be the identity")
	}
}

func TestCopyMaskedRoundTrip(t *testing.T) {
	c := newTestCompositor()
	rect := Rect{X: 0, Y: 0, W: 16, H: 16}
	if err := c.Fill(0, rect, 5); err != nil {
		t.Fatal(err)
	}
	if err := c.Fill(1, rect, 0); err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), c.Surfaces[1].Pixels...)

	if err := c.CopyMasked(0, 1, rect, 0, 0, 5); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, c.Surfaces[1].Pixels) {
		t.Fatal("copy_masked with every source pixel equal to the mask colour must leave dst unchanged")
	}
}

func TestBlendZeroAlphaIsNoop(t *testing.T) {
	c := newTestCompositor()
	rect := Rect{X: 0, Y: 0, W: 16, H: 16}
	c.Surfaces[0] = NewSurface(16, 16, FormatRGB24)
	c.Surfaces[1] = NewSurface(16, 16, FormatRGB24)
	if err := c.Fill(0, rect, 0x00ff0000); err != nil {
		t.Fatal(err)
	}
	if err := c.Fill(1, rect, 0x0000ff00); err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), c.Surfaces[1].Pixels...)

	if err := c.Blend(0, 1, rect, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, c.Surfaces[1].Pixels) {
		t.Fatal("blend with alpha=0 must leave dst unchanged")
	}
}

func TestBlendFullAlphaEqualsCopy(t *testing.T) {
	c := newTestCompositor()
	rect := Rect{X: 0, Y: 0, W: 16, H: 16}
	c.Surfaces[0] = NewSurface(16, 16, FormatRGB24)
	c.Surfaces[1] = NewSurface(16, 16, FormatRGB24)
	c2 := newTestCompositor()
	c2.Surfaces[0] = NewSurface(16, 16, FormatRGB24)
	c2.Surfaces[1] = NewSurface(16, 16, FormatRGB24)

	if err := c.Fill(0, rect, 0x00ff8040); err != nil {
		t.Fatal(err)
	}
	if err := c2.Fill(0, rect, 0x00ff8040); err != nil {
		t.Fatal(err)
	}

	if err := c.Blend(0, 1, rect, 0, 0, 255); err != nil {
		t.Fatal(err)
	}
	if err := c2.Copy(0, 1, rect, 0, 0); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(c.Surfaces[1].Pixels, c2.Surfaces[1].Pixels) {
		t.Fatal("blend with alpha=255 must equal copy pixel-for-pixel")
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	var p Palette
	want := Color{R: 10, G: 20, B: 30}
	p.Set(42, want)
	got := p.Get(42)
	if got != want {
		t.Fatalf("palette round trip: got %+v, want %+v", got, want)
	}
}

func TestFillClipsToEmptyWithoutPanic(t *testing.T) {
	c := newTestCompositor()
	if err := c.Fill(0, Rect{X: 100, Y: 100, W: 10, H: 10}, 1); err != nil {
		t.Fatal(err)
	}
}
