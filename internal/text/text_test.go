package text

import (
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ai5run/ai5/internal/gfx"
)

func newIndexedSurface() *gfx.Surface {
	return gfx.NewSurface(64, 16, gfx.FormatIndexed8)
}

func TestDrawIndexedWritesRequestedColourIndex(t *testing.T) {
	cache := NewCache(DefaultFactory)
	r := NewRenderer(cache)
	dst := newIndexedSurface()

	advanced := r.DrawIndexed(dst, 0, 12, 13, "A", 7)
	if advanced == 0 {
		t.Fatal("expected a nonzero advance for a printable glyph")
	}

	found := false
	for _, p := range dst.Pixels {
		if p == 7 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("DrawIndexed did not set any pixel to the requested colour index")
	}
}

func TestDrawIndexedLeavesUntouchedPixelsZero(t *testing.T) {
	cache := NewCache(DefaultFactory)
	r := NewRenderer(cache)
	dst := newIndexedSurface()

	r.DrawIndexed(dst, 0, 12, 13, " ", 7)
	for _, p := range dst.Pixels {
		if p != 0 {
			t.Fatal("a space glyph must not touch any pixel")
		}
	}
}

func TestDrawDirectColorNoShadowSkipsOutlinePass(t *testing.T) {
	cache := NewCache(DefaultFactory)
	r := NewRenderer(cache)
	r.NoShadow = true
	dst := gfx.NewSurface(64, 16, gfx.FormatRGB24)

	r.DrawDirectColor(dst, 4, 12, 13, "A", 0x00ffffff, 0x00000000)

	for i := 0; i < len(dst.Pixels); i += 3 {
		rr, gg, bb := dst.Pixels[i], dst.Pixels[i+1], dst.Pixels[i+2]
		if rr != 0 && (rr != 255 || gg != 255 || bb != 255) {
			t.Fatalf("unexpected colour with shadow disabled: %d %d %d", rr, gg, bb)
		}
	}
}

func TestCacheFaceIsMemoized(t *testing.T) {
	calls := 0
	cache := NewCache(func(size int) font.Face {
		calls++
		return DefaultFactory(size)
	})
	cache.Face(13)
	cache.Face(13)
	if calls != 1 {
		t.Fatalf("Face must memoize per size, factory called %d times", calls)
	}
}

func TestAdvanceOverrideIsApplied(t *testing.T) {
	cache := NewCache(DefaultFactory)
	face := cache.Face(13)
	base := cache.advanceFor('A', face)
	cache.SetAdvanceOverride(func(r rune, def fixed.Int26_6) fixed.Int26_6 {
		return def * 2
	})
	doubled := cache.advanceFor('A', face)
	if doubled != base*2 {
		t.Fatalf("advance override not applied: got %v, want %v", doubled, base*2)
	}
}
