// Package text implements the glyph renderer of spec §4.5: a font cache,
// indexed and direct-colour draw paths, line wrapping, and the backlog
// ring buffer spec §4.3/§4.6 reference as a shared syscall surface.
package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ai5run/ai5/internal/gfx"
)

// AdvanceFunc overrides the rasteriser's advance per glyph. The English
// YU-NO patch installs one of these that substitutes a proportional table
// for the half-width ASCII range (spec §4.5, §9 "Text rendering
// subtleties").
type AdvanceFunc func(r rune, defaultAdvance fixed.Int26_6) fixed.Int26_6

// Cache maps a font size to a rasteriser face (spec §4.5 "A font cache
// maps (size) -> rasteriser handles (regular and outlined)").
//
// golang.org/x/image/font/basicfont ships a single fixed-size face; a
// title-supplied TTF loader can substitute any font.Face satisfying the
// same interface, which is why Cache keys on a font.Face factory rather
// than hard-coding basicfont.
type Cache struct {
	faces   map[int]font.Face
	factory func(size int) font.Face
	advance AdvanceFunc
}

// NewCache builds a Cache. factory produces a font.Face for a given point
// size; callers without a real TTF loader can pass a closure that always
// returns basicfont.Face7x13 regardless of size, as a minimal default.
func NewCache(factory func(size int) font.Face) *Cache {
	return &Cache{faces: make(map[int]font.Face), factory: factory}
}

// DefaultFactory returns golang.org/x/image's basicfont 7x13 bitmap face regardless
// of requested size, used when no title-specific TTF is configured.
func DefaultFactory(size int) font.Face {
	return basicfont.Face7x13
}

// SetAdvanceOverride installs a custom advance function (spec §9).
func (c *Cache) SetAdvanceOverride(f AdvanceFunc) { c.advance = f }

// Face returns (creating and caching if necessary) the face for size.
func (c *Cache) Face(size int) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := c.factory(size)
	c.faces[size] = f
	return f
}

func (c *Cache) advanceFor(r rune, face font.Face) fixed.Int26_6 {
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		adv = face.Metrics().Height
	}
	if c.advance != nil {
		return c.advance(r, adv)
	}
	return adv
}

// Renderer draws glyphs into gfx.Surfaces using Cache, following the two
// paths spec §4.5 distinguishes.
type Renderer struct {
	Cache *Cache

	// NoAntialiasText mirrors the per-title boolean of the same name in
	// dispatch.Game; when true, indexed rendering never blends partial
	// coverage, only full/empty pixels.
	NoAntialiasText bool

	// NoShadow disables the direct-colour outline pass for titles that
	// draw flat text.
	NoShadow bool
}

// NewRenderer builds a Renderer over cache.
func NewRenderer(cache *Cache) *Renderer {
	return &Renderer{Cache: cache}
}

// DrawIndexed renders s at (x,y) into dst (an indexed-format surface) in
// colour index fg, preserving the palette index bit-for-bit: every glyph
// pixel with non-zero coverage is written as fg, never alpha-blended (spec §4.5
// "manually blit only non-zero pixels... so that the palette index is
// preserved bit-for-bit"; spec §9 "Indexed text must never go through
// alpha-blend").
func (r *Renderer) DrawIndexed(dst *gfx.Surface, x, y, size int, s string, fg byte) int {
	face := r.Cache.Face(size)
	pen := fixed.P(x, y)
	advanced := 0
	for _, ch := range s {
		dr, mask, maskp, advance, ok := face.Glyph(pen, ch)
		if !ok {
			continue
		}
		for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
			for gx := dr.Min.X; gx < dr.Max.X; gx++ {
				mx := maskp.X + (gx - dr.Min.X)
				my := maskp.Y + (gy - dr.Min.Y)
				_, _, _, a := mask.At(mx, my).RGBA()
				if a == 0 {
					continue
				}
				if gx < 0 || gy < 0 || gx >= dst.Width || gy >= dst.Height {
					continue
				}
				dst.Pixels[(gy*dst.Width+gx)*dst.Format.BytesPerPixel()] = fg
			}
		}
		pen.X += r.Cache.advanceFor(ch, face)
		advanced += int(advance >> 6)
	}
	return advanced
}

// DrawDirectColor renders s at (x,y) into dst (a direct-colour surface),
// outlining with bg at (-1,-1) then filling with fg at (0,0), unless
// r.NoShadow is set (spec §4.5 "Direct-colour").
func (r *Renderer) DrawDirectColor(dst *gfx.Surface, x, y, size int, s string, fg, bg uint32) int {
	face := r.Cache.Face(size)
	if !r.NoShadow {
		r.blitString(dst, face, x-1, y-1, s, bg)
	}
	return r.blitString(dst, face, x, y, s, fg)
}

func (r *Renderer) blitString(dst *gfx.Surface, face font.Face, x, y int, s string, color uint32) int {
	pen := fixed.P(x, y)
	total := 0
	encoded := dst.EncodeColor(color)
	for _, ch := range s {
		dr, mask, maskp, advance, ok := face.Glyph(pen, ch)
		if !ok {
			continue
		}
		for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
			for gx := dr.Min.X; gx < dr.Max.X; gx++ {
				mx := maskp.X + (gx - dr.Min.X)
				my := maskp.Y + (gy - dr.Min.Y)
				_, _, _, a := mask.At(mx, my).RGBA()
				if a == 0 {
					continue
				}
				if gx < 0 || gy < 0 || gx >= dst.Width || gy >= dst.Height {
					continue
				}
				setRawPixelDirect(dst, gx, gy, encoded)
			}
		}
		pen.X += r.Cache.advanceFor(ch, face)
		total += int(advance >> 6)
	}
	return total
}

// setRawPixelDirect writes a pre-encoded native colour value directly,
// avoiding a second EncodeColor call per glyph pixel.
func setRawPixelDirect(dst *gfx.Surface, x, y int, encoded uint32) {
	bpp := dst.Format.BytesPerPixel()
	off := (y*dst.Width + x) * bpp
	for i := 0; i < bpp; i++ {
		dst.Pixels[off+i] = byte(encoded >> (8 * i))
	}
}
