// Package gfx implements the software 2-D compositor described in spec
// §4.4: a fixed vector of pixel surfaces addressed by index, blit/blend/
// effect primitives over them, and a present pipeline that assembles the
// screen surface into a display buffer.
package gfx

// Format distinguishes the two pixel formats a title is fixed at (spec
// §4.4).
type Format int

const (
	// FormatIndexed8 is indexed 8-bit colour against the process-wide
	// palette.
	FormatIndexed8 Format = iota
	// FormatRGB24 is direct-colour, 3 bytes per pixel.
	FormatRGB24
	// FormatBGR555 is direct-colour, 2 bytes per pixel (5-5-5 plus an
	// unused high bit).
	FormatBGR555
)

// BytesPerPixel returns the storage width of one pixel in this format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatIndexed8:
		return 1
	case FormatBGR555:
		return 2
	case FormatRGB24:
		return 3
	default:
		return 1
	}
}

// Surface is one software off-screen pixel buffer (spec §3 "Surfaces").
type Surface struct {
	Width, Height int
	Format        Format

	Pixels []byte

	// Dirty and Damage track the accumulated rectangle written since the
	// last present (spec §4.4 "Dirty tracking").
	Dirty  bool
	Damage Rect

	// SrcRect/DstRect/Scaled support integer scaling to the screen (spec
	// §3 "Surfaces").
	SrcRect Rect
	DstRect Rect
	Scaled  bool
}

// NewSurface allocates a zeroed surface of the given size and format.
func NewSurface(w, h int, format Format) *Surface {
	return &Surface{
		Width:  w,
		Height: h,
		Format: format,
		Pixels: make([]byte, w*h*format.BytesPerPixel()),
		SrcRect: Rect{X: 0, Y: 0, W: w, H: h},
		DstRect: Rect{X: 0, Y: 0, W: w, H: h},
	}
}

func (s *Surface) bpp() int { return s.Format.BytesPerPixel() }

func (s *Surface) offset(x, y int) int { return (y*s.Width + x) * s.bpp() }

// markDamage unions rect into the surface's accumulated damage and sets
// the dirty flag (spec §4.4 "Dirty tracking").
func (s *Surface) markDamage(rect Rect) {
	if rect.Empty() {
		return
	}
	if !s.Dirty {
		s.Damage = rect
		s.Dirty = true
		return
	}
	x0 := min(s.Damage.X, rect.X)
	y0 := min(s.Damage.Y, rect.Y)
	x1 := max(s.Damage.X+s.Damage.W, rect.X+rect.W)
	y1 := max(s.Damage.Y+s.Damage.H, rect.Y+rect.H)
	s.Damage = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ClearDamage resets the dirty flag after a present.
func (s *Surface) ClearDamage() {
	s.Dirty = false
	s.Damage = Rect{}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
