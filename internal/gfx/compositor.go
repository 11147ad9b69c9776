package gfx

import "github.com/ai5run/ai5/internal/vmerr"

// MaxSurfaces is the fixed surface vector size from spec §3 ("up to 13").
const MaxSurfaces = 13

// Compositor owns the fixed surface vector and the active palette and
// implements the blit/blend/effect primitives of spec §4.4.
type Compositor struct {
	Surfaces    [MaxSurfaces]*Surface
	Palette     Palette
	ScreenIndex int
	// Overlay is the optional auxiliary RGBA surface used for text
	// composition (spec §3 "one auxiliary RGBA overlay may exist").
	Overlay *Surface
}

// NewCompositor allocates a Compositor with the given per-surface sizes.
// sizes[i] of zero width leaves that slot nil.
func NewCompositor(format Format, sizes [MaxSurfaces][2]int, screenIndex int) *Compositor {
	c := &Compositor{ScreenIndex: screenIndex}
	for i, wh := range sizes {
		if wh[0] > 0 && wh[1] > 0 {
			c.Surfaces[i] = NewSurface(wh[0], wh[1], format)
		}
	}
	return c
}

func (c *Compositor) surface(idx int) (*Surface, error) {
	if idx < 0 || idx >= MaxSurfaces || c.Surfaces[idx] == nil {
		return nil, vmerr.NewFatal(0, "", nil, "invalid surface index %d", idx)
	}
	return c.Surfaces[idx], nil
}

// Copy is a straight blit (spec §4.4 op 1).
func (c *Compositor) Copy(srcIdx, dstIdx int, srcRect Rect, dstX, dstY int) error {
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	clipped, dx, dy, ok := clipBlit(srcRect, src.Width, src.Height, dstX, dstY, dst.Width, dst.Height)
	if !ok {
		vmerr.Warn("copy: clipped to empty rect")
		return nil
	}
	forEachPixel(clipped, func(sx, sy int) {
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		dst.setRawPixel(x, y, src.rawPixel(sx, sy))
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

// CopyMasked blits skipping source pixels equal to maskColor (spec §4.4
// op 2).
func (c *Compositor) CopyMasked(srcIdx, dstIdx int, srcRect Rect, dstX, dstY int, maskColor uint32) error {
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	clipped, dx, dy, ok := clipBlit(srcRect, src.Width, src.Height, dstX, dstY, dst.Width, dst.Height)
	if !ok {
		vmerr.Warn("copy_masked: clipped to empty rect")
		return nil
	}
	mask := src.EncodeColor(maskColor)
	forEachPixel(clipped, func(sx, sy int) {
		p := src.rawPixel(sx, sy)
		if p == mask {
			return
		}
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		dst.setRawPixel(x, y, p)
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

// CopySwap exchanges pixels between the two rects in place (spec §4.4
// op 3). Applying it twice to the same pair is the identity, and applying
// it to a surface/rect against itself is the identity.
func (c *Compositor) CopySwap(aIdx, bIdx int, rect Rect) error {
	a, err := c.surface(aIdx)
	if err != nil {
		return err
	}
	b, err := c.surface(bIdx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, a.Width, a.Height, rect.X, rect.Y, b.Width, b.Height)
	if !ok {
		vmerr.Warn("copy_swap: clipped to empty rect")
		return nil
	}
	forEachPixel(clipped, func(x, y int) {
		pa := a.rawPixel(x, y)
		pb := b.rawPixel(x, y)
		a.setRawPixel(x, y, pb)
		b.setRawPixel(x, y, pa)
	})
	a.markDamage(clipped)
	b.markDamage(clipped)
	return nil
}

// Compose blits bg then copy_masked(fg), so the masked colour of fg is
// replaced by bg at the destination (spec §4.4 op 4).
func (c *Compositor) Compose(bgIdx, fgIdx, dstIdx int, rect Rect, dstX, dstY int, maskColor uint32) error {
	if err := c.Copy(bgIdx, dstIdx, rect, dstX, dstY); err != nil {
		return err
	}
	return c.CopyMasked(fgIdx, dstIdx, rect, dstX, dstY, maskColor)
}

// Blend computes dst = (alpha*src + (256-alpha)*dst) >> 8 per channel
// (spec §4.4 op 5). Alpha 0 is a no-op, 255 is a full replacement.
func (c *Compositor) Blend(srcIdx, dstIdx int, srcRect Rect, dstX, dstY int, alpha byte) error {
	if alpha == 0 {
		return nil
	}
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	if alpha == 255 {
		return c.Copy(srcIdx, dstIdx, srcRect, dstX, dstY)
	}
	clipped, dx, dy, ok := clipBlit(srcRect, src.Width, src.Height, dstX, dstY, dst.Width, dst.Height)
	if !ok {
		vmerr.Warn("blend: clipped to empty rect")
		return nil
	}
	a := uint32(alpha)
	forEachPixel(clipped, func(sx, sy int) {
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		sc0, sc1, sc2 := src.channels(src.rawPixel(sx, sy))
		dc0, dc1, dc2 := dst.channels(dst.rawPixel(x, y))
		blend1 := func(s, d byte) byte { return byte((a*uint32(s) + (256-a)*uint32(d)) >> 8) }
		dst.setRawPixel(x, y, dst.fromChannels(blend1(sc0, dc0), blend1(sc1, dc1), blend1(sc2, dc2)))
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

// BlendMasked reads a per-pixel alpha level from maskBytes (one byte
// per destination pixel, row-major over rect) and blends accordingly:
// 0 skips, >15 is a full copy, otherwise alpha = m*16-8 (spec §4.4 op 6).
func (c *Compositor) BlendMasked(srcIdx, dstIdx int, rect Rect, dstX, dstY int, maskBytes []byte) error {
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	clipped, dx, dy, ok := clipBlit(rect, src.Width, src.Height, dstX, dstY, dst.Width, dst.Height)
	if !ok {
		vmerr.Warn("blend_masked: clipped to empty rect")
		return nil
	}
	forEachPixel(clipped, func(sx, sy int) {
		row := sy - rect.Y
		col := sx - rect.X
		idx := row*rect.W + col
		if idx < 0 || idx >= len(maskBytes) {
			return
		}
		m := maskBytes[idx]
		if m == 0 {
			return
		}
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		if m > 15 {
			dst.setRawPixel(x, y, src.rawPixel(sx, sy))
			return
		}
		alpha := byte(int(m)*16 - 8)
		sc0, sc1, sc2 := src.channels(src.rawPixel(sx, sy))
		dc0, dc1, dc2 := dst.channels(dst.rawPixel(x, y))
		a := uint32(alpha)
		blend1 := func(s, d byte) byte { return byte((a*uint32(s) + (256-a)*uint32(d)) >> 8) }
		dst.setRawPixel(x, y, dst.fromChannels(blend1(sc0, dc0), blend1(sc1, dc1), blend1(sc2, dc2)))
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

// InvertColors flips every index's low nibble (indexed-format op 7).
func (c *Compositor) InvertColors(idx int, rect Rect) error {
	s, err := c.surface(idx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, s.Width, s.Height, rect.X, rect.Y, s.Width, s.Height)
	if !ok {
		return nil
	}
	forEachPixel(clipped, func(x, y int) {
		v := s.rawPixel(x, y)
		s.setRawPixel(x, y, v^0x0f)
	})
	s.markDamage(clipped)
	return nil
}

// Fill sets every pixel in rect to c (spec §4.4 op 8).
func (c *Compositor) Fill(idx int, rect Rect, color uint32) error {
	s, err := c.surface(idx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, s.Width, s.Height, rect.X, rect.Y, s.Width, s.Height)
	if !ok {
		vmerr.Warn("fill: clipped to empty rect")
		return nil
	}
	v := s.EncodeColor(color)
	forEachPixel(clipped, func(x, y int) {
		s.setRawPixel(x, y, v)
	})
	s.markDamage(clipped)
	return nil
}

// SwapColors recolours pixels equal to c1 to c2 and vice versa (spec §4.4
// op 9).
func (c *Compositor) SwapColors(idx int, rect Rect, color1, color2 uint32) error {
	s, err := c.surface(idx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, s.Width, s.Height, rect.X, rect.Y, s.Width, s.Height)
	if !ok {
		return nil
	}
	v1 := s.EncodeColor(color1)
	v2 := s.EncodeColor(color2)
	forEachPixel(clipped, func(x, y int) {
		v := s.rawPixel(x, y)
		switch v {
		case v1:
			s.setRawPixel(x, y, v2)
		case v2:
			s.setRawPixel(x, y, v1)
		}
	})
	s.markDamage(clipped)
	return nil
}

// BlendFill blends a solid colour across rect at the given rate
// (0-255), i.e. fill(c) composited with Blend semantics (spec §4.4
// op 10).
func (c *Compositor) BlendFill(idx int, rect Rect, color uint32, rate byte) error {
	s, err := c.surface(idx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, s.Width, s.Height, rect.X, rect.Y, s.Width, s.Height)
	if !ok {
		return nil
	}
	r := byte(color >> 16)
	g := byte(color >> 8)
	b := byte(color)
	var cc0, cc1, cc2 byte
	switch s.Format {
	case FormatRGB24:
		cc0, cc1, cc2 = b, g, r
	case FormatBGR555:
		cc0, cc1, cc2 = b>>3, g>>3, r>>3
	default:
		cc0, cc1, cc2 = byte(color), 0, 0
	}
	a := uint32(rate)
	forEachPixel(clipped, func(x, y int) {
		dc0, dc1, dc2 := s.channels(s.rawPixel(x, y))
		blend1 := func(sv, d byte) byte { return byte((a*uint32(sv) + (256-a)*uint32(d)) >> 8) }
		s.setRawPixel(x, y, s.fromChannels(blend1(cc0, dc0), blend1(cc1, dc1), blend1(cc2, dc2)))
	})
	s.markDamage(clipped)
	return nil
}

// CG is a decoded graphic ready to be blitted at its own position (spec
// §4.8 "cg_load(name) -> CG").
type CG struct {
	X, Y, W, H int
	Format     Format
	Pixels     []byte
}

// DrawCG blits a decoded graphic at its own (x,y,w,h) (spec §4.4 op 11).
func (c *Compositor) DrawCG(dstIdx int, cg *CG) error {
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	src := &Surface{Width: cg.W, Height: cg.H, Format: cg.Format, Pixels: cg.Pixels}
	clipped, dx, dy, ok := clipBlit(Rect{X: 0, Y: 0, W: cg.W, H: cg.H}, cg.W, cg.H, cg.X, cg.Y, dst.Width, dst.Height)
	if !ok {
		vmerr.Warn("draw_cg: clipped to empty rect")
		return nil
	}
	forEachPixel(clipped, func(sx, sy int) {
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		dst.setRawPixel(x, y, src.rawPixel(sx, sy))
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

func forEachPixel(r Rect, f func(x, y int)) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			f(x, y)
		}
	}
}
