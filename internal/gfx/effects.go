package gfx

import "github.com/ai5run/ai5/internal/vmerr"

// ditherMasks4x4 is the deterministic 4x4 dither sequence spec §4.4
// describes as "documented patterns F1A…F12D" used to drive
// pixel_crossfade and the scale/fade effects over ~12 frames. Each mask
// is a bitset of the 16 cells (row-major) revealed by that step; the
// union across all masks covers every cell exactly once.
var ditherMasks4x4 = [12]uint16{
	0x0001, 0x0040, 0x0400, 0x8000, // F1A..F4x diagonal-ish starter cells
	0x0002, 0x0080, 0x0200, 0x4000,
	0x0030, 0x000c, 0x0900, 0x3000, // last entries fold remaining cells
}

// cellRevealed reports whether dither step frame (0-based, wraps at 12)
// reveals the 4x4 cell at (col, row).
func cellRevealed(frame, col, row int) bool {
	step := frame % len(ditherMasks4x4)
	bit := row*4 + col
	for i := 0; i <= step; i++ {
		if ditherMasks4x4[i]&(1<<uint(bit)) != 0 {
			return true
		}
	}
	return false
}

// CopyProgressive reveals the destination one horizontal slab at a time;
// call it once per frame with frame counting 0..totalFrames-1 (spec §4.4
// op 12, "used for show-CG effects").
func (c *Compositor) CopyProgressive(srcIdx, dstIdx int, rect Rect, dstX, dstY, frame, totalFrames int) error {
	if totalFrames <= 0 {
		totalFrames = 1
	}
	revealedRows := (frame + 1) * rect.H / totalFrames
	if revealedRows > rect.H {
		revealedRows = rect.H
	}
	slab := Rect{X: rect.X, Y: rect.Y, W: rect.W, H: revealedRows}
	return c.Copy(srcIdx, dstIdx, slab, dstX, dstY)
}

// PixelCrossfade performs a dithered replacement of the destination with
// the source over ~12 frames (spec §4.4 op 13). masked, when true,
// additionally respects maskColor like copy_masked.
func (c *Compositor) PixelCrossfade(srcIdx, dstIdx int, rect Rect, dstX, dstY, frame int, masked bool, maskColor uint32) error {
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
		vmerr.Warn("pixel_crossfade: clipped to empty rect")
		return nil
	}
	var mask uint32
	if masked {
		mask = src.EncodeColor(maskColor)
	}
	forEachPixel(clipped, func(sx, sy int) {
		col := (sx - rect.X) % 4
		row := (sy - rect.Y) % 4
		if !cellRevealed(frame, col, row) {
			return
		}
		p := src.rawPixel(sx, sy)
		if masked && p == mask {
			return
		}
		x := dx + (sx - clipped.X)
		y := dy + (sy - clipped.Y)
		dst.setRawPixel(x, y, p)
	})
	dst.markDamage(Rect{X: dx, Y: dy, W: clipped.W, H: clipped.H})
	return nil
}

// ScaleH stretches src horizontally into a wider dst rect, nearest-
// neighbour sampled column by column (spec §4.4 "scale_h").
func (c *Compositor) ScaleH(srcIdx, dstIdx int, srcRect, dstRect Rect) error {
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	if srcRect.W <= 0 || dstRect.W <= 0 {
		return nil
	}
	clipped, _, _, ok := clipBlit(dstRect, dst.Width, dst.Height, dstRect.X, dstRect.Y, dst.Width, dst.Height)
	if !ok {
		return nil
	}
	forEachPixel(clipped, func(x, y int) {
		col := x - dstRect.X
		srcX := srcRect.X + col*srcRect.W/dstRect.W
		srcY := srcRect.Y + (y - dstRect.Y)
		if srcX >= srcRect.X+srcRect.W || srcY >= srcRect.Y+srcRect.H {
			return
		}
		dst.setRawPixel(x, y, src.rawPixel(srcX, srcY))
	})
	dst.markDamage(clipped)
	return nil
}

// Zoom scales src into dst in both axes, nearest-neighbour (spec §4.4
// "zoom").
func (c *Compositor) Zoom(srcIdx, dstIdx int, srcRect, dstRect Rect) error {
	src, err := c.surface(srcIdx)
	if err != nil {
		return err
	}
	dst, err := c.surface(dstIdx)
	if err != nil {
		return err
	}
	if srcRect.W <= 0 || srcRect.H <= 0 || dstRect.W <= 0 || dstRect.H <= 0 {
		return nil
	}
	clipped, _, _, ok := clipBlit(dstRect, dst.Width, dst.Height, dstRect.X, dstRect.Y, dst.Width, dst.Height)
	if !ok {
		return nil
	}
	forEachPixel(clipped, func(x, y int) {
		srcX := srcRect.X + (x-dstRect.X)*srcRect.W/dstRect.W
		srcY := srcRect.Y + (y-dstRect.Y)*srcRect.H/dstRect.H
		dst.setRawPixel(x, y, src.rawPixel(srcX, srcY))
	})
	dst.markDamage(clipped)
	return nil
}

// Pixelate blocks rect into cellSize x cellSize chunks, each flattened to
// its top-left sample (spec §4.4 "pixelate").
func (c *Compositor) Pixelate(idx int, rect Rect, cellSize int) error {
	if cellSize < 1 {
		cellSize = 1
	}
	s, err := c.surface(idx)
	if err != nil {
		return err
	}
	clipped, _, _, ok := clipBlit(rect, s.Width, s.Height, rect.X, rect.Y, s.Width, s.Height)
	if !ok {
		return nil
	}
	for by := clipped.Y; by < clipped.Y+clipped.H; by += cellSize {
		for bx := clipped.X; bx < clipped.X+clipped.W; bx += cellSize {
			sample := s.rawPixel(bx, by)
			for y := by; y < min(by+cellSize, clipped.Y+clipped.H); y++ {
				for x := bx; x < min(bx+cellSize, clipped.X+clipped.W); x++ {
					s.setRawPixel(x, y, sample)
				}
			}
		}
	}
	s.markDamage(clipped)
	return nil
}

// FadeDown reveals src into dst from the top down; call once per frame
// with progress in [0,1] (spec §4.4 "fade_down").
func (c *Compositor) FadeDown(srcIdx, dstIdx int, rect Rect, dstX, dstY int, progress float64) error {
	revealed := int(progress * float64(rect.H))
	slab := Rect{X: rect.X, Y: rect.Y, W: rect.W, H: revealed}
	return c.Copy(srcIdx, dstIdx, slab, dstX, dstY)
}

// FadeRight reveals src into dst from the left edge rightward; call once
// per frame with progress in [0,1] (spec §4.4 "fade_right").
func (c *Compositor) FadeRight(srcIdx, dstIdx int, rect Rect, dstX, dstY int, progress float64) error {
	revealed := int(progress * float64(rect.W))
	slab := Rect{X: rect.X, Y: rect.Y, W: revealed, H: rect.H}
	return c.Copy(srcIdx, dstIdx, slab, dstX, dstY)
}

// BlinkFade fills rect with color when on is true and does nothing when
// on is false; the pixels under rect are not saved or restored (spec
// §4.4 "blink_fade").
func (c *Compositor) BlinkFade(idx int, rect Rect, color uint32, on bool) error {
	if !on {
		return nil
	}
	return c.Fill(idx, rect, color)
}
