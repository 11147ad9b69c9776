package gfx

// Rect is an axis-aligned pixel rectangle, top-left inclusive,
// bottom-right exclusive.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers zero pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// clampToBounds returns the overlap of r with bounds (0,0,w,h), and the
// (dx, dy) translation that was applied to the destination point to keep
// the visible region aligned — spec §4.4 "Negative source offsets
// translate the destination point and vice-versa so that the visible
// intersection is what gets drawn."
func (r Rect) clampToBounds(w, h int) (clamped Rect, dx, dy int) {
	x, y := r.X, r.Y
	rw, rh := r.W, r.H

	if x < 0 {
		dx = -x
		rw += x
		x = 0
	}
	if y < 0 {
		dy = -y
		rh += y
		y = 0
	}
	if x+rw > w {
		rw = w - x
	}
	if y+rh > h {
		rh = h - y
	}
	if rw < 0 {
		rw = 0
	}
	if rh < 0 {
		rh = 0
	}
	return Rect{X: x, Y: y, W: rw, H: rh}, dx, dy
}

// clipBlit clips a blit of srcRect (within a srcW x srcH surface) to a
// destination point (dstX, dstY) within a dstW x dstH surface, returning
// the final (possibly smaller) source rect and destination point such
// that the two describe the same visible intersection (spec §4.4
// "Clipping"). ok is false when the result is zero-area.
func clipBlit(srcRect Rect, srcW, srcH, dstX, dstY, dstW, dstH int) (out Rect, outDstX, outDstY int, ok bool) {
	sr, sdx, sdy := srcRect.clampToBounds(srcW, srcH)
	dstX += sdx
	dstY += sdy

	// Now clip against the destination bounds too.
	destRect := Rect{X: dstX, Y: dstY, W: sr.W, H: sr.H}
	dr, ddx, ddy := destRect.clampToBounds(dstW, dstH)

	sr.X += ddx
	sr.Y += ddy
	sr.W = dr.W
	sr.H = dr.H

	if sr.Empty() {
		return Rect{}, 0, 0, false
	}
	return sr, dr.X, dr.Y, true
}
