package gfx

// HostWindow is the narrow surface the compositor presents finished
// frames to. internal/pixel.Window implements this over a faiface/pixel
// window (spec §4.8 "Host window").
type HostWindow interface {
	// Upload receives a tightly packed RGB24 frame of the given size
	// and requests a host flip.
	Upload(rgb []byte, w, h int)
}

// Display holds the present-time state spec §4.4 describes: freeze,
// hide, and fade.
type Display struct {
	Frozen    bool
	hideColor uint32
	hidden    bool
	fade      *fadeState
}

type fadeState struct {
	color      uint32
	elapsedMS  int
	totalMS    int
	fadingIn   bool
	cancel     func() bool
}

// Freeze suppresses presents until Unfreeze (spec §4.4 "display_freeze").
func (d *Display) Freeze()   { d.Frozen = true }
func (d *Display) Unfreeze() { d.Frozen = false }

// Hide records color and freezes presents until Show, so the last
// presented frame stays on screen. The recorded colour is not drawn:
// Present neither fills the screen with it nor reads it.
func (d *Display) Hide(color uint32) {
	d.hideColor = color
	d.hidden = true
	d.Frozen = true
}

// Show releases a prior Hide.
func (d *Display) Show() {
	d.hidden = false
	d.Frozen = false
}

// StartFadeOut begins a fade towards a solid colour over ms
// milliseconds, with an optional cancel poll. TickFade computes the
// blend alpha of each step; Present does not apply it to the frame.
func (d *Display) StartFadeOut(color uint32, ms int, cancel func() bool) {
	d.fade = &fadeState{color: color, totalMS: ms, fadingIn: false, cancel: cancel}
}

// StartFadeIn begins the inverse transition, from a solid colour back to
// the live frame.
func (d *Display) StartFadeIn(color uint32, ms int, cancel func() bool) {
	d.fade = &fadeState{color: color, totalMS: ms, fadingIn: true, cancel: cancel}
}

// TickFade advances the active fade by deltaMS and reports whether it
// has completed (spec §5 "Cancellation": "Fades take an optional
// callback that, when it returns false, commits the end-state
// immediately").
func (d *Display) TickFade(deltaMS int) (alpha byte, active bool) {
	f := d.fade
	if f == nil {
		return 0, false
	}
	if f.cancel != nil && !f.cancel() {
		d.fade = nil
		if f.fadingIn {
			return 0, false
		}
		return 255, false
	}
	f.elapsedMS += deltaMS
	if f.elapsedMS >= f.totalMS {
		d.fade = nil
		if f.fadingIn {
			return 0, false
		}
		return 255, false
	}
	t := byte(f.elapsedMS * 255 / max(f.totalMS, 1))
	if f.fadingIn {
		return 255 - t, true
	}
	return t, true
}

// Present builds the final frame from the screen surface and uploads it
// to win, unless frozen (spec §4.4 "Present"). It converts every pixel to
// RGB24 via the active palette (for indexed surfaces) or direct decode,
// composites the overlay if present, and clears the screen surface's
// damage.
func (c *Compositor) Present(win HostWindow, d *Display) {
	if d.Frozen {
		return
	}
	screen, err := c.surface(c.ScreenIndex)
	if err != nil {
		return
	}
	rgb := make([]byte, screen.Width*screen.Height*3)
	for y := 0; y < screen.Height; y++ {
		for x := 0; x < screen.Width; x++ {
			var col Color
			switch screen.Format {
			case FormatIndexed8:
				col = c.Palette.Get(byte(screen.rawPixel(x, y)))
			case FormatRGB24:
				b, g, r := screen.channels(screen.rawPixel(x, y))
				col = Color{R: r, G: g, B: b}
			case FormatBGR555:
				b5, g5, r5 := screen.channels(screen.rawPixel(x, y))
				col = Color{R: r5 << 3, G: g5 << 3, B: b5 << 3}
			}
			off := (y*screen.Width + x) * 3
			rgb[off] = col.R
			rgb[off+1] = col.G
			rgb[off+2] = col.B
		}
	}
	if c.Overlay != nil {
		compositeOverlayRGBA(rgb, screen.Width, screen.Height, c.Overlay)
	}
	win.Upload(rgb, screen.Width, screen.Height)
	screen.ClearDamage()
}

// compositeOverlayRGBA alpha-blends a RGBA overlay surface onto an RGB24
// framebuffer in place.
func compositeOverlayRGBA(rgb []byte, w, h int, overlay *Surface) {
	if overlay.Width != w || overlay.Height != h || overlay.bpp() != 4 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := overlay.offset(x, y)
			r, g, b, a := overlay.Pixels[off], overlay.Pixels[off+1], overlay.Pixels[off+2], overlay.Pixels[off+3]
			if a == 0 {
				continue
			}
			di := (y*w + x) * 3
			blend1 := func(s, d byte) byte { return byte((uint32(a)*uint32(s) + (256-uint32(a))*uint32(d)) >> 8) }
			rgb[di] = blend1(r, rgb[di])
			rgb[di+1] = blend1(g, rgb[di+1])
			rgb[di+2] = blend1(b, rgb[di+2])
		}
	}
}
