package dispatch

import (
	"github.com/ai5run/ai5/internal/gfx"
	"github.com/ai5run/ai5/internal/vm"
	"github.com/ai5run/ai5/internal/vmerr"
)

// reqParams warns and refuses to proceed when a syscall didn't receive
// the parameter count it needs, the same guard Strlen/CursorHitTest
// already use inline, lifted out once the graphics bank needed it at
// every call site.
func reqParams(params []vm.Param, n int, name string) error {
	if len(params) < n {
		return vmerr.NewWarning("%s: expected %d parameters, got %d", name, n, len(params))
	}
	return nil
}

func pint(p vm.Param) int      { return int(p.Value) }
func pu32(p vm.Param) uint32   { return uint32(p.Value) }
func pbyte(p vm.Param) byte    { return byte(p.Value) }

// rectAt reads a (x,y,w,h) rect starting at params[i].
func rectAt(params []vm.Param, i int) gfx.Rect {
	return gfx.Rect{X: pint(params[i]), Y: pint(params[i+1]), W: pint(params[i+2]), H: pint(params[i+3])}
}

// GfxCopy is the straight-blit primitive (spec §4.4 op 1): srcIdx, dstIdx,
// source rect, destination point.
func (c *ClassicUtils) GfxCopy(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 8, "copy"); err != nil {
		return err
	}
	return c.Compositor.Copy(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]))
}

// GfxCopyMasked is op 2: adds a mask colour skipped during the blit.
func (c *ClassicUtils) GfxCopyMasked(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 9, "copy_masked"); err != nil {
		return err
	}
	return c.Compositor.CopyMasked(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), pu32(params[8]))
}

// GfxCopySwap is op 3: exchanges pixels between two rects in place.
func (c *ClassicUtils) GfxCopySwap(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 6, "copy_swap"); err != nil {
		return err
	}
	return c.Compositor.CopySwap(pint(params[0]), pint(params[1]), rectAt(params, 2))
}

// GfxCompose is op 4: blits bg then copy_masked(fg) onto dst.
func (c *ClassicUtils) GfxCompose(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 10, "compose"); err != nil {
		return err
	}
	return c.Compositor.Compose(pint(params[0]), pint(params[1]), pint(params[2]), rectAt(params, 3), pint(params[7]), pint(params[8]), pu32(params[9]))
}

// GfxBlend is op 5: per-channel alpha blend.
func (c *ClassicUtils) GfxBlend(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 9, "blend"); err != nil {
		return err
	}
	return c.Compositor.Blend(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), pbyte(params[8]))
}

// GfxBlendMasked is op 6: per-pixel alpha read from a mask buffer in the
// memory image, one byte per destination pixel, row-major over rect.
func (c *ClassicUtils) GfxBlendMasked(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 9, "blend_masked"); err != nil {
		return err
	}
	rect := rectAt(params, 2)
	maskAddr := pu32(params[8])
	n := rect.W * rect.H
	maskBytes := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := m.Mem().Byte(maskAddr + uint32(i))
		if err != nil {
			return err
		}
		maskBytes[i] = b
	}
	return c.Compositor.BlendMasked(pint(params[0]), pint(params[1]), rect, pint(params[6]), pint(params[7]), maskBytes)
}

// GfxInvertColors is op 7.
func (c *ClassicUtils) GfxInvertColors(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 5, "invert_colors"); err != nil {
		return err
	}
	return c.Compositor.InvertColors(pint(params[0]), rectAt(params, 1))
}

// GfxFill is op 8.
func (c *ClassicUtils) GfxFill(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 6, "fill"); err != nil {
		return err
	}
	return c.Compositor.Fill(pint(params[0]), rectAt(params, 1), pu32(params[5]))
}

// GfxSwapColors is op 9.
func (c *ClassicUtils) GfxSwapColors(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 7, "swap_colors"); err != nil {
		return err
	}
	return c.Compositor.SwapColors(pint(params[0]), rectAt(params, 1), pu32(params[5]), pu32(params[6]))
}

// GfxBlendFill is op 10.
func (c *ClassicUtils) GfxBlendFill(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 7, "blend_fill"); err != nil {
		return err
	}
	return c.Compositor.BlendFill(pint(params[0]), rectAt(params, 1), pu32(params[5]), pbyte(params[6]))
}

// ImageLoad decodes a named CG resource and stashes it as the "currently
// loaded" image, pushing its width/height into var32[0]/var32[1] (spec
// §4.8 "cg_load(name) -> CG"; §4.4 op 11 "draw_cg(cg)" consumes it).
func (c *ClassicUtils) ImageLoad(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 || !params[0].IsString {
		return vmerr.NewWarning("image_load: expected a string parameter")
	}
	cg, err := c.Assets.LoadCG(params[0].Str)
	if err != nil {
		return vmerr.NewWarning("image_load: %v", err)
	}
	c.loadedCG = cg
	if err := m.Mem().SetVar32(0, uint32(cg.Width)); err != nil {
		return err
	}
	return m.Mem().SetVar32(1, uint32(cg.Height))
}

// GfxDrawCG is op 11: blit the most recently ImageLoad'd graphic at its
// own (x,y,w,h) onto dstIdx.
func (c *ClassicUtils) GfxDrawCG(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("draw_cg: missing destination surface index")
	}
	if c.loadedCG == nil {
		return vmerr.NewWarning("draw_cg: no image loaded")
	}
	cg := c.loadedCG
	dstIdx := pint(params[0])
	format := gfx.FormatIndexed8
	if dstIdx >= 0 && dstIdx < gfx.MaxSurfaces && c.Compositor.Surfaces[dstIdx] != nil {
		format = c.Compositor.Surfaces[dstIdx].Format
	}
	return c.Compositor.DrawCG(dstIdx, &gfx.CG{
		X: cg.X, Y: cg.Y, W: cg.Width, H: cg.Height,
		Format: format,
		Pixels: cg.Pixels,
	})
}

// GfxCopyProgressive is op 12.
func (c *ClassicUtils) GfxCopyProgressive(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 10, "copy_progressive"); err != nil {
		return err
	}
	return c.Compositor.CopyProgressive(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), pint(params[8]), pint(params[9]))
}

// GfxPixelCrossfade is op 13.
func (c *ClassicUtils) GfxPixelCrossfade(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 11, "pixel_crossfade"); err != nil {
		return err
	}
	return c.Compositor.PixelCrossfade(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), pint(params[8]), params[9].Value != 0, pu32(params[10]))
}

// GfxScaleH, GfxZoom, GfxPixelate, GfxFadeDown, GfxFadeRight, GfxBlinkFade
// cover spec §4.4 item 14's per-column/row effects.

func (c *ClassicUtils) GfxScaleH(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 10, "scale_h"); err != nil {
		return err
	}
	return c.Compositor.ScaleH(pint(params[0]), pint(params[1]), rectAt(params, 2), rectAt(params, 6))
}

func (c *ClassicUtils) GfxZoom(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 10, "zoom"); err != nil {
		return err
	}
	return c.Compositor.Zoom(pint(params[0]), pint(params[1]), rectAt(params, 2), rectAt(params, 6))
}

func (c *ClassicUtils) GfxPixelate(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 5, "pixelate"); err != nil {
		return err
	}
	return c.Compositor.Pixelate(pint(params[0]), rectAt(params, 1), pint(params[4]))
}

func (c *ClassicUtils) GfxFadeDown(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 9, "fade_down"); err != nil {
		return err
	}
	progress := float64(params[8].Value) / 255
	return c.Compositor.FadeDown(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), progress)
}

func (c *ClassicUtils) GfxFadeRight(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 9, "fade_right"); err != nil {
		return err
	}
	progress := float64(params[8].Value) / 255
	return c.Compositor.FadeRight(pint(params[0]), pint(params[1]), rectAt(params, 2), pint(params[6]), pint(params[7]), progress)
}

func (c *ClassicUtils) GfxBlinkFade(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 6, "blink_fade"); err != nil {
		return err
	}
	return c.Compositor.BlinkFade(pint(params[0]), rectAt(params, 1), pu32(params[5]), true)
}

// --- palette operations (spec §4.4 "Palette operations") ---

// PaletteSetAll replaces the whole palette from a 256x4-byte (BGR+pad)
// buffer at the given image offset.
func (c *ClassicUtils) PaletteSetAll(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("palette_set_all: missing source offset")
	}
	off := pu32(params[0])
	var entries [256][4]byte
	for i := range entries {
		for ch := 0; ch < 4; ch++ {
			b, err := m.Mem().Byte(off + uint32(i*4+ch))
			if err != nil {
				return err
			}
			entries[i][ch] = b
		}
	}
	c.Compositor.Palette.SetAll(entries)
	return nil
}

// PaletteSetOne sets a single palette entry (spec §4.4 "set single
// colour").
func (c *ClassicUtils) PaletteSetOne(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "palette_set_one"); err != nil {
		return err
	}
	color := pu32(params[1])
	c.Compositor.Palette.Set(pbyte(params[0]), gfx.Color{R: byte(color >> 16), G: byte(color >> 8), B: byte(color)})
	return nil
}

// PaletteCrossfadeTo starts a gradual crossfade to a target palette read
// from the image over durationMS (spec §4.4 "crossfade to a target
// palette over N ms").
func (c *ClassicUtils) PaletteCrossfadeTo(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "palette_crossfade_to"); err != nil {
		return err
	}
	off := pu32(params[0])
	durationMS := pint(params[1])
	var target [256][4]byte
	for i := range target {
		for ch := 0; ch < 4; ch++ {
			b, err := m.Mem().Byte(off + uint32(i*4+ch))
			if err != nil {
				return err
			}
			target[i][ch] = b
		}
	}
	c.crossfader = gfx.NewCrossfadeToPalette(&c.Compositor.Palette, target, durationMS)
	return nil
}

// PaletteCrossfadeToColor starts a crossfade to a solid colour (spec
// §4.4 "crossfade to a solid colour").
func (c *ClassicUtils) PaletteCrossfadeToColor(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "palette_crossfade_to_color"); err != nil {
		return err
	}
	color := pu32(params[0])
	durationMS := pint(params[1])
	c.crossfader = gfx.NewCrossfadeToColor(&c.Compositor.Palette, gfx.Color{R: byte(color >> 16), G: byte(color >> 8), B: byte(color)}, durationMS)
	return nil
}

// --- display show/hide/fade/freeze (spec §4.4 "Present") ---

func (c *ClassicUtils) DisplayFreeze(m *vm.VM, params []vm.Param) error {
	c.Display.Freeze()
	return nil
}

func (c *ClassicUtils) DisplayUnfreeze(m *vm.VM, params []vm.Param) error {
	c.Display.Unfreeze()
	return nil
}

func (c *ClassicUtils) DisplayHide(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("display_hide: missing colour")
	}
	c.Display.Hide(pu32(params[0]))
	return nil
}

func (c *ClassicUtils) DisplayShow(m *vm.VM, params []vm.Param) error {
	c.Display.Show()
	return nil
}

// DisplayFadeOut/In start a display fade and block (pumping host events)
// until TickFade reports it finished. Each loop pass advances the fade by
// one 16 ms frame without waiting on the clock; the alpha TickFade
// returns is not applied to any surface or presented frame.
func (c *ClassicUtils) DisplayFadeOut(m *vm.VM, params []vm.Param) error {
	return c.runFade(params, false)
}

func (c *ClassicUtils) DisplayFadeIn(m *vm.VM, params []vm.Param) error {
	return c.runFade(params, true)
}

func (c *ClassicUtils) runFade(params []vm.Param, fadingIn bool) error {
	if err := reqParams(params, 2, "display_fade"); err != nil {
		return err
	}
	color := pu32(params[0])
	ms := pint(params[1])
	if fadingIn {
		c.Display.StartFadeIn(color, ms, nil)
	} else {
		c.Display.StartFadeOut(color, ms, nil)
	}
	for {
		_, active := c.Display.TickFade(int(1000 / 60))
		if c.Input != nil {
			c.Input.PumpEvents(c.Queue)
		}
		if !active {
			return nil
		}
	}
}

// --- text (spec §4.5, §4.3 "set-font-size"/"display-number"/"text-colour
// set") ---

// SetFontSize installs the point size subsequent TXT/STR statements
// render at.
func (c *ClassicUtils) SetFontSize(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("set_font_size: missing size")
	}
	c.fontSize = pint(params[0])
	return nil
}

// SetTextColor installs the foreground colour index/value subsequent
// draws use.
func (c *ClassicUtils) SetTextColor(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("set_text_color: missing colour")
	}
	c.textColor = pu32(params[0])
	return nil
}

// DisplayNumber renders value as decimal digits at the text cursor, with
// a packed digit-count/halfwidth flags word (spec §4.3 "display-number
// (with packed digit-count/halfwidth flags)").
func (c *ClassicUtils) DisplayNumber(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 3, "display_number"); err != nil {
		return err
	}
	value := params[0].Value
	digits := pint(params[1])
	// packed's low bit selects halfwidth digit glyphs; both paths share
	// the same indexed blit today since DrawIndexed doesn't yet
	// distinguish glyph widths the way DrawDirectColor's two call sites
	// do for titles using a direct-colour surface.
	s := padDigits(value, digits)
	size := c.fontSize
	if size == 0 {
		size = 13
	}
	dst := c.Compositor.Surfaces[c.Compositor.ScreenIndex]
	c.Renderer.DrawIndexed(dst, 0, 0, size, s, byte(c.textColor))
	return nil
}

func padDigits(v vm.Value, digits int) string {
	s := uintToString(uint32(v))
	for len(s) < digits {
		s = "0" + s
	}
	return s
}

func uintToString(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// --- cursor management (spec §4.8 "Cursor") ---

func (c *ClassicUtils) CursorLoad(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("cursor_load: missing cursor index")
	}
	return c.Cursor.Load(pint(params[0]))
}

func (c *ClassicUtils) CursorSetPosition(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "cursor_set_position"); err != nil {
		return err
	}
	c.Cursor.SetPosition(pint(params[0]), pint(params[1]))
	return nil
}

func (c *ClassicUtils) CursorShow(m *vm.VM, params []vm.Param) error {
	c.Cursor.Show()
	return nil
}

func (c *ClassicUtils) CursorHide(m *vm.VM, params []vm.Param) error {
	c.Cursor.Hide()
	return nil
}

// --- file read (spec §4.3 "file read") ---

// FileRead loads a raw named resource via Assets.LoadData and copies it
// into the image at dst, pushing its length into var32[0].
func (c *ClassicUtils) FileRead(m *vm.VM, params []vm.Param) error {
	if len(params) < 2 || !params[0].IsString {
		return vmerr.NewWarning("file_read: expected a name string and a destination offset")
	}
	data, err := c.Assets.LoadData(params[0].Str)
	if err != nil {
		return vmerr.NewWarning("file_read: %v", err)
	}
	dst := pu32(params[1])
	if !m.Mem().PtrValid(dst, uint32(len(data.Data))) {
		return vmerr.NewWarning("file_read: %q (%d bytes) does not fit at offset %#x", params[0].Str, len(data.Data), dst)
	}
	copy(m.Mem().Raw()[dst:], data.Data)
	return m.Mem().SetVar32(0, uint32(len(data.Data)))
}

// --- wait-for-input-or-timer (spec §4.3) ---

// WaitInputOrTimer pumps host events until either a discrete input event
// arrives or ms milliseconds elapse, pushing 1 into var32[0] if input won
// the race, 0 if the timer did.
func (c *ClassicUtils) WaitInputOrTimer(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 {
		return vmerr.NewWarning("wait_input_or_timer: missing timeout")
	}
	ms := int64(params[0].Value)
	deadline := c.Clock.NowMS() + ms
	for c.Queue.Len() == 0 && c.Clock.NowMS() < deadline {
		c.Input.PumpEvents(c.Queue)
	}
	var v uint32
	if c.Queue.Len() > 0 {
		c.Queue.Pop()
		v = 1
	}
	return m.Mem().SetVar32(0, v)
}
