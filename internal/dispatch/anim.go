package dispatch

import (
	"github.com/ai5run/ai5/internal/anim"
	"github.com/ai5run/ai5/internal/gfx"
	"github.com/ai5run/ai5/internal/vm"
	"github.com/ai5run/ai5/internal/vmerr"
)

// TickEffects advances per-frame effects the exec loop's poll-graphics
// suspension point drives rather than a syscall: the active palette
// crossfade, if any, and every registered animation stream (spec §5 "At
// each suspension point the runtime... ticks all animation streams").
func (c *ClassicUtils) TickEffects(deltaMS int) {
	if c.crossfader != nil {
		if done := c.crossfader.Tick(&c.Compositor.Palette, deltaMS); done {
			c.crossfader = nil
		}
	}
	if c.Anim != nil {
		c.Anim.Advance(deltaMS)
	}
}

// maskColor reads the title's current mask colour out of sysvar16 at
// draw time rather than load time (spec §4.6, original anim.c:150).
func (c *ClassicUtils) maskColor(m *vm.VM) uint32 {
	v, err := m.Mem().GetSysVar16(c.MaskColorVar16)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// drawSink turns one anim draw record into the matching compositor call
// (spec §4.6 "Draw records are one of: FILL, COPY, COPY_MASKED, SWAP,
// COMPOSE, SET_COLOR, SET_PALETTE").
func (c *ClassicUtils) drawSink(m *vm.VM) anim.DrawSink {
	return func(rec anim.DrawRecord) {
		rect := gfx.Rect{X: int(rec.X), Y: int(rec.Y), W: int(rec.W), H: int(rec.H)}
		var err error
		switch rec.Kind {
		case anim.DrawFill:
			err = c.Compositor.Fill(int(rec.DstSurface), rect, rec.Color)
		case anim.DrawCopy:
			err = c.Compositor.Copy(int(rec.SrcSurface), int(rec.DstSurface), rect, int(rec.X), int(rec.Y))
		case anim.DrawCopyMasked:
			err = c.Compositor.CopyMasked(int(rec.SrcSurface), int(rec.DstSurface), rect, int(rec.X), int(rec.Y), c.maskColor(m))
		case anim.DrawSwap:
			err = c.Compositor.CopySwap(int(rec.SrcSurface), int(rec.DstSurface), rect)
		case anim.DrawCompose:
			err = c.Compositor.Compose(int(rec.DstSurface), int(rec.SrcSurface), int(rec.DstSurface), rect, int(rec.X), int(rec.Y), c.maskColor(m))
		case anim.DrawSetColor:
			err = m.Mem().SetSysVar16(c.MaskColorVar16, uint16(rec.Color))
		case anim.DrawSetPalette:
			c.Compositor.Palette.Set(rec.SrcSurface, gfx.Color{R: byte(rec.Color >> 16), G: byte(rec.Color >> 8), B: byte(rec.Color)})
		}
		if err != nil {
			vmerr.Warn("anim draw (kind %d): %v", rec.Kind, err)
		}
	}
}

// AnimLoad parses a named S4 file and registers each of its streams on
// the scheduler, returning the first stream's handle through var32[0];
// handles are consecutive, so a title that knows a file holds N streams
// can address stream i as handle+i (spec §4.3 "animation control").
func (c *ClassicUtils) AnimLoad(m *vm.VM, params []vm.Param) error {
	if len(params) < 1 || !params[0].IsString {
		return vmerr.NewWarning("anim_load: expected a string parameter")
	}
	raw, err := c.Assets.LoadData(params[0].Str)
	if err != nil {
		return vmerr.NewWarning("anim_load: %v", err)
	}
	file, err := anim.Parse(raw.Data)
	if err != nil {
		return vmerr.NewWarning("anim_load: %v", err)
	}

	if c.animStreams == nil {
		c.animStreams = make(map[uint32]*anim.Stream)
	}
	first := c.nextAnimHandle
	for _, s := range file.Streams {
		c.animStreams[c.nextAnimHandle] = s
		c.Anim.Register(s, c.drawSink(m))
		c.nextAnimHandle++
	}
	return m.Mem().SetVar32(0, first)
}

// AnimCommand sets the run/stop/halt command on a previously loaded
// stream (spec §4.6 "External code sets a command").
func (c *ClassicUtils) AnimCommand(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "anim_command"); err != nil {
		return err
	}
	s, ok := c.animStreams[pu32(params[0])]
	if !ok {
		return vmerr.NewWarning("anim_command: unknown stream handle %d", params[0].Value)
	}
	s.SetCommand(anim.Command(params[1].Value))
	return nil
}

// AnimWait spins the event loop until every registered stream reports
// halted (spec §4.6 "anim_wait(stream) spins the event loop until the
// stream reports halted"). The scheduler has no per-stream wait, so this
// waits on all of them, matching AllHalted's contract.
func (c *ClassicUtils) AnimWait(m *vm.VM, params []vm.Param) error {
	for c.Anim != nil && !c.Anim.AllHalted() {
		c.TickEffects(16)
		if c.Input != nil {
			c.Input.PumpEvents(c.Queue)
		}
	}
	return nil
}
