package gfx

// Palette is the process-wide active indexed palette: 256 entries of BGR
// plus one reserved byte, per spec §3 ("palette[256x4]").
type Palette struct {
	Entries [256][4]byte // B, G, R, reserved
}

// Color is a decoded RGB colour, independent of storage format.
type Color struct {
	R, G, B byte
}

// Get returns entry i as a Color.
func (p *Palette) Get(i byte) Color {
	e := p.Entries[i]
	return Color{R: e[2], G: e[1], B: e[0]}
}

// Set writes entry i.
func (p *Palette) Set(i byte, c Color) {
	p.Entries[i] = [4]byte{c.B, c.G, c.R, 0}
}

// SetAll replaces the whole palette (spec §4.4 "set whole palette").
func (p *Palette) SetAll(entries [256][4]byte) {
	p.Entries = entries
}

// Crossfader drives a gradual palette transition over a duration, ticked
// once per frame by the caller (spec §4.4 "crossfade to a target palette
// over N ms").
type Crossfader struct {
	from, to  [256][4]byte
	elapsedMS int
	totalMS   int
}

// NewCrossfadeToPalette starts a crossfade from the current palette to
// target over durationMS.
func NewCrossfadeToPalette(current *Palette, target [256][4]byte, durationMS int) *Crossfader {
	return &Crossfader{from: current.Entries, to: target, totalMS: durationMS}
}

// NewCrossfadeToColor starts a crossfade from the current palette to a
// single solid colour over durationMS (spec §4.4 "crossfade to a solid
// colour").
func NewCrossfadeToColor(current *Palette, c Color, durationMS int) *Crossfader {
	var target [256][4]byte
	entry := [4]byte{c.B, c.G, c.R, 0}
	for i := range target {
		target[i] = entry
	}
	return &Crossfader{from: current.Entries, to: target, totalMS: durationMS}
}

// Tick advances the crossfade by elapsedDeltaMS and writes the
// interpolated palette into dst. It reports whether the crossfade has
// completed.
func (c *Crossfader) Tick(dst *Palette, elapsedDeltaMS int) (done bool) {
	c.elapsedMS += elapsedDeltaMS
	if c.totalMS <= 0 || c.elapsedMS >= c.totalMS {
		dst.Entries = c.to
		return true
	}
	t := c.elapsedMS * 256 / c.totalMS
	for i := 0; i < 256; i++ {
		for ch := 0; ch < 3; ch++ {
			from := int(c.from[i][ch])
			to := int(c.to[i][ch])
			dst.Entries[i][ch] = byte(from + (to-from)*t/256)
		}
	}
	return false
}
