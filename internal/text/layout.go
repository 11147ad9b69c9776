package text

// Cursor tracks the VM's text-drawing position and the wrap parameters
// spec §4.5 names: text_start_x, text_end_x, char_space and line_space
// system variables.
type Cursor struct {
	X, Y           int
	StartX, EndX   int
	CharSpace      int
	LineSpace      int
}

// Advance moves the cursor past a glyph of the given width, wrapping to
// StartX and adding LineSpace to Y whenever the next character would
// exceed EndX (spec §4.5 "Line wrapping").
func (c *Cursor) Advance(glyphWidth int) {
	if c.X+glyphWidth > c.EndX {
		c.X = c.StartX
		c.Y += c.LineSpace
	}
	c.X += glyphWidth + c.CharSpace
}

// BacklogEntry is one recorded line of previously displayed text, with an
// optional voice-sample name indicating a voiced line (spec §4.3/GLOSSARY
// "Backlog").
type BacklogEntry struct {
	Text    string
	Voice   string
	HasVoice bool
}

// Backlog is a bounded ring buffer of BacklogEntry, queried by scripts to
// render a history screen (spec GLOSSARY "Backlog").
type Backlog struct {
	entries []BacklogEntry
	max     int
}

// NewBacklog creates a Backlog holding at most max entries.
func NewBacklog(max int) *Backlog {
	return &Backlog{max: max}
}

// Push records a new line, evicting the oldest entry once max is reached.
func (b *Backlog) Push(text string) {
	b.entries = append(b.entries, BacklogEntry{Text: text})
	b.trim()
}

// PushVoiced records a new line together with the voice sample that
// played alongside it.
func (b *Backlog) PushVoiced(text, voice string) {
	b.entries = append(b.entries, BacklogEntry{Text: text, Voice: voice, HasVoice: true})
	b.trim()
}

func (b *Backlog) trim() {
	if b.max > 0 && len(b.entries) > b.max {
		b.entries = b.entries[len(b.entries)-b.max:]
	}
}

// Entries returns the recorded lines, oldest first.
func (b *Backlog) Entries() []BacklogEntry { return b.entries }

// Len reports how many lines are currently recorded.
func (b *Backlog) Len() int { return len(b.entries) }
