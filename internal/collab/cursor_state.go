package collab

// StateCursor is an in-memory Cursor: it tracks which N-frame cursor
// resource is selected, its position, and its visibility, without
// rendering a sprite itself. Drawing the selected cursor at its position
// each frame is a title's own after_anim_draw hook, composed from the
// same Compositor primitives as everything else (spec §4.8 "Cursor").
// Decoding the cursor resource's actual frames is file-format decoding,
// an explicit non-goal, so Load only records the index.
type StateCursor struct {
	index      int
	x, y       int
	visible    bool
}

// NewStateCursor builds a StateCursor, visible by default.
func NewStateCursor() *StateCursor {
	return &StateCursor{visible: true}
}

func (c *StateCursor) Load(index int) error {
	c.index = index
	return nil
}

func (c *StateCursor) SetPosition(x, y int) { c.x, c.y = x, y }
func (c *StateCursor) Position() (x, y int) { return c.x, c.y }

func (c *StateCursor) Show() { c.visible = true }
func (c *StateCursor) Hide() { c.visible = false }

// Index reports the currently selected cursor resource.
func (c *StateCursor) Index() int { return c.index }

// Visible reports whether the cursor is currently shown.
func (c *StateCursor) Visible() bool { return c.visible }
