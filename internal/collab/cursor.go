package collab

// Cursor is the collaborator controlling the mouse pointer sprite (spec
// §4.8 "Cursor. Load N-frame cursor by index, set/get position,
// show/hide").
type Cursor interface {
	// Load selects an N-frame cursor resource by index.
	Load(index int) error

	SetPosition(x, y int)
	Position() (x, y int)

	Show()
	Hide()
}
