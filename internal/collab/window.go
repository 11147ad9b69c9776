package collab

// HostWindow is the collaborator exposing whole-window host operations
// (spec §4.8 "Host window. Present, toggle fullscreen, screenshot, emit
// error dialog, confirm-quit dialog"). Frame presentation itself goes
// through internal/gfx.HostWindow; this interface covers the remaining
// window-chrome operations a title's bytecode can invoke directly.
type HostWindow interface {
	ToggleFullscreen()

	// Screenshot captures the current frame to path in an
	// implementation-defined image format.
	Screenshot(path string) error

	// ShowError presents a blocking, host-native error dialog.
	ShowError(message string)

	// ConfirmQuit presents a blocking yes/no dialog and reports the
	// user's choice.
	ConfirmQuit() bool
}
