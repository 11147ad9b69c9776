// Package pixel presents a gfx.Compositor frame in a faiface/pixel
// window and feeds host keyboard/mouse state back as input.Source
// events (spec §4.7, §4.8 "Host window").
package pixel

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/ai5run/ai5/internal/input"
)

// keyMap is the fixed named-button -> host key mapping spec §4.7 names
// ("ACTIVATE/CANCEL/CTRL/SHIFT/arrows/BACKSPACE"), generalized from the
// teacher's 16-key hex pad into the handful of buttons this runtime
// actually dispatches.
var keyMap = map[input.Button]pixelgl.Button{
	input.ButtonActivate:  pixelgl.KeyEnter,
	input.ButtonCancel:    pixelgl.KeyEscape,
	input.ButtonCtrl:      pixelgl.KeyLeftControl,
	input.ButtonShift:     pixelgl.KeyLeftShift,
	input.ButtonUp:        pixelgl.KeyUp,
	input.ButtonDown:      pixelgl.KeyDown,
	input.ButtonLeft:      pixelgl.KeyLeft,
	input.ButtonRight:     pixelgl.KeyRight,
	input.ButtonBackspace: pixelgl.KeyBackspace,
}

// Window embeds a pixelgl window and presents RGB24 frames uploaded by
// gfx.Compositor.Present, and implements input.Source by polling the
// same window for the named buttons in keyMap.
type Window struct {
	*pixelgl.Window
}

// NewWindow opens a window sized w x h logical pixels, scaled to fill
// whatever size the host gives it (spec §4.8 "the host window presents
// the screen surface at its native size, optionally scaled").
func NewWindow(title string, w, h int, fullscreen bool) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:     title,
		Bounds:    pixel.R(0, 0, float64(w), float64(h)),
		VSync:     true,
		Resizable: true,
	}
	if fullscreen {
		cfg.Monitor = pixelgl.PrimaryMonitor()
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("pixel: new window: %w", err)
	}
	return &Window{Window: win}, nil
}

// Upload implements gfx.HostWindow: it converts a tightly packed RGB24
// frame to a pixel.PictureData, stretches it to fill the window, and
// flips.
func (w *Window) Upload(rgb []byte, width, height int) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 3
			di := img.PixOffset(x, height-1-y)
			img.Pix[di] = rgb[off]
			img.Pix[di+1] = rgb[off+1]
			img.Pix[di+2] = rgb[off+2]
			img.Pix[di+3] = 0xff
		}
	}

	w.Clear(colornames.Black)
	pic := pixel.PictureDataFromImage(img)
	sprite := pixel.NewSprite(pic, pic.Bounds())
	bounds := w.Bounds()
	scale := pixel.V(bounds.W()/float64(width), bounds.H()/float64(height))
	sprite.Draw(w, pixel.IM.ScaledXY(pixel.ZV, scale).Moved(bounds.Center()))
	w.Update()
}

// IsDown implements input.Source.
func (w *Window) IsDown(b input.Button) bool {
	key, ok := keyMap[b]
	if !ok {
		return false
	}
	return w.Pressed(key)
}

// MouseX implements input.Source.
func (w *Window) MouseX() int { return int(w.MousePosition().X) }

// MouseY implements input.Source.
func (w *Window) MouseY() int { return int(w.MousePosition().Y) }

// PumpEvents implements input.Source: it lets pixelgl process host
// events, then queues an Event for every named button that just
// transitioned, for consumers using the edge-sensitive Queue/Keywait
// path rather than IsDown's level polling.
func (w *Window) PumpEvents(q *input.Queue) {
	w.UpdateInput()
	for b, key := range keyMap {
		if w.JustPressed(key) {
			q.Push(input.Event{Button: b, Pressed: true})
		}
		if w.JustReleased(key) {
			q.Push(input.Event{Button: b, Pressed: false})
		}
	}
}

// ToggleFullscreen implements collab.HostWindow.
func (w *Window) ToggleFullscreen() {
	if w.Monitor() == nil {
		w.SetMonitor(pixelgl.PrimaryMonitor())
		return
	}
	w.SetMonitor(nil)
}

// Screenshot implements collab.HostWindow by encoding the window's
// current canvas to a PNG file at path.
func (w *Window) Screenshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pixel: screenshot: %w", err)
	}
	defer f.Close()
	bounds := w.Canvas().Bounds()
	img := image.NewRGBA(image.Rect(0, 0, int(bounds.W()), int(bounds.H())))
	pixels := w.Canvas().Pixels()
	copy(img.Pix, pixels)
	return png.Encode(f, img)
}

// ShowError implements collab.HostWindow. The teacher's equivalent
// failure path is a fmt.Println to stderr right before os.Exit; this
// keeps that shape rather than opening a native dialog, since pixelgl
// offers no such primitive.
func (w *Window) ShowError(message string) {
	fmt.Fprintln(os.Stderr, message)
}

// ConfirmQuit implements collab.HostWindow. Quit confirmation dialogs
// are a platform feature outside pixelgl's scope; this runtime always
// confirms, matching the teacher's unconditional exit-on-close.
func (w *Window) ConfirmQuit() bool { return true }
