package display

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
)

// EventCallback receives each local input event, already mapped into remote
// screen coordinates.
type EventCallback func(ev input.Event)

// EbitenDisplay renders the remote screen in an Ebitengine window and turns
// local mouse/keyboard activity into input events. SetFrame and
// SetRemoteSize are the thread-safe post points for the network goroutine;
// Update and Draw run on the game loop.
type EbitenDisplay struct {
	onEvent EventCallback

	mu       sync.Mutex
	frame    *image.RGBA
	remoteW  int
	remoteH  int
	shutdown bool

	ebitenImage *ebiten.Image
	prevMouseX  int
	prevMouseY  int
}

// NewEbitenDisplay creates the display. Events are delivered on the game
// loop goroutine.
func NewEbitenDisplay(onEvent EventCallback) *EbitenDisplay {
	return &EbitenDisplay{onEvent: onEvent}
}

// SetFrame posts a decoded frame for the next Draw.
func (d *EbitenDisplay) SetFrame(img *image.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = img
}

// SetRemoteSize records the announced remote resolution used for
// coordinate mapping.
func (d *EbitenDisplay) SetRemoteSize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remoteW = width
	d.remoteH = height
}

// Shutdown makes the game loop exit on its next Update.
func (d *EbitenDisplay) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdown = true
}

// Run starts the Ebitengine game loop. Must be called from the main
// goroutine.
func (d *EbitenDisplay) Run(title string) error {
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(d)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	d.mu.Lock()
	closing := d.shutdown
	d.mu.Unlock()
	if closing {
		return ebiten.Termination
	}
	d.pollMouse()
	d.pollKeyboard()
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	frame := d.frame
	d.mu.Unlock()
	if frame == nil {
		return
	}

	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != fw ||
		d.ebitenImage.Bounds().Dy() != fh {
		d.ebitenImage = ebiten.NewImage(fw, fh)
	}
	d.ebitenImage.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := input.FitTransform(float64(sw), float64(sh), float64(fw), float64(fh))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(d.ebitenImage, op)
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- input capture ---

// remoteSize returns the coordinate space to map into: the announced
// resolution, or the latest frame's bounds before the announcement lands.
func (d *EbitenDisplay) remoteSize() (int, int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.remoteW > 0 && d.remoteH > 0 {
		return d.remoteW, d.remoteH, true
	}
	if d.frame != nil {
		return d.frame.Bounds().Dx(), d.frame.Bounds().Dy(), true
	}
	return 0, 0, false
}

func (d *EbitenDisplay) pollMouse() {
	rw, rh, ok := d.remoteSize()
	if !ok {
		return
	}
	mx, my := ebiten.CursorPosition()
	sw, sh := ebiten.WindowSize()
	rx, ry := input.ToRemote(float64(sw), float64(sh), float64(rw), float64(rh), float64(mx), float64(my))

	if mx != d.prevMouseX || my != d.prevMouseY {
		d.prevMouseX = mx
		d.prevMouseY = my
		d.emit(input.MouseMove(rx, ry))
	}

	buttons := []struct {
		eb  ebiten.MouseButton
		btn input.MouseButton
	}{
		{ebiten.MouseButtonLeft, input.MouseButtonLeft},
		{ebiten.MouseButtonRight, input.MouseButtonRight},
		{ebiten.MouseButtonMiddle, input.MouseButtonMiddle},
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			// Pin the cursor first so the press lands where the user
			// clicked.
			d.emit(input.MouseMove(rx, ry))
			d.emit(input.MouseClick(b.btn, true))
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			d.emit(input.MouseMove(rx, ry))
			d.emit(input.MouseClick(b.btn, false))
		}
	}

	scrollX, scrollY := ebiten.Wheel()
	if scrollX != 0 || scrollY != 0 {
		d.emit(input.Scroll(int32(scrollX), int32(scrollY)))
	}
}

func (d *EbitenDisplay) pollKeyboard() {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if inpututil.IsKeyJustPressed(k) {
			if code, ok := remoteKeyCode(k); ok {
				d.emit(input.Key(code, true))
			}
		}
		if inpututil.IsKeyJustReleased(k) {
			if code, ok := remoteKeyCode(k); ok {
				d.emit(input.Key(code, false))
			}
		}
	}
}

func (d *EbitenDisplay) emit(ev input.Event) {
	if d.onEvent != nil {
		d.onEvent(ev)
	}
}
