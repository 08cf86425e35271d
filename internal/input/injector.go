package input

// Injector replays input events on the host machine.
type Injector interface {
	Move(x, y int32) error
	Click(button MouseButton, down bool) error
	Scroll(dx, dy int32) error
	Key(code uint16, down bool) error
}

// Apply replays one event synchronously. Ordering matters (a button-up must
// not overtake its button-down), so callers must apply events one at a
// time, never concurrently.
func Apply(inj Injector, e Event) error {
	switch e.Type {
	case EventMouseMove:
		return inj.Move(e.X, e.Y)
	case EventMouseButton:
		return inj.Click(e.Button, e.Pressed)
	case EventMouseScroll:
		return inj.Scroll(e.DX, e.DY)
	case EventKey:
		return inj.Key(e.Code, e.Pressed)
	}
	return nil
}
