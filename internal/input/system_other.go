//go:build !darwin

package input

import "github.com/pkg/errors"

// SystemInjector is only implemented on macOS.
type SystemInjector struct{}

func NewSystemInjector() (*SystemInjector, error) {
	return nil, errors.New("input injection is not supported on this platform")
}

func (inj *SystemInjector) Move(x, y int32) error                { return errUnsupported() }
func (inj *SystemInjector) Click(b MouseButton, down bool) error { return errUnsupported() }
func (inj *SystemInjector) Scroll(dx, dy int32) error            { return errUnsupported() }
func (inj *SystemInjector) Key(code uint16, down bool) error     { return errUnsupported() }

func errUnsupported() error {
	return errors.New("input injection unavailable")
}
