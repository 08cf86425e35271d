//go:build darwin

package input

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>

static CGPoint cursorPosition(void) {
    CGEventRef probe = CGEventCreate(NULL);
    CGPoint p = CGEventGetLocation(probe);
    CFRelease(probe);
    return p;
}

void postMouseMove(double x, double y) {
    CGEventRef event = CGEventCreateMouseEvent(NULL, kCGEventMouseMoved,
        CGPointMake(x, y), kCGMouseButtonLeft);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}

// Button transitions happen at the cursor position established by the
// preceding mouse-move events.
void postMouseButton(int button, int down) {
    CGEventType type;
    CGMouseButton btn;
    switch (button) {
        case 1:  type = down ? kCGEventRightMouseDown : kCGEventRightMouseUp;
                 btn = kCGMouseButtonRight;  break;
        case 2:  type = down ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
                 btn = kCGMouseButtonCenter; break;
        default: type = down ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
                 btn = kCGMouseButtonLeft;   break;
    }
    CGEventRef event = CGEventCreateMouseEvent(NULL, type, cursorPosition(), btn);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}

void postScroll(int dx, int dy) {
    CGEventRef event = CGEventCreateScrollWheelEvent(NULL,
        kCGScrollEventUnitPixel, 2, dy, dx);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}

void postKey(CGKeyCode keyCode, int down) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, down != 0);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}
*/
import "C"

// SystemInjector replays events through CoreGraphics CGEvent posting.
type SystemInjector struct{}

func NewSystemInjector() (*SystemInjector, error) {
	return &SystemInjector{}, nil
}

func (inj *SystemInjector) Move(x, y int32) error {
	C.postMouseMove(C.double(x), C.double(y))
	return nil
}

func (inj *SystemInjector) Click(button MouseButton, down bool) error {
	C.postMouseButton(C.int(button), cBool(down))
	return nil
}

func (inj *SystemInjector) Scroll(dx, dy int32) error {
	C.postScroll(C.int(dx), C.int(dy))
	return nil
}

func (inj *SystemInjector) Key(code uint16, down bool) error {
	C.postKey(C.CGKeyCode(code), cBool(down))
	return nil
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
