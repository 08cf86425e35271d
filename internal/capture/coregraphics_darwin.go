//go:build darwin

package capture

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

typedef struct {
    void*  data;
    size_t size;
    int    width;
    int    height;
} CapturedImage;

CapturedImage captureDisplayRGBA(CGDirectDisplayID displayID) {
    CapturedImage result = {0};

    CGImageRef image = CGDisplayCreateImage(displayID);
    if (!image) {
        return result;
    }

    result.width  = (int)CGImageGetWidth(image);
    result.height = (int)CGImageGetHeight(image);
    size_t bytesPerRow = (size_t)result.width * 4;
    result.size = bytesPerRow * result.height;
    result.data = malloc(result.size);
    if (!result.data) {
        CGImageRelease(image);
        result.size = 0;
        return result;
    }

    // Redraw into an RGBA bitmap so the pixel layout matches image.RGBA
    // regardless of the display's native format.
    CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
    CGContextRef ctx = CGBitmapContextCreate(
        result.data, result.width, result.height, 8, bytesPerRow, cs,
        kCGImageAlphaPremultipliedLast);
    CGContextDrawImage(ctx, CGRectMake(0, 0, result.width, result.height), image);
    CGContextRelease(ctx);
    CGColorSpaceRelease(cs);
    CGImageRelease(image);

    return result;
}

void releaseCapturedImage(void* data) {
    free(data);
}
*/
import "C"

import (
	"image"
	"unsafe"

	"github.com/pkg/errors"
)

const maxDisplays = 16

// ScreenCapturer grabs a display's contents through CoreGraphics.
type ScreenCapturer struct {
	displayID C.CGDirectDisplayID
}

// NewScreenCapturer resolves the display at the given index (0 = primary).
func NewScreenCapturer(displayIndex int) (*ScreenCapturer, error) {
	if displayIndex == 0 {
		return &ScreenCapturer{displayID: C.CGMainDisplayID()}, nil
	}
	var displays [maxDisplays]C.CGDirectDisplayID
	var count C.uint32_t
	C.CGGetActiveDisplayList(maxDisplays, &displays[0], &count)
	if displayIndex < 0 || displayIndex >= int(count) {
		return nil, errors.Errorf("display index %d out of range (have %d displays)", displayIndex, count)
	}
	return &ScreenCapturer{displayID: displays[displayIndex]}, nil
}

func (c *ScreenCapturer) Capture() (*image.RGBA, error) {
	ci := C.captureDisplayRGBA(c.displayID)
	if ci.data == nil {
		return nil, errors.New("screen capture failed")
	}
	defer C.releaseCapturedImage(ci.data)

	w := int(ci.width)
	h := int(ci.height)
	pix := make([]byte, int(ci.size))
	copy(pix, unsafe.Slice((*byte)(ci.data), int(ci.size)))

	return &image.RGBA{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}
