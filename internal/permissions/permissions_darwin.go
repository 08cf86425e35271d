//go:build darwin

// Package permissions preflights the macOS privacy permissions the server
// needs: Screen Recording for capture and Accessibility for input
// injection.
package permissions

/*
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>

int screenRecordingGranted() {
    return CGPreflightScreenCaptureAccess();
}

int screenRecordingRequest() {
    return CGRequestScreenCaptureAccess();
}

static int accessibilityTrusted(int prompt) {
    CFMutableDictionaryRef opts = CFDictionaryCreateMutable(NULL, 0, NULL, NULL);
    CFDictionarySetValue(opts, kAXTrustedCheckOptionPrompt,
        prompt ? kCFBooleanTrue : kCFBooleanFalse);
    Boolean trusted = AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
    return trusted ? 1 : 0;
}

int accessibilityGranted() {
    return accessibilityTrusted(0);
}

int accessibilityRequest() {
    return accessibilityTrusted(1);
}
*/
import "C"

// HasScreenRecording reports whether Screen Recording permission is granted.
func HasScreenRecording() bool {
	return C.screenRecordingGranted() != 0
}

// RequestScreenRecording prompts for Screen Recording permission. After
// granting, macOS requires an app restart before capture works.
func RequestScreenRecording() bool {
	return C.screenRecordingRequest() != 0
}

// HasAccessibility reports whether Accessibility permission is granted.
func HasAccessibility() bool {
	return C.accessibilityGranted() != 0
}

// RequestAccessibility prompts for Accessibility permission via System
// Settings.
func RequestAccessibility() bool {
	return C.accessibilityRequest() != 0
}
