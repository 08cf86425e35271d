//go:build !darwin

package permissions

// No permission preflight outside macOS; capture and injection report
// their own availability.

func HasScreenRecording() bool     { return true }
func RequestScreenRecording() bool { return true }
func HasAccessibility() bool       { return true }
func RequestAccessibility() bool   { return true }
