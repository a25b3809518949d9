package common

// Key codes shared by the window and the viewer's keyboard shortcuts.
// Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace  = 32  // Space bar
	KeyC      = 67  // C key (ASCII)
	KeyG      = 71  // G key (ASCII)
	KeyR      = 82  // R key (ASCII)
	KeyT      = 84  // T key (ASCII)
	KeyEscape = 256 // Escape
)
