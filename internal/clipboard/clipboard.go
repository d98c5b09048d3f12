// Package clipboard copies text to the system clipboard via the
// platform's native utility.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CopyText puts text on the system clipboard.
func CopyText(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipeTo(text, "pbcopy")
	case "linux":
		// X11 first, then Wayland.
		if err := pipeTo(text, "xclip", "-selection", "clipboard"); err == nil {
			return nil
		}
		return pipeTo(text, "wl-copy")
	case "windows":
		return pipeTo(text, "clip.exe")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func pipeTo(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
