package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var (
	getRuntime = func() string { return runtime.GOOS }
	startCmd   = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// OpenURI hands a URI to the platform's default handler.
//
// Works for both web URLs and app-scheme URIs (spotify:, music:); the OS
// decides whether a native handler exists. Supports macOS, Linux, and Windows.
func OpenURI(uri string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", uri)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := startCmd(cmd); err != nil {
		return fmt.Errorf("failed to launch %s: %w", uri, err)
	}

	return nil
}
