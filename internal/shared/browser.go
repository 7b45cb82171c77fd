package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser on the transfer page at address.
//
// Supports macOS, Linux, and Windows platforms. Only http and https addresses are accepted.
func OpenBrowser(address string) error {
	cmd, err := browserCommand(getRuntime(), address)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

func browserCommand(rt, address string) (*exec.Cmd, error) {
	u, err := url.Parse(address)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not a web address: %q", ErrInvalidArgument, address)
	}

	switch rt {
	case "darwin":
		return exec.Command("open", address), nil
	case "linux":
		return exec.Command("xdg-open", address), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", address), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}
