package agent

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
)

// LocalOpener is the optional server-side fallback that hands a path to the
// host OS when the server itself runs on the operator's workstation. It is
// disabled by default and only useful in single-machine deployments.
//
// The path goes to the process as a plain argument vector. It is never
// interpolated into a shell string, so a crafted path cannot inject commands.
type LocalOpener struct {
	Enabled bool
}

var ErrLocalOpenDisabled = errors.New("local open is disabled")

// Open launches the platform opener for path and returns once the process has
// been started. It does not wait for the application to exit.
func (o *LocalOpener) Open(ctx context.Context, path string) error {
	if !o.Enabled {
		return ErrLocalOpenDisabled
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		// "start" needs an explicit empty title argument before the path.
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	return cmd.Start()
}
