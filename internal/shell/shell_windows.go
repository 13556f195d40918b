//go:build windows

package shell

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand passes the raw command line to cmd.exe. Letting os/exec
// quote the argument would escape the inner quotes around paths.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cmd")
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: `cmd /S /C "` + command + `"`}
	return cmd
}
