//go:build !windows

package shell

import (
	"context"
	"os/exec"
)

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	// #nosec G204 -- the command string is assembled from configured paths
	return exec.CommandContext(ctx, "sh", "-c", command)
}
