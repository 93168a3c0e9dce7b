package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrClocNotInstalled is returned when the cloc binary cannot be found on PATH.
var ErrClocNotInstalled = errors.New("cloc is not installed or not on PATH")

// LocalClocClient implements ClocClient by executing the local 'cloc' binary.
type LocalClocClient struct {
	Binary string
}

var _ ClocClient = &LocalClocClient{} // Compile-time check

// NewLocalClocClient creates a cloc client using the binary found on PATH.
func NewLocalClocClient() *LocalClocClient {
	return &LocalClocClient{Binary: "cloc"}
}

// CountByFile implements the ClocClient interface.
func (c *LocalClocClient) CountByFile(ctx context.Context, repoPath string) ([]byte, error) {
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, ErrClocNotInstalled
	}
	cmd := exec.CommandContext(ctx, bin, "--by-file", "--csv", "--quiet", "--vcs=git", ".")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("cloc failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("cloc failed: %w", err)
	}
	return out, nil
}
