// Package gitfiles discovers changed files by asking git.
//
// It exists so the CLI can default to "the files about to be committed"
// without the caller enumerating them; explicit file arguments always
// bypass this package.
package gitfiles

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/logging"
)

// Staged returns the paths staged for commit in the repository at dir.
// Deleted files are excluded: a tool cannot format or check a path that is
// about to disappear.
func Staged(ctx context.Context, dir string) ([]string, error) {
	return lines(ctx, dir, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
}

// Tracked returns every path tracked in the repository at dir
func Tracked(ctx context.Context, dir string) ([]string, error) {
	return lines(ctx, dir, "ls-files")
}

func lines(ctx context.Context, dir string, args ...string) ([]string, error) {
	logger := logging.GetLogger("gitfiles")

	gitArgs := append([]string{"-C", dir}, args...)
	logging.LogCommand("git", gitArgs)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", gitArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, errors.Wrapf(err, errors.ErrInternal,
				"git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Wrap(err, errors.ErrProcessSpawn, "git could not be started")
	}

	var files []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}

	logger.Debug().Int("files", len(files)).Strs("args", args).Msg("Discovered files from git")
	return files, nil
}
