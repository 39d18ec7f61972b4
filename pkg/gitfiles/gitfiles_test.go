package gitfiles

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	return dir
}

func TestStaged(t *testing.T) {
	dir := initRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("hi\n"), 0644))

	cmd := exec.Command("git", "-C", dir, "add", "a.py")
	require.NoError(t, cmd.Run())

	files, err := Staged(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files)
}

func TestStagedEmpty(t *testing.T) {
	dir := initRepo(t)

	files, err := Staged(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTracked(t *testing.T) {
	dir := initRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0644))
	addCmd := exec.Command("git", "-C", dir, "add", "a.py")
	require.NoError(t, addCmd.Run())
	commitCmd := exec.Command("git", "-C", dir, "commit", "-q", "-m", "add a.py")
	require.NoError(t, commitCmd.Run())

	files, err := Tracked(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files)
}

func TestNotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	_, err := Staged(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
