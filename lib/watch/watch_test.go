package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingAfterRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.frag")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()
	s.Start()

	assert.False(t, s.Pending())

	require.NoError(t, os.WriteFile(path, []byte("new"), 0o644))
	assert.Eventually(t, s.Pending, 2*time.Second, 20*time.Millisecond)
	assert.False(t, s.Pending(), "one rewrite is reported once")
}

func TestPendingAfterReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()
	s.Start()

	tmp := filepath.Join(dir, ".a.frag.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.Eventually(t, s.Pending, 2*time.Second, 20*time.Millisecond, "replace is noticed")

	require.NoError(t, os.WriteFile(path, []byte("newer"), 0o644))
	assert.Eventually(t, s.Pending, 2*time.Second, 20*time.Millisecond, "later rewrite is noticed")
}

func TestOtherFilesInDirectoryIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.vert")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	s, err := New(path)
	require.NoError(t, err)
	defer s.Close()
	s.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.vert"), []byte("x"), 0o644))
	assert.Never(t, s.Pending, 300*time.Millisecond, 20*time.Millisecond)
}

func TestCloseStopsWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.frag")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	s, err := New(path)
	require.NoError(t, err)
	s.Start()
	assert.NoError(t, s.Close())
}

func TestWatchMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.vert"))
	assert.Error(t, err)
}
