package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.pie")
	other := filepath.Join(dir, "other.pie")
	require.NoError(t, os.WriteFile(path, []byte("(claim one Nat)\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() { changes <- struct{}{} })
	}()

	// The watcher registers asynchronously, so keep writing until it notices.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	seen := false
	for !seen {
		select {
		case <-changes:
			seen = true
		case <-ticker.C:
			require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
			require.NoError(t, os.WriteFile(path, []byte("(claim two Nat)\n"), 0o644))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "gone", "f.pie"), func() {})
	assert.Error(t, err)
}
