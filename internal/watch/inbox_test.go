package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbot/internal/eventbus"
)

const settle = 30 * time.Millisecond

func startInbox(t *testing.T, dir string, bus eventbus.EventBus) (*Inbox, <-chan error) {
	t.Helper()
	in, err := NewInbox(dir, bus, settle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return in, done
}

func next(t *testing.T, in *Inbox) string {
	t.Helper()
	select {
	case path, ok := <-in.Batches():
		require.True(t, ok, "batches closed")
		return path
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a batch")
		return ""
	}
}

func assertQuiet(t *testing.T, in *Inbox) {
	t.Helper()
	select {
	case path := <-in.Batches():
		t.Fatalf("unexpected batch %s", path)
	case <-time.After(10 * settle):
	}
}

func TestInboxDeliversNewBatch(t *testing.T) {
	dir := t.TempDir()
	in, _ := startInbox(t, dir, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	assert.Equal(t, path, next(t, in))
}

func TestInboxDeliversExistingFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(b, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"+DoneSuffix), []byte(`[]`), 0644))

	in, _ := startInbox(t, dir, nil)

	assert.Equal(t, a, next(t, in))
	assert.Equal(t, b, next(t, in))
	assertQuiet(t, in)
}

func TestInboxDeliversExistingFilesOldestFirst(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "z.json")
	newer := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(older, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(newer, []byte(`[]`), 0644))
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now, now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now.Add(-time.Hour)))

	in, _ := startInbox(t, dir, nil)

	assert.Equal(t, older, next(t, in))
	assert.Equal(t, newer, next(t, in))
}

func TestInboxDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	in, _ := startInbox(t, dir, nil)

	path := filepath.Join(dir, "x.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("[]")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	assert.Equal(t, path, next(t, in))
	assertQuiet(t, in)
}

func TestInboxPublishesDiscovery(t *testing.T) {
	bus := eventbus.New()
	var mu sync.Mutex
	var found []string
	bus.Subscribe(eventbus.EventBatchDiscovered, func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		found = append(found, e.(eventbus.BatchDiscoveredEvent).Path)
	})

	dir := t.TempDir()
	in, _ := startInbox(t, dir, bus)
	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))
	next(t, in)
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{path}, found)
}

func TestInboxClosesBatchesOnCancel(t *testing.T) {
	in, err := NewInbox(t.TempDir(), nil, settle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()
	cancel()

	require.NoError(t, <-done)
	_, ok := <-in.Batches()
	assert.False(t, ok)
}

func TestNewInboxRejectsMissingDir(t *testing.T) {
	_, err := NewInbox(filepath.Join(t.TempDir(), "missing"), nil, settle)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = NewInbox(file, nil, settle)
	assert.Error(t, err)
}

func TestMarkDone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	done, err := MarkDone(path)
	require.NoError(t, err)
	assert.Equal(t, path+DoneSuffix, done)
	assert.NoFileExists(t, path)
	assert.FileExists(t, done)
}

func TestSettledOrder(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"late":  now.Add(-40 * time.Millisecond),
		"early": now.Add(-90 * time.Millisecond),
		"fresh": now,
	}
	assert.Equal(t, []string{"early", "late"}, settled(pending, now, settle))
}
