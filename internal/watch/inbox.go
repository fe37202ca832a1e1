// Package watch picks up batch files dropped into an inbox directory.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"makerbot/internal/batch"
	"makerbot/internal/eventbus"
)

// DoneSuffix is appended to a batch file once it has been placed
const DoneSuffix = ".done"

// DefaultSettle is how long a file must stay unchanged before it is handed
// out. Generators usually write in several chunks.
const DefaultSettle = 250 * time.Millisecond

// Inbox watches a directory for batch files. Discovered paths are delivered
// on Batches in the order they settled; a single consumer places them.
type Inbox struct {
	dir     string
	bus     eventbus.EventBus
	settle  time.Duration
	watcher *fsnotify.Watcher
	batches chan string

	mu      sync.Mutex
	running bool
}

// NewInbox starts watching dir. bus may be nil.
func NewInbox(dir string, bus eventbus.EventBus, settle time.Duration) (*Inbox, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox: %s is not a directory", dir)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("inbox: watch %s: %w", dir, err)
	}

	return &Inbox{
		dir:     dir,
		bus:     bus,
		settle:  settle,
		watcher: w,
		batches: make(chan string, 16),
	}, nil
}

// Batches delivers settled batch file paths. It is closed when Run returns.
func (in *Inbox) Batches() <-chan string {
	return in.batches
}

// Run processes file system events until ctx is done. Files already in the
// inbox when Run starts are delivered first.
func (in *Inbox) Run(ctx context.Context) error {
	in.mu.Lock()
	if in.running {
		in.mu.Unlock()
		return fmt.Errorf("inbox already running")
	}
	in.running = true
	in.mu.Unlock()

	defer close(in.batches)
	defer in.watcher.Close()

	pending := in.existing()

	tick := in.settle / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-in.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !batch.IsBatchFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-in.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Inbox: watch error on %s: %v", in.dir, err)
			in.publish(eventbus.ErrorEvent{Message: fmt.Sprintf("Watching %s failed", in.dir), Err: err})

		case now := <-ticker.C:
			for _, path := range settled(pending, now, in.settle) {
				delete(pending, path)
				if !in.deliver(ctx, path) {
					return nil
				}
			}
		}
	}
}

// existing lists batch files already sitting in the inbox with their
// modification times
func (in *Inbox) existing() map[string]time.Time {
	pending := make(map[string]time.Time)
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		log.Printf("Inbox: failed to list %s: %v", in.dir, err)
		return pending
	}
	for _, e := range entries {
		if e.IsDir() || !batch.IsBatchFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed since the listing
			continue
		}
		pending[filepath.Join(in.dir, e.Name())] = info.ModTime()
	}
	return pending
}

// settled returns pending paths quiet for at least settle, sorted by the
// time they last changed
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, changed := range pending {
		if now.Sub(changed) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		a, b := pending[ready[i]], pending[ready[j]]
		if a.Equal(b) {
			return ready[i] < ready[j]
		}
		return a.Before(b)
	})
	return ready
}

func (in *Inbox) deliver(ctx context.Context, path string) bool {
	// the file may have been moved away while it settled
	if _, err := os.Stat(path); err != nil {
		return true
	}

	log.Printf("Inbox: discovered batch %s", path)
	in.publish(eventbus.BatchDiscoveredEvent{Path: path})

	select {
	case in.batches <- path:
		return true
	case <-ctx.Done():
		return false
	}
}

func (in *Inbox) publish(e eventbus.DomainEvent) {
	if in.bus != nil {
		in.bus.Publish(e)
	}
}

// MarkDone renames a placed batch so it is not picked up again
func MarkDone(path string) (string, error) {
	done := path + DoneSuffix
	if err := os.Rename(path, done); err != nil {
		return "", fmt.Errorf("inbox: mark %s done: %w", path, err)
	}
	return done, nil
}
