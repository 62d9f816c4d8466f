package pipeline

import (
	"path/filepath"
	"sort"
	"sync"
)

// pathLocks serializes runs that write the same output files. Entries are
// reference counted and dropped once no run holds them.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// acquire locks every path and returns the function releasing them. Paths
// are normalized and locked in sorted order so overlapping sets never deadlock.
func (l *pathLocks) acquire(paths ...string) (release func()) {
	keys := normalizePaths(paths)

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*pathLock)
	}
	held := make([]*pathLock, len(keys))
	for i, k := range keys {
		pl, ok := l.locks[k]
		if !ok {
			pl = &pathLock{}
			l.locks[k] = pl
		}
		pl.refs++
		held[i] = pl
	}
	l.mu.Unlock()

	for _, pl := range held {
		pl.mu.Lock()
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
		l.mu.Lock()
		for i, k := range keys {
			if held[i].refs--; held[i].refs == 0 {
				delete(l.locks, k)
			}
		}
		l.mu.Unlock()
	}
}

func normalizePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		k, err := filepath.Abs(p)
		if err != nil {
			k = filepath.Clean(p)
		}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
