package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPathLocksDistinctPathsDoNotBlock(t *testing.T) {
	var l pathLocks
	releaseA := l.acquire("a.txt", "a.wav")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := l.acquire("b.txt", "b.wav")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring unrelated paths blocked")
	}
}

func TestPathLocksSharedPathWaitsForRelease(t *testing.T) {
	var l pathLocks
	release := l.acquire("script.txt", "out.wav")

	acquired := make(chan struct{})
	go func() {
		// Shares only the script path, spelled differently.
		r := l.acquire("other.wav", "x/../script.txt")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked path")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over after release")
	}
}

func TestPathLocksDropReleasedEntries(t *testing.T) {
	var l pathLocks
	release := l.acquire("a.wav", "a.wav", "./a.wav")
	assert.Len(t, l.locks, 1)
	release()
	assert.Empty(t, l.locks)
}
