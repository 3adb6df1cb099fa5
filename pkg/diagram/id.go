package diagram

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource produces element identifiers. Identifiers must be unique for the
// lifetime of every document they end up in.
type IDSource func() string

var counter atomic.Uint64

// DefaultIDs is the process-wide monotonic source. It never resets, so ids
// are unique across every diagram built by the process.
func DefaultIDs() string {
	return "e" + strconv.FormatUint(counter.Add(1), 10)
}

// UUIDSource returns a source of random identifiers, for documents that are
// later embedded next to documents from other processes.
func UUIDSource() IDSource {
	return func() string { return "e" + uuid.NewString() }
}

var (
	sourceMu sync.RWMutex
	source   IDSource = DefaultIDs
)

// SetIDSource replaces the source used by [NextID] and returns the previous
// one. Passing nil restores [DefaultIDs].
func SetIDSource(s IDSource) IDSource {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	prev := source
	if s == nil {
		s = DefaultIDs
	}
	source = s
	return prev
}

// NextID returns a fresh identifier from the active source.
func NextID() string {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	return source()
}
