// FILE: lixenwraith/preferences/guard.go
package preferences

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// guarded owns one document and the mutex that protects it.
//
// The mutex is not reentrant: calling back into the store for the same document from
// inside a read or write callback deadlocks, or panics when owner checks are enabled.
// Saves are serialized by a second mutex so disk I/O never runs under the document lock,
// and a save is skipped once a newer generation of the document has reached the disk.
type guarded[T any] struct {
	mu         sync.Mutex
	doc        *Document[T]
	generation uint64

	// checkOwner records the goroutine holding mu so re-entry panics instead of deadlocking
	checkOwner bool
	owner      atomic.Uint64

	saveMu sync.Mutex
	saved  uint64
}

func newGuarded[T any](doc *Document[T], checkOwner bool) *guarded[T] {
	return &guarded[T]{doc: doc, checkOwner: checkOwner}
}

func (g *guarded[T]) lock() {
	if !g.checkOwner {
		g.mu.Lock()
		return
	}

	id := goroutineID()
	if id != 0 && g.owner.Load() == id {
		panic("preferences: document accessed from inside its own read or write callback")
	}
	g.mu.Lock()
	g.owner.Store(id)
}

func (g *guarded[T]) unlock() {
	if g.checkOwner {
		g.owner.Store(0)
	}
	g.mu.Unlock()
}

// read runs fn with the document locked
func (g *guarded[T]) read(fn func(doc *Document[T])) {
	g.lock()
	defer g.unlock()

	fn(g.doc)
}

// value returns a copy of the typed value
func (g *guarded[T]) value() T {
	g.lock()
	defer g.unlock()

	return g.doc.value
}

// mutate runs fn with the document locked and returns a snapshot of the resulting tree
// along with its generation. The lock is released before the caller persists it.
//
// If fn panics the document is restored to its state before the call and the panic
// continues, so readers never observe a partial edit.
func (g *guarded[T]) mutate(fn func(doc *Document[T])) (map[string]any, uint64) {
	g.lock()
	defer g.unlock()

	restore := g.doc.checkpoint()
	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	fn(g.doc)
	g.generation++
	return g.doc.snapshot(), g.generation
}

// persist encodes tree and hands it to save, unless a newer generation was already saved
func (g *guarded[T]) persist(generation uint64, tree map[string]any, save func(data []byte) error) error {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()

	if generation <= g.saved {
		return nil
	}

	data, err := encodeTree(tree)
	if err != nil {
		return err
	}
	if err := save(data); err != nil {
		return err
	}

	g.saved = generation
	return nil
}

// goroutineID parses the current goroutine's id from its stack header, "goroutine 42 [..."
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header = bytes.TrimPrefix(header, []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		header = header[:i]
	}
	id, _ := strconv.ParseUint(string(header), 10, 64)
	return id
}
