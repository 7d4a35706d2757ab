package store

import (
	"sync"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// notifier is the observer list of a store. Observers are called in
// subscription order on the goroutine that applied the mutation.
type notifier struct {
	mu      sync.Mutex
	nextID  uint64
	entries []observerEntry
}

type observerEntry struct {
	id       uint64
	observer types.Observer
}

// add registers o and returns a function that unregisters it. Observer
// values need not be comparable, so removal goes by subscription id.
func (n *notifier) add(o types.Observer) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.entries = append(n.entries, observerEntry{id: id, observer: o})

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// notify delivers change to every observer registered at the time of the
// call. The list is copied first so observers may subscribe or cancel from
// inside OnChange.
func (n *notifier) notify(change types.Change) {
	n.mu.Lock()
	entries := make([]observerEntry, len(n.entries))
	copy(entries, n.entries)
	n.mu.Unlock()

	for _, e := range entries {
		e.observer.OnChange(change)
	}
}
