// Package engine applies financial actions to account and transaction state,
// one at a time, in two flavours: a single-owner engine with no
// synchronization and a shared engine safe for concurrent producers.
package engine

import (
	"sync"

	"github.com/terminal-bench/payengine/internal/ledger"
)

// Engine is the mutation/observation surface over the account and
// transaction state. Apply runs one action transactionally: on error no
// state changed. Snapshot returns account copies ordered by client id
// ascending. All Apply errors are recoverable; callers skip and continue.
type Engine interface {
	Apply(action Action) error
	Snapshot() []ledger.Snapshot
}

// Serial owns its state exclusively and performs no synchronization. Use it
// when a single goroutine feeds the engine.
type Serial struct {
	st *state
}

// NewSerial creates a single-owner engine.
func NewSerial() *Serial {
	return &Serial{st: newState()}
}

// Apply runs one action against the state.
func (e *Serial) Apply(action Action) error {
	return e.st.apply(action)
}

// Snapshot returns a copy of every account, ordered by client id.
func (e *Serial) Snapshot() []ledger.Snapshot {
	return e.st.snapshot()
}

// Shared wraps the same state behind a reader/writer lock so multiple
// producers can apply actions concurrently. Apply holds the write lock for
// the whole state transition, so writes are totally ordered and a reader
// never observes a partially applied action.
type Shared struct {
	mu sync.RWMutex
	st *state
}

// NewShared creates a shared-state engine.
func NewShared() *Shared {
	return &Shared{st: newState()}
}

// Apply runs one action under the write lock.
func (e *Shared) Apply(action Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.apply(action)
}

// Snapshot returns account copies under the read lock; concurrent snapshots
// do not block each other.
func (e *Shared) Snapshot() []ledger.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.snapshot()
}

var (
	_ Engine = (*Serial)(nil)
	_ Engine = (*Shared)(nil)
)
