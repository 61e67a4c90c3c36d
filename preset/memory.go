package preset

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps snapshots in memory. It holds at most capacity
// snapshots across slots [0, slots).
type MemoryStore struct {
	mu       sync.RWMutex
	slots    int
	capacity int
	data     map[int]Snapshot
}

// NewMemoryStore creates a store for slots preset slots. capacity <= 0
// allows every slot to be filled.
func NewMemoryStore(slots, capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = slots
	}
	return &MemoryStore{
		slots:    slots,
		capacity: capacity,
		data:     make(map[int]Snapshot),
	}
}

func (m *MemoryStore) check(slot int) error {
	if slot < 0 || slot >= m.slots {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	return nil
}

// Load returns a copy of the snapshot in slot.
func (m *MemoryStore) Load(ctx context.Context, slot int) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := m.check(slot); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[slot]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: slot %d", ErrNotFound, slot)
	}
	return s.Clone(), nil
}

// Save stores a copy of snap in slot.
func (m *MemoryStore) Save(ctx context.Context, slot int, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.check(slot); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[slot]; !exists && len(m.data) >= m.capacity {
		return fmt.Errorf("%w: %d of %d used", ErrStorageFull, len(m.data), m.capacity)
	}
	m.data[slot] = snap.Clone()
	return nil
}
