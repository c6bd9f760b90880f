package monitor

import (
	"sync"

	"ipwatch/internal/domain/monitor"
)

// SnapshotStore keeps the most recent snapshot per network for the read API.
// It is a convenience cache over published data, not collector state: every
// collection pass still reads the inventory fresh.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest map[string]*monitor.UtilizationSnapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{latest: make(map[string]*monitor.UtilizationSnapshot)}
}

// Put records snap as the latest snapshot for its network.
func (s *SnapshotStore) Put(snap *monitor.UtilizationSnapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[snap.NetworkID] = snap
}

// Latest returns the most recent snapshot for networkID, or nil if no pass
// has completed yet.
func (s *SnapshotStore) Latest(networkID string) *monitor.UtilizationSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest[networkID]
}
