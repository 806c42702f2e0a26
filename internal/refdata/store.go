package refdata

import (
	"maps"
	"sync"

	"github.com/evetools/hangarstat/internal/domain"
)

// Store is the mutable reference-data cache the fetch pipeline writes into.
// Readers never touch the store's maps directly: Snapshot() hands out a
// detached copy, so an in-progress resolution pass is isolated from writes.
// Every write batch bumps the version counter, which callers use to decide
// when a recomputation is due.
type Store struct {
	mu      sync.RWMutex
	version uint64

	types           map[int64]TypeInfo
	locations       map[int64]LocationInfo
	structures      map[int64]StructureInfo
	ownedStructures map[int64]bool
}

// NewStore creates an empty reference-data store.
func NewStore() *Store {
	return &Store{
		types:           make(map[int64]TypeInfo),
		locations:       make(map[int64]LocationInfo),
		structures:      make(map[int64]StructureInfo),
		ownedStructures: make(map[int64]bool),
	}
}

// PutTypes merges type catalog entries into the store.
func (s *Store) PutTypes(entries ...TypeInfo) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range entries {
		s.types[t.TypeID] = t
	}
	s.version++
}

// PutLocations merges catalog location entries into the store.
func (s *Store) PutLocations(entries ...LocationInfo) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range entries {
		s.locations[l.LocationID] = l
	}
	s.version++
}

// PutStructures merges player structure entries into the store. Entries with
// an OwnerKey are also recorded as owned.
func (s *Store) PutStructures(entries ...StructureInfo) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range entries {
		s.structures[st.StructureID] = st
		if st.OwnerKey != "" {
			s.ownedStructures[st.StructureID] = true
		}
	}
	s.version++
}

// MarkOwned records structure ids as belonging to a tracked owner without
// requiring full structure details to be known yet.
func (s *Store) MarkOwned(structureIDs ...int64) {
	if len(structureIDs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range structureIDs {
		s.ownedStructures[id] = true
	}
	s.version++
}

// Version returns the current version counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// MissingTypes returns the subset of the given type ids absent from the
// catalog, for the fetch pipeline to backfill.
func (s *Store) MissingTypes(typeIDs []int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []int64
	seen := make(map[int64]bool, len(typeIDs))
	for _, id := range typeIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.types[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingLocations returns catalog location ids not yet known. Structure-range
// ids are ignored; those are backfilled through MissingStructures.
func (s *Store) MissingLocations(locationIDs []int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []int64
	seen := make(map[int64]bool, len(locationIDs))
	for _, id := range locationIDs {
		if id == 0 || seen[id] || id >= domain.StructureIDThreshold {
			continue
		}
		seen[id] = true
		if _, ok := s.locations[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingStructures returns structure-range ids not yet known.
func (s *Store) MissingStructures(locationIDs []int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []int64
	seen := make(map[int64]bool, len(locationIDs))
	for _, id := range locationIDs {
		if seen[id] || id < domain.StructureIDThreshold {
			continue
		}
		seen[id] = true
		if _, ok := s.structures[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Snapshot returns an immutable copy of the current reference data.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		version:         s.version,
		types:           maps.Clone(s.types),
		locations:       maps.Clone(s.locations),
		structures:      maps.Clone(s.structures),
		ownedStructures: maps.Clone(s.ownedStructures),
	}
}
