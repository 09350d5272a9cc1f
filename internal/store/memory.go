package store

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/ajitpratap0/sixdegrees/internal/models"
)

// MemoryStore is the in-process implementation of Graph. All reads and writes
// go through one store-wide lock.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*storedEntity
}

type storedEntity struct {
	entity models.Entity
	adj    map[string]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*storedEntity),
	}
}

// Add inserts entity under its canonical key. Neighbors on the argument are ignored;
// edges are only created through Connect and LinkEvidence.
func (m *MemoryStore) Add(entity models.Entity) error {
	if !entity.Kind.IsValid() {
		return fmt.Errorf("adding %q: invalid kind %q", entity.DisplayName, entity.Kind)
	}
	if entity.Kind == models.KindMovie && entity.Evidence != nil {
		return fmt.Errorf("adding %q: %w: movies cannot carry photo evidence", entity.DisplayName, ErrKindMismatch)
	}
	key := models.CanonicalKey(entity.DisplayName)
	if key == "" {
		return fmt.Errorf("adding entity: empty name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[key]; ok {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	m.insertLocked(entity.DisplayName, entity.Kind, entity.Evidence)
	return nil
}

// Get looks up an entity by name.
func (m *MemoryStore) Get(name string) (*models.Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	se, ok := m.nodes[models.CanonicalKey(name)]
	if !ok {
		return nil, false
	}
	e := cloneEntity(se.entity)
	return &e, true
}

// Neighbors returns copies of the entities adjacent to name in edge
// insertion order. The bool is false when name is unknown.
func (m *MemoryStore) Neighbors(name string) ([]models.Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	se, ok := m.nodes[models.CanonicalKey(name)]
	if !ok {
		return nil, false
	}
	out := make([]models.Entity, 0, len(se.entity.Neighbors))
	for _, key := range se.entity.Neighbors {
		if n, ok := m.nodes[key]; ok {
			out = append(out, cloneEntity(n.entity))
		}
	}
	return out, true
}

// GetOrCreate returns the entity for name, creating it with kind when absent.
// An existing entity of a different kind yields ErrKindMismatch.
func (m *MemoryStore) GetOrCreate(name string, kind models.EntityKind) (*models.Entity, bool, error) {
	if !kind.IsValid() {
		return nil, false, fmt.Errorf("resolving %q: invalid kind %q", name, kind)
	}
	key := models.CanonicalKey(name)
	if key == "" {
		return nil, false, fmt.Errorf("resolving entity: empty name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if se, ok := m.nodes[key]; ok {
		if se.entity.Kind != kind {
			return nil, false, fmt.Errorf("resolving %q as %s: %w (stored as %s)", name, kind, ErrKindMismatch, se.entity.Kind)
		}
		e := cloneEntity(se.entity)
		return &e, false, nil
	}
	se := m.insertLocked(name, kind, nil)
	e := cloneEntity(se.entity)
	return &e, true, nil
}

// Connect adds an undirected edge between a and b.
func (m *MemoryStore) Connect(a, b string) (bool, error) {
	ka, kb := models.CanonicalKey(a), models.CanonicalKey(b)
	if ka == kb {
		return false, fmt.Errorf("connecting %q: %w", a, ErrSelfLink)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	na, ok := m.nodes[ka]
	if !ok {
		return false, fmt.Errorf("connecting %q: %w", a, ErrUnknownEntity)
	}
	nb, ok := m.nodes[kb]
	if !ok {
		return false, fmt.Errorf("connecting %q: %w", b, ErrUnknownEntity)
	}
	return connectLocked(na, nb), nil
}

// LinkEvidence attaches photo evidence tying person to target.
func (m *MemoryStore) LinkEvidence(target, person string, ev models.PhotoEvidence) (LinkResult, error) {
	tk, pk := models.CanonicalKey(target), models.CanonicalKey(person)
	res := LinkResult{Key: pk}
	if pk == "" {
		return res, fmt.Errorf("linking evidence: empty person name")
	}
	if tk == pk {
		return res, fmt.Errorf("linking %q: %w", person, ErrSelfLink)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tn, ok := m.nodes[tk]
	if !ok {
		return res, fmt.Errorf("linking %q: target %q: %w", person, target, ErrUnknownEntity)
	}
	pn, ok := m.nodes[pk]
	if ok && pn.entity.Kind != models.KindPerson {
		return res, fmt.Errorf("linking %q: %w (stored as %s)", person, ErrKindMismatch, pn.entity.Kind)
	}
	if !ok {
		pn = m.insertLocked(person, models.KindPerson, nil)
		res.Created = true
	}
	if _, connected := pn.adj[tk]; connected {
		return res, nil
	}
	res.Linked = connectLocked(tn, pn)
	if pn.entity.Evidence == nil {
		evCopy := ev
		pn.entity.Evidence = &evCopy
		res.EvidenceAttached = true
	}
	return res, nil
}

// RandomPersonNames returns the display names of all people in random order.
func (m *MemoryStore) RandomPersonNames() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.nodes))
	for _, se := range m.nodes {
		if se.entity.Kind == models.KindPerson {
			names = append(names, se.entity.DisplayName)
		}
	}
	m.mu.RUnlock()

	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	return names
}

// Stats returns entity and edge counts computed under the read lock.
func (m *MemoryStore) Stats() models.GraphStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats models.GraphStats
	var degree int64
	for _, se := range m.nodes {
		switch se.entity.Kind {
		case models.KindPerson:
			stats.People++
		case models.KindMovie:
			stats.Movies++
		}
		if se.entity.Evidence != nil {
			stats.EvidenceLinks++
		}
		degree += int64(len(se.adj))
	}
	stats.Edges = degree / 2
	return stats
}

// Len returns the number of stored entities.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// --- helpers ---

// insertLocked stores a new unconnected entity. The caller holds the write lock
// and has checked that the key is free.
func (m *MemoryStore) insertLocked(name string, kind models.EntityKind, ev *models.PhotoEvidence) *storedEntity {
	e := models.NewEntity(name, kind)
	if ev != nil {
		evCopy := *ev
		e.Evidence = &evCopy
	}
	se := &storedEntity{
		entity: e,
		adj:    make(map[string]struct{}),
	}
	m.nodes[e.Key] = se
	return se
}

// connectLocked appends each endpoint to the other's neighbor list exactly once.
func connectLocked(a, b *storedEntity) bool {
	if _, ok := a.adj[b.entity.Key]; ok {
		return false
	}
	a.adj[b.entity.Key] = struct{}{}
	b.adj[a.entity.Key] = struct{}{}
	a.entity.Neighbors = append(a.entity.Neighbors, b.entity.Key)
	b.entity.Neighbors = append(b.entity.Neighbors, a.entity.Key)
	return true
}

// cloneEntity deep-copies mutable fields so callers cannot mutate stored data.
func cloneEntity(e models.Entity) models.Entity {
	if len(e.Neighbors) > 0 {
		neighbors := make([]string, len(e.Neighbors))
		copy(neighbors, e.Neighbors)
		e.Neighbors = neighbors
	}
	if e.Evidence != nil {
		ev := *e.Evidence
		e.Evidence = &ev
	}
	return e
}
