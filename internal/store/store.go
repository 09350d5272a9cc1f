package store

import (
	"errors"

	"github.com/ajitpratap0/sixdegrees/internal/models"
)

var (
	// ErrExists is returned by Add when an entity with the same canonical key is already stored.
	ErrExists = errors.New("entity already exists")

	// ErrUnknownEntity is returned when an edge endpoint is not in the store.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrKindMismatch is returned when a name resolves to an entity of the other kind.
	ErrKindMismatch = errors.New("entity kind mismatch")

	// ErrSelfLink is returned when both edge endpoints resolve to the same key.
	ErrSelfLink = errors.New("self link")
)

// LinkResult describes what LinkEvidence changed.
type LinkResult struct {
	Key              string
	Created          bool
	Linked           bool
	EvidenceAttached bool
}

// Graph defines the entity store shared by the ingestors and the path finder.
// Every name argument is canonicalized with models.CanonicalKey before use.
// Returned entities are copies; mutating them does not affect the store.
type Graph interface {
	// Add inserts a new entity. It returns ErrExists if the key is taken.
	Add(entity models.Entity) error

	// Get looks up an entity by name.
	Get(name string) (*models.Entity, bool)

	// GetOrCreate returns the entity for name, creating it with kind when absent.
	// The bool result is true when the entity was created.
	GetOrCreate(name string, kind models.EntityKind) (*models.Entity, bool, error)

	// Connect adds an undirected edge between a and b. It returns false when
	// the edge already existed.
	Connect(a, b string) (bool, error)

	// LinkEvidence resolves or creates the person and, unless already connected
	// to target, adds the target edge and attaches ev as the person's evidence.
	// Existing evidence is never overwritten. The whole operation is atomic.
	LinkEvidence(target, person string, ev models.PhotoEvidence) (LinkResult, error)

	// RandomPersonNames returns the display names of all people in random order.
	RandomPersonNames() []string

	// Neighbors returns copies of the entities adjacent to name in edge order.
	Neighbors(name string) ([]models.Entity, bool)

	// Stats returns entity and edge counts.
	Stats() models.GraphStats

	// Len returns the number of stored entities.
	Len() int
}
