package types

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by environment queries on an object id the scene does not contain
var ErrNotFound = errors.New("object not found")

// Environment is the simulated indoor scene the agent navigates in.
// Implementations are owned by a single episode and need not be safe for concurrent use.
type Environment interface {
	// Reset loads the named scene
	Reset(scene string) error
	// Step executes a movement action, the outcome is read back through LastActionSuccess
	Step(Action) error
	// LastActionSuccess reports whether the last executed action succeeded
	LastActionSuccess() bool
	// State is the fingerprint of the current agent state
	// Two fingerprints are equal iff the states are the same
	State() string

	// ObjectIsVisible reports whether the object is visible from the current state
	ObjectIsVisible(ObjectID) bool
	// FindID returns the ids of all object instances of the given type in scene order
	FindID(objectType string) []ObjectID
	// ObjectBBSize returns the size of the object's visible bounding box, 0 when not in view
	ObjectBBSize(ObjectID) (float64, error)
	// ObjectDist returns the distance between the agent and the object
	ObjectDist(ObjectID) (float64, error)
	// AllObjects returns every object id of the scene in scene order
	AllObjects() []ObjectID

	// RandomizeAgentLocation moves the agent to a random state and records it as the start state
	RandomizeAgentLocation() string
	// BackToStart returns the agent to the recorded start state
	BackToStart()
}

// Teleporter is implemented by environments that can place the agent at a known state
type Teleporter interface {
	Teleport(state string) error
}

// Embeddings maps an object type to a fixed length vector
type Embeddings interface {
	Embedding(objectType string) ([]float64, bool)
}

// EmbeddingTable is an in memory Embeddings
type EmbeddingTable map[string][]float64

var _ Embeddings = EmbeddingTable{}

func (e EmbeddingTable) Embedding(objectType string) ([]float64, bool) {
	v, ok := e[objectType]
	return v, ok
}

// ObjectID identifies an object instance, for example "Mug|-1.25|0.90|0.30".
type ObjectID string

// Type returns the object category, the part of the id before the first '|'
func (o ObjectID) Type() string {
	s := string(o)
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}
