package models

import "context"

// MutationTypeFull is the only mutation type the engine emits: the catalog
// store replaces every entity previously owned by the mutation's location
// keys with exactly the submitted set.
const MutationTypeFull = "full"

// LocatedEntity pairs an entity with the location key of the synchronizer
// instance that produced it.
type LocatedEntity struct {
	// Entity is the catalog record.
	Entity Entity `json:"entity"`

	// LocationKey is the stable string identifying the producing
	// synchronizer instance.
	LocationKey string `json:"locationKey"`
}

// Mutation is the sole write contract the engine makes against the catalog
// store. A full mutation is applied atomically: entities absent from the set
// are retired, and a failed application leaves the previous set intact.
type Mutation struct {
	// Type is always MutationTypeFull.
	Type string `json:"type"`

	// Entities is the complete entity set for this run.
	Entities []LocatedEntity `json:"entities"`
}

// MutationApplier is the catalog store boundary consumed by the
// reconciliation run.
type MutationApplier interface {
	// ApplyMutation applies one mutation atomically. Implementations must
	// either apply the whole set or leave the store unchanged.
	ApplyMutation(ctx context.Context, m Mutation) error
}
