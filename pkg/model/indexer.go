package model

// Indexer gives a unique flat index to an (entity, slot) occupancy cell and vice versa. Entities are faculty, rooms
// or student groups depending on the caller
type Indexer interface {
	// Returns a unique index for the entity at the slot
	Index(entity, slot int) int
	// Returns the entity and slot from a unique index
	Attributes(index int) (entity, slot int)
	// Returns the number of distinct cells
	Cells() int
}

func NewIndexer(entities, slots int) Indexer {
	return &indexerImplementation{
		entities: entities,
		slots:    slots,
	}
}
