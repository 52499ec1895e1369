package model

type indexerImplementation struct {
	entities int
	slots    int
}

func (indexer *indexerImplementation) Index(entity, slot int) int {
	return slot + indexer.slots*entity
}

func (indexer *indexerImplementation) Attributes(index int) (entity, slot int) {
	slot = index % indexer.slots
	entity = index / indexer.slots
	return entity, slot
}

func (indexer *indexerImplementation) Cells() int {
	return indexer.entities * indexer.slots
}
