package sim

import (
	"sort"

	"github.com/mineubob/wildfiresim/element"
)

// elementStore owns every Element by stable id, matching the lifecycle and
// ownership rule that only the driver ever sees the store directly.
type elementStore struct {
	elements map[element.ID]*element.Element
	nextID   element.ID
}

func newElementStore() *elementStore {
	return &elementStore{elements: make(map[element.ID]*element.Element)}
}

func (s *elementStore) allocID() element.ID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *elementStore) add(e *element.Element) {
	s.elements[e.ID] = e
}

func (s *elementStore) get(id element.ID) (*element.Element, bool) {
	e, ok := s.elements[id]
	return e, ok
}

func (s *elementStore) remove(id element.ID) {
	delete(s.elements, id)
}

func (s *elementStore) ids() []element.ID {
	ids := make([]element.ID, 0, len(s.elements))
	for id := range s.elements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *elementStore) len() int { return len(s.elements) }
