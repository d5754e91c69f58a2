package bundles

import "github.com/angelmondragon/bazaar-backend/internal/catalog"

// Selection is an ordered set of products keyed by id. The zero value is ready to use.
type Selection struct {
	products []catalog.Product
	index    map[string]int
}

// NewSelection builds a selection from products, skipping duplicate ids.
func NewSelection(products ...catalog.Product) *Selection {
	s := &Selection{}
	for _, p := range products {
		s.Add(p)
	}
	return s
}

// Add appends p unless a product with the same id is already selected.
// It reports whether the selection changed.
func (s *Selection) Add(p catalog.Product) bool {
	if s.Contains(p.ID) {
		return false
	}
	if s.index == nil {
		s.index = map[string]int{}
	}
	s.index[p.ID] = len(s.products)
	s.products = append(s.products, p.Clone())
	return true
}

// Remove drops the product with id, keeping the order of the rest.
func (s *Selection) Remove(id string) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	s.products = append(s.products[:pos], s.products[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.products); i++ {
		s.index[s.products[i].ID] = i
	}
	return true
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.products)
}

// Products returns copies of the selected products in the order they were added.
func (s *Selection) Products() []catalog.Product {
	out := make([]catalog.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *Selection) Reset() {
	s.products = nil
	s.index = nil
}
