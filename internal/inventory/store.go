// ABOUTME: In-memory record store mapping item names to quantities and minimum thresholds
// ABOUTME: Quantity and minimum are tracked independently so either can exist without the other

package inventory

// Store holds the on-hand quantity and the minimum threshold of every item.
// It performs no validation; callers check names and ranges before calling in.
type Store struct {
	quantities map[string]int
	minimums   map[string]int
	order      []string // quantity keys in insertion order
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		quantities: make(map[string]int),
		minimums:   make(map[string]int),
	}
}

// SetQuantity overwrites the quantity of name, creating the item if needed.
func (s *Store) SetQuantity(name string, qty int) {
	if _, ok := s.quantities[name]; !ok {
		s.order = append(s.order, name)
	}
	s.quantities[name] = qty
}

// AdjustQuantity adds delta to the quantity of name (0 if absent) and returns the result.
func (s *Store) AdjustQuantity(name string, delta int) int {
	qty := s.Quantity(name) + delta
	s.SetQuantity(name, qty)
	return qty
}

// SetMinimum overwrites the minimum threshold of name.
func (s *Store) SetMinimum(name string, minimum int) {
	s.minimums[name] = minimum
}

// Quantity returns the quantity of name, or 0 if it has none.
func (s *Store) Quantity(name string) int {
	return s.quantities[name]
}

// Minimum returns the minimum threshold of name, or 0 if it has none.
func (s *Store) Minimum(name string) int {
	return s.minimums[name]
}

// LookupQuantity reports the quantity of name and whether one is set.
func (s *Store) LookupQuantity(name string) (int, bool) {
	qty, ok := s.quantities[name]
	return qty, ok
}

// LookupMinimum reports the minimum threshold of name and whether one is set.
func (s *Store) LookupMinimum(name string) (int, bool) {
	minimum, ok := s.minimums[name]
	return minimum, ok
}

// Names returns every item that has a quantity, in the order they were first set.
func (s *Store) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of items that have a quantity.
func (s *Store) Len() int {
	return len(s.quantities)
}

// ReplaceAll discards the current contents and copies in everything held by src.
func (s *Store) ReplaceAll(src *Store) {
	quantities := make(map[string]int, len(src.quantities))
	for name, qty := range src.quantities {
		quantities[name] = qty
	}
	minimums := make(map[string]int, len(src.minimums))
	for name, minimum := range src.minimums {
		minimums[name] = minimum
	}

	s.quantities = quantities
	s.minimums = minimums
	s.order = src.Names()
}
