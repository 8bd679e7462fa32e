package quotation

import (
	"context"
	"sync"
)

// DefaultQuantity applies when a line is added without a positive quantity.
const DefaultQuantity = 1

// Store holds one quotation cart in memory and writes every change through
// its Persister. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	loaded  bool
	persist Persister
	onError func(error)
}

type Option func(*Store)

// WithErrorHandler receives persistence failures. The store keeps working in
// memory regardless.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.onError = fn
		}
	}
}

func NewStore(p Persister, opts ...Option) *Store {
	if p == nil {
		p = NewMemoryPersister()
	}
	s := &Store{persist: p, onError: func(error) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory cart with the persisted one. A failed read
// leaves an empty cart and still marks the store loaded.
func (s *Store) Load(ctx context.Context) {
	snap, err := s.persist.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.onError(err)
		snap = Snapshot{}
	}
	s.lines = sanitize(snap.Items)
	s.loaded = true
}

// Loaded reports whether rehydration has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Add merges quantity into the line matching product and dims, or appends a
// new line. It returns the resulting line.
func (s *Store) Add(ctx context.Context, product ProductRef, dims SelectedDimensions, quantity int) Line {
	if quantity < 1 {
		quantity = DefaultQuantity
	}
	id := LineID(product.ID, dims)

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.lines[i].Quantity += quantity
		s.save(ctx)
		return s.lines[i]
	}

	line := Line{
		CartID:             id,
		Product:            product,
		SelectedDimensions: dims,
		Quantity:           quantity,
	}
	s.lines = append(s.lines, line)
	s.save(ctx)
	return line
}

// Remove drops the line with the given id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, lineID)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, lineID)
		return
	}
	i := s.indexOf(lineID)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = quantity
	s.save(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.save(ctx)
}

// ItemCount is the total number of units across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Line(lineID string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(lineID); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

func (s *Store) removeLocked(ctx context.Context, lineID string) {
	i := s.indexOf(lineID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.save(ctx)
}

func (s *Store) indexOf(lineID string) int {
	for i := range s.lines {
		if s.lines[i].CartID == lineID {
			return i
		}
	}
	return -1
}

// save runs under s.mu so writes reach the persister in mutation order.
func (s *Store) save(ctx context.Context) {
	snap := Snapshot{Items: make([]Line, len(s.lines))}
	copy(snap.Items, s.lines)
	if err := s.persist.Save(ctx, snap); err != nil {
		s.onError(err)
	}
}

// sanitize restores the one-line-per-key rule on records written by older or
// foreign clients.
func sanitize(items []Line) []Line {
	out := make([]Line, 0, len(items))
	index := make(map[string]int, len(items))
	for _, l := range items {
		if l.Quantity < 1 {
			continue
		}
		id := LineID(l.Product.ID, l.SelectedDimensions)
		l.CartID = id
		if i, ok := index[id]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, l)
	}
	return out
}
