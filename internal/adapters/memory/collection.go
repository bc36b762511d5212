package memory

import "sync"

// collection is an insertion-ordered keyed set of records with a private
// monotonically increasing ID counter starting at 1. Each collection guards
// itself with its own mutex.
type collection[T any] struct {
	mu     sync.Mutex
	nextID int
	order  []int
	items  map[int]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{
		nextID: 1,
		items:  make(map[int]T),
	}
}

// insert assigns the next ID, builds the record and stores it.
func (c *collection[T]) insert(build func(id int) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	item := build(id)
	c.items[id] = item
	c.order = append(c.order, id)
	return item
}

// insertUnless inserts like insert, but first scans the collection and
// refuses when conflict matches an existing record. Check and insert happen
// under one lock acquisition.
func (c *collection[T]) insertUnless(conflict func(T) bool, build func(id int) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.order {
		if conflict(c.items[id]) {
			var zero T
			return zero, false
		}
	}

	id := c.nextID
	c.nextID++

	item := build(id)
	c.items[id] = item
	c.order = append(c.order, id)
	return item, true
}

func (c *collection[T]) get(id int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	return item, ok
}

// all returns the records in insertion order.
func (c *collection[T]) all() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// update replaces the record under id with the mutated copy. Returns false
// when the id is absent.
func (c *collection[T]) update(id int, mutate func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return false
	}
	c.items[id] = mutate(item)
	return true
}
