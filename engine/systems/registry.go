package systems

import "go.uber.org/zap"

// registry is an identity set with O(1) register and remove. Removal swaps the
// last item into the hole, so iteration order is registration order only until
// the first removal.
type registry[T comparable] struct {
	name   string
	logger *zap.Logger
	items  []T
	index  map[T]int
}

func newRegistry[T comparable](name string, logger *zap.Logger) *registry[T] {
	return &registry[T]{
		name:   name,
		logger: logger,
		index:  make(map[T]int),
	}
}

// register adds item. A duplicate is logged and ignored.
func (r *registry[T]) register(item T) {
	if _, ok := r.index[item]; ok {
		r.logger.Warn("item already registered", zap.String("system", r.name))
		return
	}
	r.index[item] = len(r.items)
	r.items = append(r.items, item)
}

// remove drops item. A missing item is logged and ignored.
func (r *registry[T]) remove(item T) {
	i, ok := r.index[item]
	if !ok {
		r.logger.Warn("tried to remove item that is not registered", zap.String("system", r.name))
		return
	}
	last := len(r.items) - 1
	if i < last {
		moved := r.items[last]
		r.items[i] = moved
		r.index[moved] = i
	}
	var zero T
	r.items[last] = zero
	r.items = r.items[:last]
	delete(r.index, item)
}

func (r *registry[T]) contains(item T) bool {
	_, ok := r.index[item]
	return ok
}

func (r *registry[T]) len() int {
	return len(r.items)
}
