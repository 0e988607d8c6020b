package stockroom

type factory struct{}

var Factory factory

func (f factory) NewAllocator(opts ...Option) *Allocator {
	return NewAllocator(opts...)
}

func (f factory) NewBuffer(maxEntities int, opts ...Option) Buffer {
	return NewBuffer(maxEntities, opts...)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryID, store Store) *Cursor {
	return newCursor(query, store)
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{}
}

func FactoryNewPool[T any](capacity int) *Pool[T] {
	return NewPool[T](capacity)
}

func FactoryNewAlignedPool[T any](capacity, alignment int) (*AlignedPool[T], error) {
	return NewAlignedPool[T](capacity, alignment)
}
