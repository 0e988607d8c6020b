package stockroom

import (
	"iter"
	"reflect"
)

// UID identifies an entity or a pool slot. UIDs are unique among active
// identifiers and may be reused once released.
type UID uint32

// InvalidUID is returned where no UID could be issued.
const InvalidUID = ^UID(0)

// typedPool is what Assign and ComponentArray need from a concrete pool.
type typedPool[T any] interface {
	DataPool
	Add(UID, T) (int, error)
	Get(UID) *T
	at(int) *T
	uidAt(int) UID
}

var (
	_ typedPool[int] = &Pool[int]{}
	_ typedPool[int] = &AlignedPool[int]{}
)

// slotIndex keeps a dense UID list and a UID to slot map for swap-and-pop
// removal.
type slotIndex struct {
	uids     []UID
	indices  map[UID]int
	capacity int
}

func newSlotIndex(capacity int) slotIndex {
	return slotIndex{
		uids:     make([]UID, 0, capacity),
		indices:  make(map[UID]int, capacity),
		capacity: capacity,
	}
}

func (s *slotIndex) Size() int {
	return len(s.uids)
}

func (s *slotIndex) Capacity() int {
	return s.capacity
}

func (s *slotIndex) Has(uid UID) bool {
	_, ok := s.indices[uid]
	return ok
}

// UIDs returns a copy of the active UIDs in slot order.
func (s *slotIndex) UIDs() []UID {
	out := make([]UID, len(s.uids))
	copy(out, s.uids)
	return out
}

func (s *slotIndex) uidAt(i int) UID {
	return s.uids[i]
}

func (s *slotIndex) push(uid UID) (int, bool) {
	if len(s.uids) >= s.capacity {
		return -1, false
	}
	idx := len(s.uids)
	s.uids = append(s.uids, uid)
	s.indices[uid] = idx
	return idx, true
}

// pop removes uid and reports the freed slot and the slot that must be moved
// into it. moved == freed when the removed slot was the last one.
func (s *slotIndex) pop(uid UID) (freed, moved int, ok bool) {
	freed, ok = s.indices[uid]
	if !ok {
		return -1, -1, false
	}
	moved = len(s.uids) - 1
	if freed != moved {
		last := s.uids[moved]
		s.uids[freed] = last
		s.indices[last] = freed
	}
	s.uids = s.uids[:moved]
	delete(s.indices, uid)
	return freed, moved, true
}

func (s *slotIndex) reset(capacity int) {
	*s = newSlotIndex(capacity)
}

// Pool is a fixed-capacity dense store keyed by an externally supplied UID.
// Values are packed contiguously; removing a slot moves the last value into
// the hole, so pointers returned by Get are only valid until the next Add or
// Remove on the pool.
type Pool[T any] struct {
	slotIndex
	values []T
}

func NewPool[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		slotIndex: newSlotIndex(capacity),
		values:    make([]T, 0, capacity),
	}
}

// Add stores v under uid and returns its slot index. An existing uid is
// overwritten in place. Returns -1 and PoolFullError when the pool is full.
func (p *Pool[T]) Add(uid UID, v T) (int, error) {
	if idx, ok := p.indices[uid]; ok {
		p.values[idx] = v
		return idx, nil
	}
	idx, ok := p.push(uid)
	if !ok {
		return -1, PoolFullError{Capacity: p.capacity}
	}
	p.values = append(p.values, v)
	return idx, nil
}

func (p *Pool[T]) Remove(uid UID) {
	freed, moved, ok := p.pop(uid)
	if !ok {
		return
	}
	p.values[freed] = p.values[moved]
	var zero T
	p.values[moved] = zero
	p.values = p.values[:moved]
}

func (p *Pool[T]) Get(uid UID) *T {
	idx, ok := p.indices[uid]
	if !ok {
		return nil
	}
	return &p.values[idx]
}

// Values returns the packed value buffer. Index i belongs to UIDs()[i].
func (p *Pool[T]) Values() []T {
	return p.values
}

func (p *Pool[T]) All() iter.Seq2[UID, *T] {
	return func(yield func(UID, *T) bool) {
		for i := range p.values {
			if !yield(p.uids[i], &p.values[i]) {
				return
			}
		}
	}
}

func (p *Pool[T]) at(i int) *T {
	return &p.values[i]
}

func (p *Pool[T]) Clear() {
	clear(p.values)
	p.values = p.values[:0]
	p.reset(p.capacity)
}

func (p *Pool[T]) ElementType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (p *Pool[T]) Assign(src DataPool) error {
	if DataPool(p) == src {
		return nil
	}
	other, err := asTypedPool[T](p, src)
	if err != nil {
		return err
	}
	p.reset(other.Capacity())
	p.values = make([]T, 0, other.Capacity())
	copyEntries[T](p, other)
	return nil
}

func (p *Pool[T]) Clone() DataPool {
	c := NewPool[T](p.capacity)
	copyEntries[T](c, p)
	return c
}

func asTypedPool[T any](dst, src DataPool) (typedPool[T], error) {
	other, ok := src.(typedPool[T])
	if !ok || src == nil {
		var got reflect.Type
		if src != nil {
			got = src.ElementType()
		}
		return nil, PoolTypeMismatchError{Want: dst.ElementType(), Got: got}
	}
	return other, nil
}

// copyEntries appends every entry of src to dst in slot order. dst must be
// empty and large enough.
func copyEntries[T any](dst, src typedPool[T]) {
	for i := 0; i < src.Size(); i++ {
		_, _ = dst.Add(src.uidAt(i), cloneValue(*src.at(i)))
	}
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}
