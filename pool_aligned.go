package stockroom

import (
	"iter"
	"reflect"
	"unsafe"
)

// AlignedPool is a Pool whose every element starts on a caller-chosen byte
// boundary. Elements live in a byte arena with a stride rounded up to the
// alignment, so element types must not contain pointers.
type AlignedPool[T any] struct {
	slotIndex
	arena     []byte
	base      int
	stride    int
	alignment int
}

func NewAlignedPool[T any](capacity, alignment int) (*AlignedPool[T], error) {
	t := reflect.TypeFor[T]()
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		return nil, AlignmentError{Type: t, Alignment: alignment, Reason: "alignment must be a power of two"}
	}
	if hasPointers(t) {
		return nil, AlignmentError{Type: t, Alignment: alignment, Reason: "element type contains pointers"}
	}
	if capacity < 0 {
		capacity = 0
	}
	alignment = max(alignment, t.Align())
	stride := max(int(t.Size()), 1)
	stride = (stride + alignment - 1) &^ (alignment - 1)

	p := &AlignedPool[T]{
		slotIndex: newSlotIndex(capacity),
		stride:    stride,
		alignment: alignment,
	}
	p.allocate(capacity)
	return p, nil
}

// allocate over-allocates by one alignment unit and skips to the first aligned
// byte.
func (p *AlignedPool[T]) allocate(capacity int) {
	p.arena = make([]byte, capacity*p.stride+p.alignment)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena)))
	p.base = int((uintptr(p.alignment) - addr%uintptr(p.alignment)) % uintptr(p.alignment))
}

func (p *AlignedPool[T]) at(i int) *T {
	return (*T)(unsafe.Pointer(&p.arena[p.base+i*p.stride]))
}

func (p *AlignedPool[T]) Alignment() int {
	return p.alignment
}

// Stride is the distance in bytes between consecutive elements.
func (p *AlignedPool[T]) Stride() int {
	return p.stride
}

func (p *AlignedPool[T]) Add(uid UID, v T) (int, error) {
	if idx, ok := p.indices[uid]; ok {
		*p.at(idx) = v
		return idx, nil
	}
	idx, ok := p.push(uid)
	if !ok {
		return -1, PoolFullError{Capacity: p.capacity}
	}
	*p.at(idx) = v
	return idx, nil
}

func (p *AlignedPool[T]) Remove(uid UID) {
	freed, moved, ok := p.pop(uid)
	if !ok {
		return
	}
	var zero T
	*p.at(freed) = *p.at(moved)
	*p.at(moved) = zero
}

func (p *AlignedPool[T]) Get(uid UID) *T {
	idx, ok := p.indices[uid]
	if !ok {
		return nil
	}
	return p.at(idx)
}

func (p *AlignedPool[T]) All() iter.Seq2[UID, *T] {
	return func(yield func(UID, *T) bool) {
		for i, uid := range p.uids {
			if !yield(uid, p.at(i)) {
				return
			}
		}
	}
}

func (p *AlignedPool[T]) Clear() {
	clear(p.arena)
	p.reset(p.capacity)
}

func (p *AlignedPool[T]) ElementType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (p *AlignedPool[T]) Assign(src DataPool) error {
	if DataPool(p) == src {
		return nil
	}
	other, err := asTypedPool[T](p, src)
	if err != nil {
		return err
	}
	p.reset(other.Capacity())
	p.allocate(other.Capacity())
	copyEntries[T](p, other)
	return nil
}

func (p *AlignedPool[T]) Clone() DataPool {
	c := &AlignedPool[T]{
		slotIndex: newSlotIndex(p.capacity),
		stride:    p.stride,
		alignment: p.alignment,
	}
	c.allocate(p.capacity)
	copyEntries[T](c, p)
	return c
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.String, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
