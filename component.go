package stockroom

import (
	"reflect"
)

// componentManager owns one pool per registered component type, indexed by the
// type's signature bit.
type componentManager struct {
	registry  *typeRegistry
	pools     [MaxComponentTypes]DataPool
	capacity  int
	alignment int
}

func newComponentManager(capacity, alignment int) *componentManager {
	return &componentManager{
		registry:  newTypeRegistry(),
		capacity:  capacity,
		alignment: alignment,
	}
}

func registerComponent[T any](cm *componentManager) (Signature, error) {
	sig, created, err := registerType[T](cm.registry)
	if err != nil {
		return ErrorSignature, err
	}
	if created {
		cm.pools[sig.index()] = newPoolFor[T](cm.capacity, cm.alignment)
	}
	return sig, nil
}

// newPoolFor prefers an aligned pool when an alignment is configured and T can
// live in one.
func newPoolFor[T any](capacity, alignment int) DataPool {
	if alignment > 0 {
		if p, err := NewAlignedPool[T](capacity, alignment); err == nil {
			return p
		}
	}
	return NewPool[T](capacity)
}

func (cm *componentManager) signature(t reflect.Type) Signature {
	return cm.registry.signature(t)
}

func (cm *componentManager) pool(sig Signature) DataPool {
	if sig.Empty() {
		return nil
	}
	return cm.pools[sig.index()]
}

func poolOf[T any](cm *componentManager) typedPool[T] {
	p, ok := cm.pool(cm.signature(reflect.TypeFor[T]())).(typedPool[T])
	if !ok {
		return nil
	}
	return p
}

func addComponent[T any](cm *componentManager, uid UID, v T) error {
	p := poolOf[T](cm)
	if p == nil {
		return UnregisteredComponentError{Type: reflect.TypeFor[T]()}
	}
	_, err := p.Add(uid, v)
	return err
}

func getComponent[T any](cm *componentManager, uid UID) *T {
	p := poolOf[T](cm)
	if p == nil {
		return nil
	}
	return p.Get(uid)
}

// removeAll drops uid from every pool named by arch.
func (cm *componentManager) removeAll(uid UID, arch Archetype) {
	for _, bit := range arch.Bits() {
		if p := cm.pools[bit]; p != nil {
			p.Remove(uid)
		}
	}
}

func (cm *componentManager) clone() *componentManager {
	c := &componentManager{
		registry:  cm.registry.clone(),
		capacity:  cm.capacity,
		alignment: cm.alignment,
	}
	for i, p := range cm.pools {
		if p != nil {
			c.pools[i] = p.Clone()
		}
	}
	return c
}

// ComponentArray is a read/write view over the packed storage of one
// component type, for bulk iteration by systems.
type ComponentArray[T any] struct {
	pool typedPool[T]
}

func (a ComponentArray[T]) Len() int {
	if a.pool == nil {
		return 0
	}
	return a.pool.Size()
}

// At returns the i-th packed value; valid until the next structural change.
func (a ComponentArray[T]) At(i int) *T {
	return a.pool.at(i)
}

// UID returns the owner of the i-th packed value.
func (a ComponentArray[T]) UID(i int) UID {
	return a.pool.uidAt(i)
}

// Values returns the packed slice when the storage is a plain Pool, nil for
// aligned storage whose stride differs from the element size.
func (a ComponentArray[T]) Values() []T {
	if p, ok := a.pool.(*Pool[T]); ok {
		return p.Values()
	}
	return nil
}
