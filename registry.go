package stockroom

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// elementTypes holds one table element type per Go type. table numbers element
// types from a process-wide counter, so each type is created once and shared by
// every registry.
var elementTypes = struct {
	sync.Mutex
	byType map[reflect.Type]table.ElementType
}{byType: make(map[reflect.Type]table.ElementType)}

func elementTypeFor[T any]() table.ElementType {
	t := reflect.TypeFor[T]()
	elementTypes.Lock()
	defer elementTypes.Unlock()
	if et, ok := elementTypes.byType[t]; ok {
		return et
	}
	var et table.ElementType = table.FactoryNewElementType[T]()
	elementTypes.byType[t] = et
	return et
}

// registeredType binds a Go type to its table element type and signature bit.
type registeredType struct {
	typ       reflect.Type
	element   table.ElementType
	signature Signature
}

// typeRegistry assigns signature bits to component types in registration
// order. Each allocator and buffer owns one, so bits are scoped to that
// instance and never reused while it lives.
type typeRegistry struct {
	items       []registeredType
	itemIndices map[reflect.Type]int
	maxCapacity int
	locked      bool
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		itemIndices: make(map[reflect.Type]int),
		maxCapacity: MaxComponentTypes,
	}
}

func (r *typeRegistry) lookup(t reflect.Type) (registeredType, bool) {
	idx, ok := r.itemIndices[t]
	if !ok {
		return registeredType{}, false
	}
	return r.items[idx], true
}

func (r *typeRegistry) signature(t reflect.Type) Signature {
	item, ok := r.lookup(t)
	if !ok {
		return ErrorSignature
	}
	return item.signature
}

func (r *typeRegistry) len() int {
	return len(r.items)
}

func (r *typeRegistry) lock() {
	r.locked = true
}

// register returns the existing signature for an already registered type.
func registerType[T any](r *typeRegistry) (Signature, bool, error) {
	t := reflect.TypeFor[T]()
	if item, ok := r.lookup(t); ok {
		return item.signature, false, nil
	}
	if r.locked {
		return ErrorSignature, false, RegistrationLockedError{Type: t}
	}
	if len(r.items) >= r.maxCapacity {
		return ErrorSignature, false, ComponentCapacityError{Type: t, Max: r.maxCapacity}
	}

	sig := signatureFor(uint32(len(r.items)))
	r.itemIndices[t] = len(r.items)
	r.items = append(r.items, registeredType{
		typ:       t,
		element:   elementTypeFor[T](),
		signature: sig,
	})
	return sig, true, nil
}

// clone copies the registrations. Signatures are copied verbatim so pools
// keyed by them stay valid.
func (r *typeRegistry) clone() *typeRegistry {
	c := &typeRegistry{
		items:       make([]registeredType, len(r.items)),
		itemIndices: make(map[reflect.Type]int, len(r.itemIndices)),
		maxCapacity: r.maxCapacity,
		locked:      r.locked,
	}
	copy(c.items, r.items)
	for i, item := range c.items {
		c.itemIndices[item.typ] = i
	}
	return c
}
