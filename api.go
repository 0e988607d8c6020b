package stockroom

import "reflect"

// Store is the entity/component surface shared by Allocator and Buffer. The
// generic component functions (Register, Add, Get, ...) accept any Store.
type Store interface {
	AddEntity() (UID, error)
	RemoveEntity(UID) error
	Active(UID) bool
	Archetype(UID) Archetype
	Entities() []UID
	MaxEntities() int
	AddArchetypeQuery(...Signature) (QueryID, error)
	AddQuery(Query) (QueryID, error)
	QueryEntities(QueryID) EntitySet
	backing() (*storage, error)
}

// DataPool is the type-erased view of a pool, so pools of different element
// types can be held uniformly.
type DataPool interface {
	Size() int
	Capacity() int
	Has(UID) bool
	Remove(UID)
	UIDs() []UID
	Clear()
	// Assign replaces the receiver's contents and capacity with a copy of src.
	// src must hold the same element type.
	Assign(src DataPool) error
	Clone() DataPool
	ElementType() reflect.Type
}

// Cloner is implemented by values that own internal storage and must be deep
// copied when a pool holding them is assigned or cloned.
type Cloner[T any] interface {
	Clone() T
}

// ComponentType names a component type without its value, for queries and
// buffer pre-registration.
type ComponentType interface {
	Type() reflect.Type
	RegisterIn(Store) (Signature, error)
}

// Query describes an archetype query by component type: every And type is
// required and every Not type is excluded.
type Query interface {
	And(items ...ComponentType) Query
	Not(items ...ComponentType) Query
	Required() []reflect.Type
	Excluded() []reflect.Type
}

// System is user code driven from outside the allocator. Register declares
// the component types and queries the system needs; Initialize runs once
// afterwards. The allocator never calls a system's update step.
type System interface {
	Register(a *Allocator) error
	Initialize(a *Allocator) error
}
