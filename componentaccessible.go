package stockroom

import "reflect"

var _ ComponentType = AccessibleComponent[int]{}

// AccessibleComponent is a typed handle for one component type. It carries no
// state, so one handle works with every Store.
type AccessibleComponent[T any] struct{}

func (c AccessibleComponent[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c AccessibleComponent[T]) RegisterIn(s Store) (Signature, error) {
	return Register[T](s)
}

func (c AccessibleComponent[T]) Signature(s Store) Signature {
	return SignatureOf[T](s)
}

func (c AccessibleComponent[T]) Add(s Store, uid UID, v T) error {
	return Add(s, uid, v)
}

func (c AccessibleComponent[T]) Update(s Store, uid UID, v T) error {
	return Update(s, uid, v)
}

func (c AccessibleComponent[T]) Remove(s Store, uid UID) error {
	return Remove[T](s, uid)
}

func (c AccessibleComponent[T]) Has(s Store, uid UID) bool {
	return Has[T](s, uid)
}

// GetFromEntity retrieves the component value for the given entity.
func (c AccessibleComponent[T]) GetFromEntity(s Store, uid UID) *T {
	return Get[T](s, uid)
}

// GetFromCursor retrieves the component value for the entity at the cursor
// position.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return Get[T](cursor.store, cursor.CurrentEntity())
}

// GetFromCursorSafe reports whether the entity at the cursor carries T.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	v := c.GetFromCursor(cursor)
	return v != nil, v
}

// CheckCursor determines if the entity at the cursor carries T.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return Has[T](cursor.store, cursor.CurrentEntity())
}

// Components exposes T's packed storage in s.
func (c AccessibleComponent[T]) Components(s Store) ComponentArray[T] {
	return Components[T](s)
}
