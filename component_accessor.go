package stockroom

import (
	"reflect"

	"go.uber.org/zap"
)

// Register adds T to the store's component types and returns its signature.
// Registering a type twice returns the original signature.
func Register[T any](s Store) (Signature, error) {
	sto, err := s.backing()
	if err != nil {
		return ErrorSignature, err
	}
	sig, err := registerComponent[T](sto.components)
	if err != nil {
		sto.logger.Debug("component registration failed", zap.Stringer("type", reflect.TypeFor[T]()), zap.Error(err))
		return ErrorSignature, err
	}
	return sig, nil
}

// SignatureOf returns ErrorSignature when T is not registered.
func SignatureOf[T any](s Store) Signature {
	sto, err := s.backing()
	if err != nil {
		return ErrorSignature
	}
	return sto.components.signature(reflect.TypeFor[T]())
}

// Add attaches v to an active entity that does not yet carry a T. The
// entity's archetype and query membership change before the value is stored.
func Add[T any](s Store, uid UID, v T) error {
	if _, isBuffer := any(v).(Buffer); isBuffer {
		return BufferComponentError{UID: uid}
	}
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if sto.Locked() {
		return LockedStorageError{}
	}
	return add(sto, uid, v)
}

func add[T any](sto *storage, uid UID, v T) error {
	t := reflect.TypeFor[T]()
	if !sto.entities.isActive(uid) {
		sto.logRejected("add component to inactive entity", uid, t)
		return InactiveEntityError{UID: uid}
	}
	sig := sto.components.signature(t)
	if sig == ErrorSignature {
		sto.logRejected("add of unregistered component", uid, t)
		return UnregisteredComponentError{Type: t}
	}
	if sto.entities.archetype(uid).Supports(sig) {
		sto.logRejected("component already attached", uid, t)
		return ComponentExistsError{Type: t, UID: uid}
	}
	return sto.attach(uid, sig, func() error {
		return addComponent(sto.components, uid, v)
	})
}

// Update replaces an existing T on uid in place, or attaches it like Add.
// Passing a Buffer hands its state to the store; the caller must not use its
// copy afterwards.
func Update[T any](s Store, uid UID, v T) error {
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if sto.entities.isActive(uid) {
		if existing := getComponent[T](sto.components, uid); existing != nil {
			*existing = v
			return nil
		}
	}
	if sto.Locked() {
		return LockedStorageError{}
	}
	return add(sto, uid, v)
}

// Get returns nil when uid is inactive or does not carry a T. The pointer is
// valid until the next structural change to T's pool.
func Get[T any](s Store, uid UID) *T {
	sto, err := s.backing()
	if err != nil {
		return nil
	}
	if !sto.entities.isActive(uid) {
		return nil
	}
	sig := sto.components.signature(reflect.TypeFor[T]())
	if sig == ErrorSignature || !sto.entities.archetype(uid).Supports(sig) {
		return nil
	}
	return getComponent[T](sto.components, uid)
}

func Has[T any](s Store, uid UID) bool {
	sto, err := s.backing()
	if err != nil || !sto.entities.isActive(uid) {
		return false
	}
	sig := sto.components.signature(reflect.TypeFor[T]())
	return sig != ErrorSignature && sto.entities.archetype(uid).Supports(sig)
}

// Remove detaches T from uid. It is a no-op for inactive entities,
// unregistered types and entities without a T.
func Remove[T any](s Store, uid UID) error {
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if sto.Locked() {
		return LockedStorageError{}
	}
	remove[T](sto, uid)
	return nil
}

func remove[T any](sto *storage, uid UID) {
	t := reflect.TypeFor[T]()
	if !sto.entities.isActive(uid) {
		sto.logRejected("remove component from inactive entity", uid, t)
		return
	}
	sig := sto.components.signature(t)
	if sig == ErrorSignature || !sto.entities.archetype(uid).Supports(sig) {
		return
	}
	sto.detach(uid, sig)
}

// Components exposes T's packed storage for bulk iteration. The view is empty
// when T is not registered.
func Components[T any](s Store) ComponentArray[T] {
	sto, err := s.backing()
	if err != nil {
		return ComponentArray[T]{}
	}
	return ComponentArray[T]{pool: poolOf[T](sto.components)}
}

// EnqueueAdd runs Add now, or after the last lock is removed.
func EnqueueAdd[T any](s Store, uid UID, v T) error {
	if _, isBuffer := any(v).(Buffer); isBuffer {
		return BufferComponentError{UID: uid}
	}
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if !sto.Locked() {
		return add(sto, uid, v)
	}
	sto.opQueue.enqueueComponentOp(uid, reflect.TypeFor[T](), func(sto *storage) error {
		return add(sto, uid, v)
	})
	return nil
}

func EnqueueUpdate[T any](s Store, uid UID, v T) error {
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if !sto.Locked() {
		return Update(s, uid, v)
	}
	sto.opQueue.enqueueComponentOp(uid, reflect.TypeFor[T](), func(sto *storage) error {
		return Update(sto, uid, v)
	})
	return nil
}

func EnqueueRemove[T any](s Store, uid UID) error {
	sto, err := s.backing()
	if err != nil {
		return err
	}
	if !sto.Locked() {
		remove[T](sto, uid)
		return nil
	}
	sto.opQueue.enqueueComponentOp(uid, reflect.TypeFor[T](), func(sto *storage) error {
		remove[T](sto, uid)
		return nil
	})
	return nil
}
