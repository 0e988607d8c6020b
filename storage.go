package stockroom

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// storage wires the entity, component and query managers together and keeps
// archetypes and query membership in step with component storage.
type storage struct {
	entities   *entityManager
	components *componentManager
	queries    *queryManager
	logger     *zap.Logger
	locks      mask.Mask
	opQueue    opQueue
	// cursors counts active cursor walks; it locks the store independently of
	// the caller-owned lock bits.
	cursors int
	// lockOnUse locks type registration when the first entity is created.
	lockOnUse bool
	// onRemove runs after an entity is removed.
	onRemove func(UID)
}

func newStorage(o options) *storage {
	return &storage{
		entities:   newEntityManager(o.maxEntities),
		components: newComponentManager(o.maxEntities, o.alignment),
		queries:    newQueryManager(),
		logger:     o.logger,
		opQueue:    newOpQueue(),
	}
}

func (sto *storage) backing() (*storage, error) {
	return sto, nil
}

func (sto *storage) MaxEntities() int {
	return sto.entities.maxEntities
}

func (sto *storage) AddEntity() (UID, error) {
	if sto.Locked() {
		return InvalidUID, LockedStorageError{}
	}
	uid, err := sto.entities.addEntity()
	if err != nil {
		sto.logger.Debug("entity capacity exhausted", zap.Int("max", sto.entities.maxEntities))
		return InvalidUID, err
	}
	if sto.lockOnUse {
		sto.components.registry.lock()
	}
	return uid, nil
}

// RemoveEntity drops every component of uid, removes it from all queries and
// releases the UID for reuse.
func (sto *storage) RemoveEntity(uid UID) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if !sto.entities.isActive(uid) {
		sto.logger.Debug("remove of inactive entity", zap.Uint32("uid", uint32(uid)))
		return InactiveEntityError{UID: uid}
	}
	arch := sto.entities.archetype(uid)
	sto.components.removeAll(uid, arch)
	sto.queries.moveEntity(uid, arch, Archetype{})
	sto.entities.removeEntity(uid)
	if sto.onRemove != nil {
		sto.onRemove(uid)
	}
	return nil
}

func (sto *storage) Active(uid UID) bool {
	return sto.entities.isActive(uid)
}

// Archetype returns ErrorSignature for inactive entities.
func (sto *storage) Archetype(uid UID) Archetype {
	return sto.entities.archetype(uid)
}

// Entities returns a copy of the active UIDs.
func (sto *storage) Entities() []UID {
	return append([]UID(nil), sto.entities.activeEntities()...)
}

func (sto *storage) Count() int {
	return sto.entities.count()
}

// AddArchetypeQuery registers a query requiring every given signature.
func (sto *storage) AddArchetypeQuery(sigs ...Signature) (QueryID, error) {
	return sto.addQuery(querySignature{required: NewSignature(sigs...)})
}

// AddQuery registers a query built with Factory.NewQuery. Every named type
// must be registered.
func (sto *storage) AddQuery(q Query) (QueryID, error) {
	var sig querySignature
	for _, t := range q.Required() {
		s := sto.components.signature(t)
		if s == ErrorSignature {
			return ErrorQuery, UnregisteredComponentError{Type: t}
		}
		sig.required.Merge(s)
	}
	for _, t := range q.Excluded() {
		s := sto.components.signature(t)
		if s == ErrorSignature {
			return ErrorQuery, UnregisteredComponentError{Type: t}
		}
		sig.excluded.Merge(s)
	}
	return sto.addQuery(sig)
}

func (sto *storage) addQuery(sig querySignature) (QueryID, error) {
	id, err := sto.queries.addArchetypeQuery(sig, sto.entities)
	if err != nil {
		sto.logger.Debug("rejected archetype query", zap.Error(err))
		return ErrorQuery, err
	}
	return id, nil
}

// QueryEntities returns the live members of a query, or an empty set for an
// unknown id.
func (sto *storage) QueryEntities(id QueryID) EntitySet {
	return sto.queries.archetypeEntities(id)
}

func (sto *storage) Locked() bool {
	return sto.cursors > 0 || sto.locks != mask.Mask{}
}

func (sto *storage) AddLock(bit uint32) {
	sto.locks.Mark(bit)
}

// RemoveLock clears a lock bit and, once no lock remains, applies queued
// operations.
func (sto *storage) RemoveLock(bit uint32) error {
	sto.locks.Unmark(bit)
	if sto.Locked() {
		return nil
	}
	return sto.processOperationQueue()
}

func (sto *storage) lockForCursor() {
	sto.cursors++
}

func (sto *storage) unlockForCursor() error {
	if sto.cursors == 0 {
		return nil
	}
	sto.cursors--
	if sto.Locked() {
		return nil
	}
	return sto.processOperationQueue()
}

func (sto *storage) EnqueueAddEntities(n int) error {
	if !sto.Locked() {
		for i := 0; i < n; i++ {
			if _, err := sto.AddEntity(); err != nil {
				return fmt.Errorf("failed to create entities directly: %w", err)
			}
		}
		return nil
	}
	sto.opQueue.enqueueCreate(n)
	return nil
}

func (sto *storage) EnqueueRemoveEntity(uid UID) error {
	if !sto.Locked() {
		return sto.RemoveEntity(uid)
	}
	sto.opQueue.enqueueDestroy(uid)
	return nil
}

// attach performs the archetype change for a new component, then stores the
// value. On a storage failure the archetype change is rolled back.
func (sto *storage) attach(uid UID, sig Signature, store func() error) error {
	from := sto.entities.archetype(uid)
	to := from
	to.Merge(sig)
	sto.entities.setArchetype(uid, to)
	sto.queries.moveEntity(uid, from, to)
	if err := store(); err != nil {
		sto.entities.setArchetype(uid, from)
		sto.queries.moveEntity(uid, to, from)
		return err
	}
	return nil
}

// detach removes the pool slot first, then shrinks the archetype.
func (sto *storage) detach(uid UID, sig Signature) {
	from := sto.entities.archetype(uid)
	if p := sto.components.pool(sig); p != nil {
		p.Remove(uid)
	}
	to := from
	to.Remove(sig)
	sto.entities.setArchetype(uid, to)
	sto.queries.moveEntity(uid, from, to)
}

func (sto *storage) logRejected(msg string, uid UID, t reflect.Type) {
	sto.logger.Debug(msg, zap.Uint32("uid", uint32(uid)), zap.Stringer("type", t))
}

func (sto *storage) clone() *storage {
	return &storage{
		entities:   sto.entities.clone(),
		components: sto.components.clone(),
		queries:    sto.queries.clone(),
		logger:     sto.logger,
		opQueue:    newOpQueue(),
		lockOnUse:  sto.lockOnUse,
	}
}
