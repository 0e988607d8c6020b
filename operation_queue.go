package stockroom

import (
	"fmt"
	"reflect"
)

type operation struct {
	typ    operationType
	amount int
	uid    UID
	comp   reflect.Type
	apply  func(*storage) error
}

type operationType int

const (
	opNoop operationType = iota - 1
	opCreate
	opDestroy
	opComponent
)

type opKey struct {
	uid  UID
	comp reflect.Type
}

// opQueue holds structural changes requested while storage is locked. They
// run in order: creates, component changes, destroys.
type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[UID]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[UID]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) empty() bool {
	return len(q.createOps) == 0 && len(q.componentOps) == 0 && len(q.destroyOps) == 0
}

func (q *opQueue) enqueueCreate(n int) {
	q.createOps = append(q.createOps, operation{typ: opCreate, amount: n})
}

func (q *opQueue) enqueueDestroy(uid UID) {
	if _, exists := q.pendingDestroy[uid]; exists {
		return
	}
	q.pendingDestroy[uid] = struct{}{}

	// Pending component changes on a destroyed entity are dropped.
	for key, idx := range q.pendingMods {
		if key.uid == uid {
			q.componentOps[idx].typ = opNoop
			delete(q.pendingMods, key)
		}
	}
	q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, uid: uid})
}

// enqueueComponentOp keeps only the latest change per entity and component
// type.
func (q *opQueue) enqueueComponentOp(uid UID, comp reflect.Type, apply func(*storage) error) {
	if _, isDestroyed := q.pendingDestroy[uid]; isDestroyed {
		return
	}
	key := opKey{uid: uid, comp: comp}
	if idx, exists := q.pendingMods[key]; exists {
		q.componentOps[idx].apply = apply
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:   opComponent,
		uid:   uid,
		comp:  comp,
		apply: apply,
	})
}

func (q *opQueue) reset() {
	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
}

func (sto *storage) processOperationQueue() error {
	if sto.opQueue.empty() {
		return nil
	}
	defer sto.opQueue.reset()

	for _, op := range sto.opQueue.createOps {
		for i := 0; i < op.amount; i++ {
			if _, err := sto.AddEntity(); err != nil {
				return fmt.Errorf("failed to process queued entity creation: %w", err)
			}
		}
	}

	for _, op := range sto.opQueue.componentOps {
		if op.typ == opNoop {
			continue
		}
		if err := op.apply(sto); err != nil {
			return fmt.Errorf("failed to apply queued %v change on entity %d: %w", op.comp, op.uid, err)
		}
	}

	for _, op := range sto.opQueue.destroyOps {
		if !sto.entities.isActive(op.uid) {
			continue
		}
		if err := sto.RemoveEntity(op.uid); err != nil {
			return fmt.Errorf("failed to process queued entity removal: %w", err)
		}
	}
	return nil
}
