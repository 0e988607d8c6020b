package stockroom

// Buffer is a bounded, self-contained entity/component store that can itself
// be stored as a component value. Component registration closes on the first
// AddEntity or an explicit LockRegistration.
//
// A Buffer value is a handle. Copying it shares the underlying state, so
// ownership is handed over explicitly: Transfer moves the state into a new
// handle, Release drops it. Either leaves the source an empty shell whose
// operations fail with ErrBufferReleased.
type Buffer struct {
	sto *storage
}

var (
	_ Store          = Buffer{}
	_ Cloner[Buffer] = Buffer{}
)

// NewBuffer creates a buffer holding at most maxEntities entities. Options
// other than WithMaxEntities apply as for an Allocator.
func NewBuffer(maxEntities int, opts ...Option) Buffer {
	o := buildOptions(maxEntities, opts...)
	o.maxEntities = max(maxEntities, 0)
	sto := newStorage(o)
	sto.lockOnUse = true
	return Buffer{sto: sto}
}

func (b Buffer) backing() (*storage, error) {
	if b.sto == nil {
		return nil, ErrBufferReleased
	}
	return b.sto, nil
}

// Released reports whether the handle no longer owns state.
func (b Buffer) Released() bool {
	return b.sto == nil
}

// Transfer moves the state to the returned handle. b becomes an empty shell.
func (b *Buffer) Transfer() (Buffer, error) {
	if b.sto == nil {
		return Buffer{}, ErrBufferReleased
	}
	moved := Buffer{sto: b.sto}
	b.sto = nil
	return moved, nil
}

// Release gives up this handle's ownership, typically after the buffer has
// been copied into a pool. A second call returns ErrBufferReleased.
func (b *Buffer) Release() error {
	if b.sto == nil {
		return ErrBufferReleased
	}
	b.sto = nil
	return nil
}

// Clone deep-copies entities, component pools and queries. Cloning a shell
// returns a shell.
func (b Buffer) Clone() Buffer {
	if b.sto == nil {
		return Buffer{}
	}
	return Buffer{sto: b.sto.clone()}
}

func (b Buffer) LockRegistration() {
	if b.sto != nil {
		b.sto.components.registry.lock()
	}
}

func (b Buffer) RegistrationLocked() bool {
	return b.sto == nil || b.sto.components.registry.locked
}

func (b Buffer) AddEntity() (UID, error) {
	if b.sto == nil {
		return InvalidUID, ErrBufferReleased
	}
	return b.sto.AddEntity()
}

func (b Buffer) RemoveEntity(uid UID) error {
	if b.sto == nil {
		return ErrBufferReleased
	}
	return b.sto.RemoveEntity(uid)
}

func (b Buffer) Active(uid UID) bool {
	return b.sto != nil && b.sto.Active(uid)
}

func (b Buffer) Archetype(uid UID) Archetype {
	if b.sto == nil {
		return ErrorSignature
	}
	return b.sto.Archetype(uid)
}

func (b Buffer) Entities() []UID {
	if b.sto == nil {
		return nil
	}
	return b.sto.Entities()
}

func (b Buffer) Count() int {
	if b.sto == nil {
		return 0
	}
	return b.sto.Count()
}

func (b Buffer) MaxEntities() int {
	if b.sto == nil {
		return 0
	}
	return b.sto.MaxEntities()
}

func (b Buffer) AddArchetypeQuery(sigs ...Signature) (QueryID, error) {
	if b.sto == nil {
		return ErrorQuery, ErrBufferReleased
	}
	return b.sto.AddArchetypeQuery(sigs...)
}

func (b Buffer) AddQuery(q Query) (QueryID, error) {
	if b.sto == nil {
		return ErrorQuery, ErrBufferReleased
	}
	return b.sto.AddQuery(q)
}

func (b Buffer) QueryEntities(id QueryID) EntitySet {
	if b.sto == nil {
		return EntitySet{}
	}
	return b.sto.QueryEntities(id)
}

func (b Buffer) Locked() bool {
	return b.sto != nil && b.sto.Locked()
}

func (b Buffer) AddLock(bit uint32) {
	if b.sto != nil {
		b.sto.AddLock(bit)
	}
}

func (b Buffer) RemoveLock(bit uint32) error {
	if b.sto == nil {
		return ErrBufferReleased
	}
	return b.sto.RemoveLock(bit)
}

func (b Buffer) EnqueueAddEntities(n int) error {
	if b.sto == nil {
		return ErrBufferReleased
	}
	return b.sto.EnqueueAddEntities(n)
}

func (b Buffer) EnqueueRemoveEntity(uid UID) error {
	if b.sto == nil {
		return ErrBufferReleased
	}
	return b.sto.EnqueueRemoveEntity(uid)
}
