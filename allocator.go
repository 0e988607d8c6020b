package stockroom

import (
	"fmt"

	"go.uber.org/zap"
)

var _ Store = &Allocator{}

// Allocator is the top-level store. Besides entity and component storage it
// installs nested buffers, tracks edge entities and runs system registration.
type Allocator struct {
	*storage
	alignment   int
	edgeQuery   QueryID
	bufferQuery QueryID
	systems     []registeredSystem
}

func NewAllocator(opts ...Option) *Allocator {
	o := buildOptions(DefaultMaxEntities, opts...)
	a := &Allocator{
		storage:   newStorage(o),
		alignment: o.alignment,
	}
	a.edgeQuery = a.mustTrack(Register[Edge](a))
	a.bufferQuery = a.mustTrack(Register[Buffer](a))
	a.onRemove = a.removeNodeEntityFromEdges
	return a
}

// mustTrack registers a query for a built-in component type. Both built-ins
// are registered on an empty allocator, so neither step can fail.
func (a *Allocator) mustTrack(sig Signature, err error) QueryID {
	if err != nil {
		panic(fmt.Sprintf("stockroom: registering built-in component: %v", err))
	}
	id, err := a.AddArchetypeQuery(sig)
	if err != nil {
		panic(fmt.Sprintf("stockroom: registering built-in query: %v", err))
	}
	return id
}

func (a *Allocator) Logger() *zap.Logger {
	return a.logger
}

// AddEntityComponentBuffer creates an entity carrying a new Buffer with the
// given component types registered and registration locked. It returns
// InvalidUID and the cause when the buffer cannot be installed.
func (a *Allocator) AddEntityComponentBuffer(maxEntities int, types ...ComponentType) (UID, error) {
	uid, err := a.AddEntity()
	if err != nil {
		return InvalidUID, err
	}
	temp := NewBuffer(maxEntities, WithLogger(a.logger), WithAlignment(a.alignment))
	for _, t := range types {
		if _, err := t.RegisterIn(temp); err != nil {
			_ = a.RemoveEntity(uid)
			return InvalidUID, fmt.Errorf("failed to register %v in buffer: %w", t.Type(), err)
		}
	}
	temp.LockRegistration()

	moved, err := temp.Transfer()
	if err != nil {
		_ = a.RemoveEntity(uid)
		return InvalidUID, err
	}
	if err := Update(a, uid, moved); err != nil {
		a.logger.Debug("could not install buffer", zap.Uint32("uid", uint32(uid)), zap.Error(err))
		_ = a.RemoveEntity(uid)
		return InvalidUID, err
	}
	return uid, nil
}

// EntityComponentBuffer returns the buffer stored on uid, or nil. The pointer
// follows the usual pool validity rules.
func (a *Allocator) EntityComponentBuffer(uid UID) *Buffer {
	return Get[Buffer](a, uid)
}

// BufferEntities is the set of entities carrying a Buffer.
func (a *Allocator) BufferEntities() EntitySet {
	return a.QueryEntities(a.bufferQuery)
}

// NewCursor walks the entities of a registered query.
func (a *Allocator) NewCursor(query QueryID) *Cursor {
	return newCursor(query, a)
}
