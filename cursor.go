package stockroom

import (
	"iter"

	"go.uber.org/zap"
)

// Cursor walks the entities of one query. The store is locked from the first
// Next until the walk ends or Reset is called; structural changes in that
// window must go through the Enqueue functions.
type Cursor struct {
	query QueryID
	store Store

	// Current iteration state
	entities    []UID
	entityIndex int

	initialized bool
}

func newCursor(query QueryID, store Store) *Cursor {
	return &Cursor{
		query: query,
		store: store,
	}
}

func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.entityIndex < len(c.entities) {
		c.entityIndex++
		return true
	}
	_ = c.Reset()
	return false
}

// Entities yields each matching UID; breaking early releases the lock.
func (c *Cursor) Entities() iter.Seq[UID] {
	return func(yield func(UID) bool) {
		c.initialize()
		defer c.Reset()
		for c.entityIndex < len(c.entities) {
			c.entityIndex++
			if !yield(c.entities[c.entityIndex-1]) {
				return
			}
		}
	}
}

// initialize snapshots the membership so queued changes cannot disturb the
// walk.
func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.entities = c.store.QueryEntities(c.query).Slice()
	c.entityIndex = 0
	if sto, err := c.store.backing(); err == nil {
		sto.lockForCursor()
	}
	c.initialized = true
}

// Reset ends the walk and unlocks the store, applying queued operations.
func (c *Cursor) Reset() error {
	if !c.initialized {
		return nil
	}
	c.entityIndex = 0
	c.entities = nil
	c.initialized = false
	sto, err := c.store.backing()
	if err != nil {
		return nil
	}
	if err := sto.unlockForCursor(); err != nil {
		sto.logger.Warn("queued operations failed after cursor walk", zap.Error(err))
		return err
	}
	return nil
}

// CurrentEntity is the UID returned by the last successful Next.
func (c *Cursor) CurrentEntity() UID {
	if c.entityIndex == 0 || c.entityIndex > len(c.entities) {
		return InvalidUID
	}
	return c.entities[c.entityIndex-1]
}

func (c *Cursor) Remaining() int {
	return len(c.entities) - c.entityIndex
}

func (c *Cursor) TotalMatched() int {
	return c.store.QueryEntities(c.query).Len()
}
