/*
Package stockroom provides fixed-capacity, UID-addressed component storage with
incrementally maintained archetype queries.

Core Concepts:

  - UID: a bounded identifier for an entity or a pool slot, recycled through a free list.
  - Pool: a dense store of one component type keyed by UID; removal swaps the last slot in.
  - Signature: a bitmask of registered component types; an entity's signature is its Archetype.
  - Query: a registered signature whose matching entities are kept current on every change.
  - Buffer: a bounded nested store that can itself be stored as a component value.

Basic Usage:

	allocator := stockroom.Factory.NewAllocator(stockroom.WithMaxEntities(1000))

	position := stockroom.FactoryNewComponent[Position]()
	velocity := stockroom.FactoryNewComponent[Velocity]()
	position.RegisterIn(allocator)
	velocity.RegisterIn(allocator)

	moving, _ := allocator.AddQuery(stockroom.Factory.NewQuery().And(position, velocity))

	uid, _ := allocator.AddEntity()
	position.Add(allocator, uid, Position{})
	velocity.Add(allocator, uid, Velocity{X: 1})

	cursor := allocator.NewCursor(moving)
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Everything is single-threaded: no method may be called concurrently with another on
the same Allocator or Buffer.
*/
package stockroom
