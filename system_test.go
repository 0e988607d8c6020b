package stockroom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementSystem struct {
	moving      QueryID
	registered  int
	initialized int
	failOn      string
}

func (s *movementSystem) Register(a *Allocator) error {
	s.registered++
	if s.failOn == "register" {
		return errors.New("register failed")
	}
	position := FactoryNewComponent[Position]()
	velocity := FactoryNewComponent[Velocity]()
	for _, c := range []ComponentType{position, velocity} {
		if _, err := c.RegisterIn(a); err != nil {
			return err
		}
	}
	id, err := a.AddQuery(Factory.NewQuery().And(position, velocity))
	if err != nil {
		return err
	}
	s.moving = id
	return nil
}

func (s *movementSystem) Initialize(a *Allocator) error {
	s.initialized++
	if s.failOn == "initialize" {
		return errors.New("initialize failed")
	}
	return nil
}

func (s *movementSystem) Run(a *Allocator) {
	position := FactoryNewComponent[Position]()
	velocity := FactoryNewComponent[Velocity]()
	cursor := a.NewCursor(s.moving)
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}
}

func TestInitializeSystems(t *testing.T) {
	a := NewAllocator(WithMaxEntities(8))
	sys := &movementSystem{}
	assert.Same(t, sys, a.RegisterSystem(sys))

	require.NoError(t, a.InitializeSystems())
	require.NoError(t, a.InitializeSystems())
	assert.Equal(t, 1, sys.registered)
	assert.Equal(t, 1, sys.initialized)

	uid, err := a.AddEntity()
	require.NoError(t, err)
	require.NoError(t, Add(a, uid, Position{}))
	require.NoError(t, Add(a, uid, Velocity{X: 1, Y: -1}))

	sys.Run(a)
	sys.Run(a)
	assert.Equal(t, Position{X: 2, Y: -2}, *Get[Position](a, uid))
}

func TestInitializeSystemsFailure(t *testing.T) {
	tests := []struct {
		failOn      string
		initialized int
	}{
		{"register", 0},
		{"initialize", 1},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			a := NewAllocator(WithMaxEntities(8))
			failing := &movementSystem{failOn: tt.failOn}
			after := &movementSystem{}
			a.RegisterSystem(failing)
			a.RegisterSystem(after)

			err := a.InitializeSystems()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.failOn)
			assert.Equal(t, tt.initialized, failing.initialized)
			assert.Equal(t, 0, after.registered)

			failing.failOn = ""
			require.NoError(t, a.InitializeSystems())
			assert.Equal(t, 1, after.initialized)
		})
	}
}
