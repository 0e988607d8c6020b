package stockroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAllocatorComponentLifecycle(t *testing.T) {
	a := NewAllocator(WithMaxEntities(8))
	pos, err := Register[Position](a)
	require.NoError(t, err)
	again, err := Register[Position](a)
	require.NoError(t, err)
	assert.Equal(t, pos, again)

	uid, err := a.AddEntity()
	require.NoError(t, err)
	assert.True(t, a.Archetype(uid).Empty())

	require.NoError(t, Add(a, uid, Position{X: 1, Y: 2}))
	assert.True(t, Has[Position](a, uid))
	assert.True(t, a.Archetype(uid).Supports(pos))
	assert.Equal(t, Position{X: 1, Y: 2}, *Get[Position](a, uid))

	err = Add(a, uid, Position{})
	assert.ErrorAs(t, err, &ComponentExistsError{})
	assert.Equal(t, Position{X: 1, Y: 2}, *Get[Position](a, uid))

	require.NoError(t, Update(a, uid, Position{X: 5}))
	assert.Equal(t, Position{X: 5}, *Get[Position](a, uid))

	Get[Position](a, uid).Y = 7
	assert.Equal(t, 7.0, Get[Position](a, uid).Y)

	require.NoError(t, Remove[Position](a, uid))
	assert.False(t, Has[Position](a, uid))
	assert.Nil(t, Get[Position](a, uid))
	assert.True(t, a.Archetype(uid).Empty())

	require.NoError(t, Remove[Position](a, uid))
}

func TestAllocatorRejections(t *testing.T) {
	a := NewAllocator(WithMaxEntities(2))
	_, err := Register[Position](a)
	require.NoError(t, err)

	tests := []struct {
		name   string
		run    func() error
		target any
	}{
		{
			name:   "add to inactive entity",
			run:    func() error { return Add(a, 1, Position{}) },
			target: &InactiveEntityError{},
		},
		{
			name:   "add out of range",
			run:    func() error { return Add(a, 500, Position{}) },
			target: &InactiveEntityError{},
		},
		{
			name:   "add unregistered type",
			run:    func() error { return Add(a, 0, Velocity{}) },
			target: &UnregisteredComponentError{},
		},
		{
			name:   "update inactive entity",
			run:    func() error { return Update(a, 1, Position{}) },
			target: &InactiveEntityError{},
		},
		{
			name:   "add buffer value",
			run:    func() error { return Add(a, 0, NewBuffer(4)) },
			target: &BufferComponentError{},
		},
	}

	uid, err := a.AddEntity()
	require.NoError(t, err)
	require.Equal(t, UID(0), uid)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			assert.True(t, a.Archetype(uid).Empty())
		})
	}

	assert.Nil(t, Get[Velocity](a, uid))
	assert.False(t, Has[Velocity](a, uid))
	assert.NoError(t, Remove[Velocity](a, uid))
	assert.NoError(t, Remove[Position](a, 1))
}

func TestAllocatorEntityCapacity(t *testing.T) {
	a := NewAllocator(WithMaxEntities(3))
	assert.Equal(t, 3, a.MaxEntities())
	for i := 0; i < 3; i++ {
		_, err := a.AddEntity()
		require.NoError(t, err)
	}
	uid, err := a.AddEntity()
	assert.ErrorAs(t, err, &EntityCapacityError{})
	assert.Equal(t, InvalidUID, uid)

	require.NoError(t, a.RemoveEntity(1))
	uid, err = a.AddEntity()
	require.NoError(t, err)
	assert.Equal(t, UID(1), uid)
}

// registerInStore registers [1]byte through [63]byte in a Store.
var registerInStore = []func(Store) (Signature, error){
	Register[[1]byte],
	Register[[2]byte],
	Register[[3]byte],
	Register[[4]byte],
	Register[[5]byte],
	Register[[6]byte],
	Register[[7]byte],
	Register[[8]byte],
	Register[[9]byte],
	Register[[10]byte],
	Register[[11]byte],
	Register[[12]byte],
	Register[[13]byte],
	Register[[14]byte],
	Register[[15]byte],
	Register[[16]byte],
	Register[[17]byte],
	Register[[18]byte],
	Register[[19]byte],
	Register[[20]byte],
	Register[[21]byte],
	Register[[22]byte],
	Register[[23]byte],
	Register[[24]byte],
	Register[[25]byte],
	Register[[26]byte],
	Register[[27]byte],
	Register[[28]byte],
	Register[[29]byte],
	Register[[30]byte],
	Register[[31]byte],
	Register[[32]byte],
	Register[[33]byte],
	Register[[34]byte],
	Register[[35]byte],
	Register[[36]byte],
	Register[[37]byte],
	Register[[38]byte],
	Register[[39]byte],
	Register[[40]byte],
	Register[[41]byte],
	Register[[42]byte],
	Register[[43]byte],
	Register[[44]byte],
	Register[[45]byte],
	Register[[46]byte],
	Register[[47]byte],
	Register[[48]byte],
	Register[[49]byte],
	Register[[50]byte],
	Register[[51]byte],
	Register[[52]byte],
	Register[[53]byte],
	Register[[54]byte],
	Register[[55]byte],
	Register[[56]byte],
	Register[[57]byte],
	Register[[58]byte],
	Register[[59]byte],
	Register[[60]byte],
	Register[[61]byte],
	Register[[62]byte],
	Register[[63]byte],
}

func TestAllocatorComponentTypeCapacity(t *testing.T) {
	a := NewAllocator(WithMaxEntities(2))
	// Edge and Buffer take the first two bits.
	builtins := 2
	for i, register := range registerInStore[:MaxComponentTypes-builtins] {
		sig, err := register(a)
		require.NoError(t, err)
		require.Equal(t, []uint32{uint32(i + builtins)}, sig.Bits())
	}

	sig, err := registerInStore[MaxComponentTypes-builtins](a)
	assert.ErrorAs(t, err, &ComponentCapacityError{})
	assert.Equal(t, ErrorSignature, sig)
	assert.Equal(t, ErrorSignature, SignatureOf[[63]byte](a))

	uid, err := a.AddEntity()
	require.NoError(t, err)
	require.NoError(t, Add(a, uid, [62]byte{1}))
	assert.Equal(t, byte(1), Get[[62]byte](a, uid)[0])
}

func TestAllocatorsAssignSameBits(t *testing.T) {
	first := NewAllocator(WithMaxEntities(2))
	second := NewAllocator(WithMaxEntities(2))
	for _, a := range []*Allocator{first, second} {
		for _, register := range []func(Store) (Signature, error){Register[Position], Register[Velocity], Register[Health]} {
			_, err := register(a)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, SignatureOf[Edge](first), SignatureOf[Edge](second))
	assert.Equal(t, SignatureOf[Buffer](first), SignatureOf[Buffer](second))
	assert.Equal(t, SignatureOf[Position](first), SignatureOf[Position](second))
	assert.Equal(t, SignatureOf[Health](first), SignatureOf[Health](second))
	assert.Equal(t, []uint32{0}, SignatureOf[Edge](first).Bits())
	assert.Equal(t, []uint32{2}, SignatureOf[Position](second).Bits())
}

func TestManyStoresBackToBack(t *testing.T) {
	const stores = 200
	var want Signature
	for i := 0; i < stores; i++ {
		a := NewAllocator(WithMaxEntities(1))
		sig, err := Register[Position](a)
		require.NoError(t, err, "allocator %d", i)
		_, err = Register[Velocity](a)
		require.NoError(t, err)

		buf := NewBuffer(1)
		bufSig, err := Register[Position](buf)
		require.NoError(t, err, "buffer %d", i)
		assert.Equal(t, []uint32{0}, bufSig.Bits())

		if i == 0 {
			want = sig
		}
		require.Equal(t, want, sig)
	}
}

func TestAllocatorComponents(t *testing.T) {
	a := NewAllocator(WithMaxEntities(16))
	health := FactoryNewComponent[Health]()
	_, err := health.RegisterIn(a)
	require.NoError(t, err)

	assert.Equal(t, 0, Components[Velocity](a).Len())
	assert.Nil(t, Components[Velocity](a).Values())

	for i := 0; i < 5; i++ {
		uid, err := a.AddEntity()
		require.NoError(t, err)
		require.NoError(t, health.Add(a, uid, Health{Current: i, Max: 10}))
	}
	require.NoError(t, health.Remove(a, 2))

	healths := health.Components(a)
	require.Equal(t, 4, healths.Len())
	assert.Len(t, healths.Values(), 4)
	for i := 0; i < healths.Len(); i++ {
		assert.Equal(t, int(healths.UID(i)), healths.At(i).Current)
		healths.At(i).Current += 100
	}
	assert.Equal(t, 103, health.GetFromEntity(a, 3).Current)
}

func TestAllocatorAlignedComponents(t *testing.T) {
	a := NewAllocator(WithMaxEntities(8), WithAlignment(64))
	_, err := Register[vec4](a)
	require.NoError(t, err)
	_, err = Register[Edge](a)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		uid, err := a.AddEntity()
		require.NoError(t, err)
		require.NoError(t, Add(a, uid, vec4{X: float32(i)}))
	}
	_, aligned := a.components.pool(SignatureOf[vec4](a)).(*AlignedPool[vec4])
	assert.True(t, aligned)
	_, plain := a.components.pool(SignatureOf[Buffer](a)).(*Pool[Buffer])
	assert.True(t, plain)

	vs := Components[vec4](a)
	assert.Nil(t, vs.Values())
	for i := 0; i < vs.Len(); i++ {
		assert.Equal(t, float32(vs.UID(i)), vs.At(i).X)
	}
}

func TestAllocatorLogsRejections(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAllocator(WithMaxEntities(1), WithLogger(zap.New(core)))
	assert.Same(t, a.Logger(), a.logger)

	_, err := a.AddEntity()
	require.NoError(t, err)
	_, err = a.AddEntity()
	require.Error(t, err)
	require.Error(t, Add(a, 0, Velocity{}))

	assert.Equal(t, 1, logs.FilterMessage("entity capacity exhausted").Len())
	assert.Equal(t, 1, logs.FilterMessage("add of unregistered component").Len())
}

func TestAllocatorEntityComponentBuffer(t *testing.T) {
	a := NewAllocator(WithMaxEntities(8))
	uid, err := a.AddEntityComponentBuffer(4, FactoryNewComponent[float32](), FactoryNewComponent[Position]())
	require.NoError(t, err)
	assert.True(t, a.BufferEntities().Has(uid))

	buf := a.EntityComponentBuffer(uid)
	require.NotNil(t, buf)
	assert.True(t, buf.RegistrationLocked())
	assert.Equal(t, 4, buf.MaxEntities())

	inner, err := buf.AddEntity()
	require.NoError(t, err)
	require.NoError(t, Add(*buf, inner, float32(2.5)))
	require.NoError(t, Add(*buf, inner, Position{X: 1}))
	assert.Equal(t, float32(2.5), *Get[float32](*buf, inner))

	_, err = Register[Velocity](*buf)
	assert.ErrorAs(t, err, &RegistrationLockedError{})

	assert.Nil(t, a.EntityComponentBuffer(InvalidUID))

	require.NoError(t, a.RemoveEntity(uid))
	assert.Equal(t, 0, a.BufferEntities().Len())
}

func TestAllocatorEntityComponentBufferFailure(t *testing.T) {
	a := NewAllocator(WithMaxEntities(1))
	_, err := a.AddEntity()
	require.NoError(t, err)

	uid, err := a.AddEntityComponentBuffer(4, FactoryNewComponent[float32]())
	assert.ErrorAs(t, err, &EntityCapacityError{})
	assert.Equal(t, InvalidUID, uid)
	assert.Equal(t, 1, a.Count())
}

func TestFactory(t *testing.T) {
	a := Factory.NewAllocator(WithMaxEntities(3))
	assert.Equal(t, 3, a.MaxEntities())

	b := Factory.NewBuffer(5)
	assert.Equal(t, 5, b.MaxEntities())

	p := FactoryNewPool[int](7)
	assert.Equal(t, 7, p.Capacity())

	ap, err := FactoryNewAlignedPool[vec4](7, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, ap.Alignment())
}
