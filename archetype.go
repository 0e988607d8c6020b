package stockroom

import (
	"math/bits"

	"github.com/TheBitDrifter/mask"
)

// MaxComponentTypes is the number of distinct component types a single
// allocator or buffer can register.
const MaxComponentTypes = 64

var _ mask.Maskable = Signature{}

// Signature identifies a set of registered component types, one bit per type.
// An Archetype is the Signature currently held by one entity.
type Signature struct {
	bits uint64
}

// Archetype is the signature attached to a single entity.
type Archetype = Signature

// ErrorSignature denotes an unregistered type or a failed lookup. No
// registered type ever maps to it.
var ErrorSignature = Signature{}

func signatureFor(bit uint32) Signature {
	return Signature{bits: uint64(1) << bit}
}

// NewSignature merges the given signatures.
func NewSignature(sigs ...Signature) Signature {
	var s Signature
	for _, sig := range sigs {
		s.Merge(sig)
	}
	return s
}

func (s *Signature) Merge(other Signature) {
	s.bits |= other.bits
}

func (s *Signature) Remove(other Signature) {
	s.bits &^= other.bits
}

// Supports reports whether s contains every bit of query.
func (s Signature) Supports(query Signature) bool {
	return s.bits&query.bits == query.bits
}

// Excludes reports whether s shares no bit with other.
func (s Signature) Excludes(other Signature) bool {
	return s.bits&other.bits == 0
}

func (s Signature) Empty() bool {
	return s.bits == 0
}

// Len is the number of component types in the signature.
func (s Signature) Len() int {
	return bits.OnesCount64(s.bits)
}

// Bits yields the set bit positions in ascending order.
func (s Signature) Bits() []uint32 {
	out := make([]uint32, 0, s.Len())
	for b := s.bits; b != 0; b &= b - 1 {
		out = append(out, uint32(bits.TrailingZeros64(b)))
	}
	return out
}

// Mask returns the signature as a mask.Mask.
func (s Signature) Mask() mask.Mask {
	var m mask.Mask
	for _, bit := range s.Bits() {
		m.Mark(bit)
	}
	return m
}

// index is the lowest set bit; used on single-type signatures.
func (s Signature) index() int {
	return bits.TrailingZeros64(s.bits)
}
