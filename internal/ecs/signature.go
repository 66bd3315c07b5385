package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxComponents is the number of distinct component types a Signature can hold.
const MaxComponents = 256

// ComponentType is the bit index of a registered component type.
type ComponentType uint8

// Signature is a fixed-width bitset with one bit per component type. It is
// used both as an entity's composition and as a system's requirement.
// Signatures are values and compare with ==.
type Signature [MaxComponents / 64]uint64

// NewSignature returns a signature with the given bits set.
func NewSignature(types ...ComponentType) Signature {
	var s Signature
	for _, t := range types {
		s.Set(t)
	}
	return s
}

// Set sets the bit for t.
func (s *Signature) Set(t ComponentType) {
	s[t>>6] |= 1 << (t & 63)
}

// Reset clears the bit for t.
func (s *Signature) Reset(t ComponentType) {
	s[t>>6] &^= 1 << (t & 63)
}

// Test reports whether the bit for t is set.
func (s Signature) Test(t ComponentType) bool {
	return s[t>>6]&(1<<(t&63)) != 0
}

// With returns a copy of s with t set.
func (s Signature) With(t ComponentType) Signature {
	s.Set(t)
	return s
}

// Without returns a copy of s with t cleared.
func (s Signature) Without(t ComponentType) Signature {
	s.Reset(t)
	return s
}

// And returns the intersection of s and o.
func (s Signature) And(o Signature) Signature {
	for i := range s {
		s[i] &= o[i]
	}
	return s
}

// Contains reports whether every bit of required is set in s, that is
// (s & required) == required.
func (s Signature) Contains(required Signature) bool {
	for i := range s {
		if s[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether no bit is set.
func (s Signature) IsZero() bool {
	return s == Signature{}
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// String renders the set bits, e.g. "{0,3,17}".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i, w := range s {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			if !first {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(i*64 + bit))
			first = false
			w &= w - 1
		}
	}
	b.WriteByte('}')
	return b.String()
}
