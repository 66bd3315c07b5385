package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureBits(t *testing.T) {
	var s Signature
	s.Set(0)
	s.Set(63)
	s.Set(64)
	s.Set(255)

	assert.True(t, s.Test(0))
	assert.True(t, s.Test(63))
	assert.True(t, s.Test(64))
	assert.True(t, s.Test(255))
	assert.False(t, s.Test(1))
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, "{0,63,64,255}", s.String())

	s.Reset(63)
	assert.False(t, s.Test(63))
	assert.Equal(t, 3, s.Count())
}

func TestSignatureContains(t *testing.T) {
	required := NewSignature(1, 70)

	assert.True(t, NewSignature(1, 2, 70).Contains(required))
	assert.False(t, NewSignature(1).Contains(required))
	assert.False(t, Signature{}.Contains(required))
	assert.True(t, NewSignature(5).Contains(Signature{}), "empty requirement is trivially contained")
}

func TestSignatureValueSemantics(t *testing.T) {
	a := NewSignature(3)
	b := a.With(4)

	assert.False(t, a.Test(4), "With must not mutate the receiver")
	assert.Equal(t, a, b.Without(4))
	assert.Equal(t, NewSignature(3), b.And(NewSignature(3, 9)))
	assert.True(t, Signature{}.IsZero())
	assert.False(t, a.IsZero())
	assert.Equal(t, "{}", Signature{}.String())
}
