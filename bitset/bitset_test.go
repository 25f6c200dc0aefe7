package bitset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-engine/ecs/bitset"
)

func fromBits(bits ...uint32) *bitset.BitSet {
	s := bitset.New(0)
	for _, b := range bits {
		s.Set(b)
	}
	return s
}

func TestSetClearGet(t *testing.T) {
	s := bitset.New(0)
	assert.False(t, s.Get(0))
	assert.False(t, s.Get(1000))

	s.Set(3)
	s.Set(64)
	s.Set(130)
	assert.True(t, s.Get(3))
	assert.True(t, s.Get(64))
	assert.True(t, s.Get(130))
	assert.False(t, s.Get(65))
	assert.Equal(t, 3, s.Count())

	s.Clear(64)
	assert.False(t, s.Get(64))
	assert.Equal(t, 2, s.Count())

	// Clearing beyond capacity must not grow or panic.
	s.Clear(1 << 20)
	assert.Equal(t, 2, s.Count())
}

func TestFlip(t *testing.T) {
	s := bitset.New(0)
	s.Flip(7)
	assert.True(t, s.Get(7))
	s.Flip(7)
	assert.False(t, s.Get(7))
	assert.True(t, s.IsEmpty())
}

func TestEqualsIgnoresCapacity(t *testing.T) {
	a := bitset.New(8)
	a.Set(2)
	b := bitset.New(512)
	b.Set(2)

	assert.True(t, a.Equals(b))
	assert.True(t, b.Equals(a))

	b.Set(300)
	assert.False(t, a.Equals(b))
}

func TestHashEqualSetsDifferentCapacities(t *testing.T) {
	a := bitset.New(4)
	a.Set(1)
	a.Set(3)
	b := bitset.New(4096)
	b.Set(1)
	b.Set(3)

	require.True(t, a.Equals(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestContainsAndIntersects(t *testing.T) {
	abc := fromBits(1, 2, 3)
	ab := fromBits(1, 2)
	cd := fromBits(3, 4)
	empty := bitset.New(0)

	assert.True(t, abc.Contains(ab))
	assert.False(t, ab.Contains(abc))
	assert.True(t, abc.Contains(empty))

	assert.True(t, abc.Intersects(cd))
	assert.False(t, ab.Intersects(fromBits(9)))
	assert.False(t, abc.Intersects(empty))

	// Operand wider than receiver: padding bits are zero.
	wide := fromBits(900)
	assert.False(t, ab.Contains(wide))
	assert.False(t, ab.Intersects(wide))
	assert.True(t, wide.Contains(empty))
}

func TestAlgebraAcrossCapacities(t *testing.T) {
	a := fromBits(0, 5, 70)
	b := fromBits(5, 200) // wider than a

	and := a.AndOf(b)
	assert.Equal(t, []uint32{5}, and.ToArray())

	or := a.OrOf(b)
	assert.Equal(t, []uint32{0, 5, 70, 200}, or.ToArray())

	xor := a.XorOf(b)
	assert.Equal(t, []uint32{0, 70, 200}, xor.ToArray())

	diff := a.AndNotOf(b)
	assert.Equal(t, []uint32{0, 70}, diff.ToArray())

	// Inputs untouched.
	assert.Equal(t, []uint32{0, 5, 70}, a.ToArray())
	assert.Equal(t, []uint32{5, 200}, b.ToArray())
}

func TestAlgebraLaws(t *testing.T) {
	a := fromBits(0, 5, 70)
	b := fromBits(5, 200)

	assert.True(t, a.AndOf(b).Equals(b.AndOf(a)), "intersection commutes")
	assert.True(t, a.OrOf(a).Equals(a), "union is idempotent")
	assert.True(t, a.AndNotOf(a).IsEmpty())

	// Mutual containment implies equality even across capacities.
	c := bitset.New(1024)
	c.Set(0)
	c.Set(5)
	c.Set(70)
	assert.True(t, a.Contains(c) && c.Contains(a))
	assert.True(t, a.Equals(c))
}

func TestInPlaceOps(t *testing.T) {
	a := fromBits(1, 2, 3)
	a.And(fromBits(2, 3, 4))
	assert.Equal(t, []uint32{2, 3}, a.ToArray())

	a.Or(fromBits(100))
	assert.Equal(t, []uint32{2, 3, 100}, a.ToArray())

	a.AndNot(fromBits(3))
	assert.Equal(t, []uint32{2, 100}, a.ToArray())

	a.Xor(fromBits(2, 7))
	assert.Equal(t, []uint32{7, 100}, a.ToArray())
}

func TestRangeAndToArrayOrdered(t *testing.T) {
	s := fromBits(63, 0, 64, 300, 12)
	want := []uint32{0, 12, 63, 64, 300}
	assert.Equal(t, want, s.ToArray())

	var visited []uint32
	s.Range(func(i uint32) bool {
		visited = append(visited, i)
		return true
	})
	assert.Equal(t, want, visited)

	// Early stop.
	visited = visited[:0]
	s.Range(func(i uint32) bool {
		visited = append(visited, i)
		return len(visited) < 2
	})
	assert.Equal(t, []uint32{0, 12}, visited)
}

func TestCloneIsIndependent(t *testing.T) {
	a := fromBits(1, 2)
	c := a.Clone()
	c.Set(99)
	assert.False(t, a.Get(99))
	assert.True(t, c.Get(99))
}

func TestFromArrayRoundTrip(t *testing.T) {
	s := bitset.FromArray([]uint32{4, 4, 128, 9})
	assert.Equal(t, []uint32{4, 9, 128}, s.ToArray())
	assert.Equal(t, 3, s.Count())
}
