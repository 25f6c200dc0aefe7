package ecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-engine/ecs"
)

func TestRegistryAssignsMonotonicIDs(t *testing.T) {
	reg := ecs.NewComponentRegistry(8)
	a, err := reg.Register(ecs.ComponentInfo{Type: "A"})
	require.NoError(t, err)
	b, err := reg.Register(ecs.ComponentInfo{Type: "B"})
	require.NoError(t, err)

	assert.Equal(t, ecs.ComponentID(0), a)
	assert.Equal(t, ecs.ComponentID(1), b)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryDuplicateReturnsExisting(t *testing.T) {
	reg := ecs.NewComponentRegistry(8)
	first, err := reg.Register(ecs.ComponentInfo{
		Type:     "A",
		FromData: func(map[string]any) any { return "original" },
	})
	require.NoError(t, err)

	again, err := reg.Register(ecs.ComponentInfo{
		Type:     "A",
		FromData: func(map[string]any) any { return "impostor" },
	})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// The original vtable wins.
	info, ok := reg.InfoByID(first)
	require.True(t, ok)
	assert.Equal(t, "original", info.FromData(nil))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryCapacityExceeded(t *testing.T) {
	reg := ecs.NewComponentRegistry(2)
	_, err := reg.Register(ecs.ComponentInfo{Type: "A"})
	require.NoError(t, err)
	_, err = reg.Register(ecs.ComponentInfo{Type: "B"})
	require.NoError(t, err)

	_, err = reg.Register(ecs.ComponentInfo{Type: "C"})
	var capErr ecs.RegistryCapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 2, capErr.Limit)

	// The failed registration left no trace.
	_, ok := reg.IDOf("C")
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len())
}

func TestMaskOfUnknownType(t *testing.T) {
	reg := ecs.NewComponentRegistry(8)
	_, err := reg.MaskOf("Nope")
	assert.ErrorIs(t, err, ecs.ErrComponentNotRegistered)
}

func TestMaskPredicates(t *testing.T) {
	reg := ecs.NewComponentRegistry(8)
	for _, name := range []ecs.ComponentType{"A", "B", "C", "D"} {
		_, err := reg.Register(ecs.ComponentInfo{Type: name})
		require.NoError(t, err)
	}

	abc, err := reg.MaskOf("A", "B", "C")
	require.NoError(t, err)
	ab, err := reg.MaskOf("A", "B")
	require.NoError(t, err)
	cd, err := reg.MaskOf("C", "D")
	require.NoError(t, err)
	d, err := reg.MaskOf("D")
	require.NoError(t, err)

	assert.True(t, ecs.MaskContainsAll(abc, ab))
	assert.False(t, ecs.MaskContainsAll(ab, abc))
	assert.True(t, ecs.MaskContainsAny(abc, cd))
	assert.False(t, ecs.MaskContainsAny(ab, d))
	assert.True(t, ecs.MaskExcludesAll(ab, cd))
	assert.False(t, ecs.MaskExcludesAll(abc, cd))
}

func TestIDsOfPreservesOrder(t *testing.T) {
	reg := ecs.NewComponentRegistry(8)
	for _, name := range []ecs.ComponentType{"A", "B", "C"} {
		_, err := reg.Register(ecs.ComponentInfo{Type: name})
		require.NoError(t, err)
	}
	ids, err := reg.IDsOf("C", "A")
	require.NoError(t, err)
	assert.Equal(t, []ecs.ComponentID{2, 0}, ids)
}
