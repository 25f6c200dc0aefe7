package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-engine/ecs"
)

func spawnWith(t *testing.T, w *ecs.World, types ...ecs.ComponentType) ecs.EntityID {
	t.Helper()
	e := w.CreateEntity()
	for _, ct := range types {
		var value any
		switch ct {
		case compPosition:
			value = &position{}
		case compVelocity:
			value = &velocity{}
		case compHealth:
			value = &health{}
		case compFrozen:
			value = &frozen{}
		}
		require.NoError(t, w.AddComponent(e, ct, value))
	}
	return e
}

func TestQueryFilterTruthTable(t *testing.T) {
	w := newTestWorld(t)

	posVel := spawnWith(t, w, compPosition, compVelocity)
	posVelFrozen := spawnWith(t, w, compPosition, compVelocity, compFrozen)
	posOnly := spawnWith(t, w, compPosition)
	spawnWith(t, w) // empty signature

	q, err := w.Query(ecs.Filter{
		All:  []ecs.ComponentType{compPosition, compVelocity},
		None: []ecs.ComponentType{compFrozen},
	})
	require.NoError(t, err)

	got := q.Collect()
	assert.Equal(t, []ecs.EntityID{posVel}, got)
	assert.NotContains(t, got, posVelFrozen)
	assert.NotContains(t, got, posOnly)
}

func TestQueryAnyClause(t *testing.T) {
	w := newTestWorld(t)

	vel := spawnWith(t, w, compPosition, compVelocity)
	hp := spawnWith(t, w, compPosition, compHealth)
	plain := spawnWith(t, w, compPosition)

	q, err := w.Query(ecs.Filter{
		All: []ecs.ComponentType{compPosition},
		Any: []ecs.ComponentType{compVelocity, compHealth},
	})
	require.NoError(t, err)

	got := q.Collect()
	assert.ElementsMatch(t, []ecs.EntityID{vel, hp}, got)
	assert.NotContains(t, got, plain)
}

func TestQueryUnknownTypeFails(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Query(ecs.Filter{All: []ecs.ComponentType{"Bogus"}})
	assert.ErrorIs(t, err, ecs.ErrComponentNotRegistered)
}

func TestQueryCountMatchesCollect(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 5; i++ {
		spawnWith(t, w, compPosition, compVelocity)
	}
	spawnWith(t, w, compPosition)

	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compPosition, compVelocity}})
	require.NoError(t, err)
	assert.Equal(t, len(q.Collect()), q.EntityCount())
	assert.Equal(t, 5, q.EntityCount())
	assert.False(t, q.IsEmpty())
}

func TestQuerySeesArchetypesCreatedLater(t *testing.T) {
	w := newTestWorld(t)

	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compPosition, compHealth}})
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())

	// The {Position, Health} archetype is created after the query; the world
	// must offer it to the live query.
	e := spawnWith(t, w, compPosition, compHealth)
	assert.Equal(t, []ecs.EntityID{e}, q.Collect())
}

func TestQueryForEachYieldsAllOrder(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	require.NoError(t, w.AddComponent(e, compVelocity, &velocity{X: 5}))
	require.NoError(t, w.AddComponent(e, compPosition, &position{X: 7}))

	// Tuple order follows the All list, not registration or signature order.
	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compVelocity, compPosition}})
	require.NoError(t, err)

	visited := 0
	q.ForEach(func(got ecs.EntityID, comps []any) {
		visited++
		assert.Equal(t, e, got)
		require.Len(t, comps, 2)
		assert.Equal(t, float64(5), comps[0].(*velocity).X)
		assert.Equal(t, float64(7), comps[1].(*position).X)
	})
	assert.Equal(t, 1, visited)
}

func TestQueryForEachMutatesInPlace(t *testing.T) {
	w := newTestWorld(t)
	e := spawnWith(t, w, compPosition, compVelocity)
	v, _ := w.GetComponent(e, compVelocity)
	v.(*velocity).X = 2

	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compPosition, compVelocity}})
	require.NoError(t, err)
	q.ForEach(func(_ ecs.EntityID, comps []any) {
		p := comps[0].(*position)
		vel := comps[1].(*velocity)
		p.X += vel.X
	})

	p, _ := w.GetComponent(e, compPosition)
	assert.Equal(t, float64(2), p.(*position).X)
}

func TestQueryFirst(t *testing.T) {
	w := newTestWorld(t)

	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compHealth}})
	require.NoError(t, err)
	_, _, ok := q.First()
	assert.False(t, ok)

	e := spawnWith(t, w, compHealth)
	got, comps, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, e, got)
	require.Len(t, comps, 1)
	assert.IsType(t, &health{}, comps[0])
}

func TestQueryReflectsDestroyedEntities(t *testing.T) {
	w := newTestWorld(t)
	a := spawnWith(t, w, compPosition)
	b := spawnWith(t, w, compPosition)

	q, err := w.Query(ecs.Filter{All: []ecs.ComponentType{compPosition}})
	require.NoError(t, err)
	require.Equal(t, 2, q.EntityCount())

	require.True(t, w.DestroyEntity(a))
	assert.Equal(t, []ecs.EntityID{b}, q.Collect())
}

func TestQueryEmptyFilterMatchesEverything(t *testing.T) {
	w := newTestWorld(t)
	spawnWith(t, w, compPosition)
	spawnWith(t, w)

	q, err := w.Query(ecs.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, q.EntityCount())
}
