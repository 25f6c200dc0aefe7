package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-engine/ecs"
)

// Shared fixture components.

const (
	compPosition ecs.ComponentType = "Position"
	compVelocity ecs.ComponentType = "Velocity"
	compHealth   ecs.ComponentType = "Health"
	compFrozen   ecs.ComponentType = "Frozen"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type health struct {
	Current, Max int
}

type frozen struct{}

func numField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// newTestWorld builds a world with the fixture components registered.
func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	infos := []ecs.ComponentInfo{
		{
			Type: compPosition,
			FromData: func(data map[string]any) any {
				return &position{X: numField(data, "x"), Y: numField(data, "y")}
			},
			Clone: func(v any) any {
				c := *v.(*position)
				return &c
			},
		},
		{
			Type: compVelocity,
			FromData: func(data map[string]any) any {
				return &velocity{X: numField(data, "x"), Y: numField(data, "y")}
			},
			Clone: func(v any) any {
				c := *v.(*velocity)
				return &c
			},
		},
		{
			Type: compHealth,
			FromData: func(data map[string]any) any {
				return &health{
					Current: int(numField(data, "current")),
					Max:     int(numField(data, "max")),
				}
			},
		},
		{Type: compFrozen},
	}
	for _, info := range infos {
		_, err := w.RegisterComponent(info)
		require.NoError(t, err)
	}
	return w
}
