package ecs_test

import (
	"testing"

	"github.com/lattice-engine/ecs"
)

func TestWorldResourcesRoundTrip(t *testing.T) {
	w := ecs.NewWorld()
	res := w.Resources()

	if _, ok := res.Get("missing"); ok {
		t.Fatalf("expected missing resource")
	}

	res.Set("gravity", -9.81)
	res.Set("title", "lattice")
	if res.Len() != 2 {
		t.Fatalf("expected 2 resources, got %d", res.Len())
	}

	v, ok := res.Get("gravity")
	if !ok || v.(float64) != -9.81 {
		t.Fatalf("unexpected gravity: %v %v", v, ok)
	}

	res.Delete("gravity")
	if _, ok := res.Get("gravity"); ok {
		t.Fatalf("resource should be deleted")
	}

	seen := map[string]any{}
	res.Range(func(name string, value any) bool {
		seen[name] = value
		return true
	})
	if len(seen) != 1 || seen["title"] != "lattice" {
		t.Fatalf("unexpected range contents: %v", seen)
	}
}

func TestWorldWithCustomResourceContainer(t *testing.T) {
	shared := ecs.NewWorld().Resources()
	shared.Set("seed", 42)

	w := ecs.NewWorld(ecs.WithResourceContainer(shared))
	v, ok := w.Resources().Get("seed")
	if !ok || v.(int) != 42 {
		t.Fatalf("custom container not wired: %v %v", v, ok)
	}
}
