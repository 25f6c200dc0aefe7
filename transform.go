package ecs

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform hierarchy component types.
const (
	CompLocalTransform ComponentType = "LocalTransform"
	CompWorldTransform ComponentType = "WorldTransform"
	CompParent         ComponentType = "Parent"
	CompChildren       ComponentType = "Children"
)

// LocalTransform is an entity's transform relative to its parent. Dirty
// means the derived WorldTransform is stale and must be recomputed.
type LocalTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

// NewLocalTransform returns an identity local transform, marked dirty so
// the first transform pass computes its world data.
func NewLocalTransform() *LocalTransform {
	return &LocalTransform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

// MarkDirty flags the derived world transform as stale.
func (t *LocalTransform) MarkDirty() { t.Dirty = true }

// ClearDirty clears the staleness flag.
func (t *LocalTransform) ClearDirty() { t.Dirty = false }

// Matrix composes the local 4x4 matrix as translate * rotate * scale.
func (t *LocalTransform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// WorldTransform is the computed world-space transform: always equal to
// parentWorld * local, or local alone at the root.
type WorldTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Matrix   mgl32.Mat4
}

// NewWorldTransform returns an identity world transform.
func NewWorldTransform() *WorldTransform {
	return &WorldTransform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Matrix:   mgl32.Ident4(),
	}
}

// Parent references an entity's single parent; the zero EntityID is the
// "no parent" sentinel. Parents are handles, never object pointers, so
// destruction cannot leave dangling references.
type Parent struct {
	Entity EntityID
}

// Children holds an entity's direct children in order.
type Children struct {
	Entities []EntityID
}

// RegisterTransformComponents registers the four hierarchy component types
// with their data factories.
func RegisterTransformComponents(w *World) error {
	infos := []ComponentInfo{
		{
			Type: CompLocalTransform,
			FromData: func(data map[string]any) any {
				t := NewLocalTransform()
				t.Position = vec3FromData(data, "position", t.Position)
				t.Rotation = quatFromData(data, "rotation", t.Rotation)
				t.Scale = vec3FromData(data, "scale", t.Scale)
				return t
			},
			Clone: func(v any) any {
				c := *v.(*LocalTransform)
				return &c
			},
		},
		{
			Type:     CompWorldTransform,
			FromData: func(map[string]any) any { return NewWorldTransform() },
			Clone: func(v any) any {
				c := *v.(*WorldTransform)
				return &c
			},
		},
		{
			Type:     CompParent,
			FromData: func(map[string]any) any { return &Parent{} },
			Clone: func(v any) any {
				c := *v.(*Parent)
				return &c
			},
		},
		{
			Type:     CompChildren,
			FromData: func(map[string]any) any { return &Children{} },
			Clone: func(v any) any {
				src := v.(*Children)
				return &Children{Entities: append([]EntityID(nil), src.Entities...)}
			},
		},
	}
	for _, info := range infos {
		if _, err := w.RegisterComponent(info); err != nil {
			return err
		}
	}
	return nil
}

// TransformSystem recomputes WorldTransforms from LocalTransforms through
// the Parent/Children hierarchy.
//
// Entities are visited in archetype row order, which is not
// parent-before-child, so the system runs a fixed-point loop: every pass
// recomputes the dirty entities it sees and re-dirties their direct
// children, and the loop ends when a pass finds nothing dirty. An entity
// that read a stale parent matrix is re-dirtied when that parent
// recomputes, so each pass finalizes one more level of depth. A hard pass
// cap turns a cyclic or pathologically deep hierarchy into a logged
// diagnostic instead of a hang.
type TransformSystem struct {
	query *Query
}

// NewTransformSystem constructs the system; its query is built lazily on
// the first run so components may be registered in any order beforehand.
func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

// Descriptor implements System.
func (s *TransformSystem) Descriptor() SystemDescriptor {
	return SystemDescriptor{
		Name:  "transform",
		Stage: StagePostUpdate,
	}
}

// Run implements System, driving the hierarchy to a fixed point.
func (s *TransformSystem) Run(_ context.Context, exec ExecutionContext) SystemResult {
	w := exec.World()
	if s.query == nil {
		q, err := w.Query(Filter{All: []ComponentType{CompLocalTransform, CompWorldTransform}})
		if err != nil {
			return SystemResult{Err: err}
		}
		s.query = q
	}
	wtID, _ := w.Components().IDOf(CompWorldTransform)
	maxPasses := w.Config().TransformMaxPasses

	processed := 0
	for pass := 1; ; pass++ {
		recomputed := 0
		s.query.ForEach(func(e EntityID, comps []any) {
			local := comps[0].(*LocalTransform)
			if !local.Dirty {
				return
			}
			wt := comps[1].(*WorldTransform)
			s.recompute(w, e, local, wt)
			w.Tracker().MarkChanged(e, wtID, ChangeModified)
			s.dirtyChildren(w, e)
			recomputed++
		})
		processed += recomputed
		if recomputed == 0 {
			break
		}
		if pass >= maxPasses {
			exec.Logger().Warn("transform pass cap reached; hierarchy cycle or excessive depth",
				"passes", pass, "recomputed_last_pass", recomputed)
			break
		}
	}
	return SystemResult{EntityCount: processed}
}

func (s *TransformSystem) recompute(w *World, e EntityID, local *LocalTransform, wt *WorldTransform) {
	parentWorld := mgl32.Ident4()
	if pv, ok := w.GetComponent(e, CompParent); ok {
		parent := pv.(*Parent)
		if !parent.Entity.IsZero() {
			if pwt, ok := w.GetComponent(parent.Entity, CompWorldTransform); ok {
				parentWorld = pwt.(*WorldTransform).Matrix
			}
		}
	}
	world := parentWorld.Mul4(local.Matrix())
	wt.Position, wt.Rotation, wt.Scale = decompose(world)
	wt.Matrix = world
	local.ClearDirty()
}

func (s *TransformSystem) dirtyChildren(w *World, e EntityID) {
	cv, ok := w.GetComponent(e, CompChildren)
	if !ok {
		return
	}
	for _, child := range cv.(*Children).Entities {
		if clv, ok := w.GetComponent(child, CompLocalTransform); ok {
			clv.(*LocalTransform).MarkDirty()
		}
	}
}

// decompose splits a TRS matrix back into position, rotation, and scale.
func decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	position := m.Col(3).Vec3()

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	scale := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}

	rotOnly := mgl32.Ident4()
	if scale.X() > 0 && scale.Y() > 0 && scale.Z() > 0 {
		rotOnly = mgl32.Mat4FromCols(
			c0.Mul(1/scale.X()).Vec4(0),
			c1.Mul(1/scale.Y()).Vec4(0),
			c2.Mul(1/scale.Z()).Vec4(0),
			mgl32.Vec4{0, 0, 0, 1},
		)
	}
	rotation := mgl32.Mat4ToQuat(rotOnly).Normalize()
	return position, rotation, scale
}

// Plain-record parsing for the FromData factories. YAML and JSON decoders
// hand numbers over as float64 or int, so every scalar goes through
// numberToFloat32.

func numberToFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint64:
		return float32(n), true
	}
	return 0, false
}

func floatsFromData(data map[string]any, key string) []float32 {
	raw, ok := data[key]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]float32, 0, len(list))
	for _, item := range list {
		f, ok := numberToFloat32(item)
		if !ok {
			return nil
		}
		out = append(out, f)
	}
	return out
}

func vec3FromData(data map[string]any, key string, fallback mgl32.Vec3) mgl32.Vec3 {
	fs := floatsFromData(data, key)
	if len(fs) != 3 {
		return fallback
	}
	return mgl32.Vec3{fs[0], fs[1], fs[2]}
}

// quatFromData reads a quaternion as [x, y, z, w].
func quatFromData(data map[string]any, key string, fallback mgl32.Quat) mgl32.Quat {
	fs := floatsFromData(data, key)
	if len(fs) != 4 {
		return fallback
	}
	return mgl32.Quat{V: mgl32.Vec3{fs[0], fs[1], fs[2]}, W: fs[3]}
}

// AttachChild wires the Parent/Children components for a parent-child pair
// and dirties the child so the next transform pass picks it up.
func AttachChild(w *World, parent, child EntityID) error {
	if err := w.AddComponent(child, CompParent, &Parent{Entity: parent}); err != nil {
		return err
	}
	var children *Children
	if cv, ok := w.GetComponent(parent, CompChildren); ok {
		children = cv.(*Children)
	} else {
		children = &Children{}
		if err := w.AddComponent(parent, CompChildren, children); err != nil {
			return err
		}
	}
	children.Entities = append(children.Entities, child)
	if clv, ok := w.GetComponent(child, CompLocalTransform); ok {
		clv.(*LocalTransform).MarkDirty()
	}
	return nil
}
