package ecs

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera component types.
const (
	CompCamera         ComponentType = "Camera"
	CompCameraMatrices ComponentType = "CameraMatrices"
)

// Camera holds perspective projection parameters. Fov is the vertical field
// of view in radians.
type Camera struct {
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
}

// CameraMatrices is the derived view/projection pair consumed by renderers.
type CameraMatrices struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Valid      bool
}

// RegisterCameraComponents registers the camera component types.
func RegisterCameraComponents(w *World) error {
	infos := []ComponentInfo{
		{
			Type: CompCamera,
			FromData: func(data map[string]any) any {
				cam := &Camera{Fov: mgl32.DegToRad(60), Aspect: 16.0 / 9.0, Near: 0.1, Far: 1000}
				if f, ok := numberToFloat32(data["fov"]); ok {
					cam.Fov = f
				}
				if f, ok := numberToFloat32(data["aspect"]); ok {
					cam.Aspect = f
				}
				if f, ok := numberToFloat32(data["near"]); ok {
					cam.Near = f
				}
				if f, ok := numberToFloat32(data["far"]); ok {
					cam.Far = f
				}
				return cam
			},
			Clone: func(v any) any {
				c := *v.(*Camera)
				return &c
			},
		},
		{
			Type:     CompCameraMatrices,
			FromData: func(map[string]any) any { return &CameraMatrices{} },
			Clone: func(v any) any {
				c := *v.(*CameraMatrices)
				return &c
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

// CameraSystem derives view and projection matrices for camera entities. It
// runs after the transform system and recomputes a camera only when its
// WorldTransform or Camera changed this frame, so a static camera costs one
// tracker lookup per tick.
type CameraSystem struct {
	query *Query
}

// NewCameraSystem constructs the system.
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Descriptor implements System.
func (s *CameraSystem) Descriptor() SystemDescriptor {
	return SystemDescriptor{
		Name:  "camera",
		Stage: StagePostUpdate,
		After: []string{"transform"},
	}
}

// Run implements System.
func (s *CameraSystem) Run(_ context.Context, exec ExecutionContext) SystemResult {
	w := exec.World()
	if s.query == nil {
		q, err := w.Query(Filter{All: []ComponentType{CompCamera, CompWorldTransform, CompCameraMatrices}})
		if err != nil {
			return SystemResult{Err: err}
		}
		s.query = q
	}
	wtID, _ := w.Components().IDOf(CompWorldTransform)
	camID, _ := w.Components().IDOf(CompCamera)
	tracker := w.Tracker()

	updated := 0
	s.query.ForEach(func(e EntityID, comps []any) {
		mats := comps[2].(*CameraMatrices)
		if mats.Valid &&
			!tracker.HasChanged(e, wtID, ChangeAny) &&
			!tracker.HasChanged(e, camID, ChangeAny) {
			return
		}
		cam := comps[0].(*Camera)
		wt := comps[1].(*WorldTransform)
		mats.View = wt.Matrix.Inv()
		mats.Projection = mgl32.Perspective(cam.Fov, cam.Aspect, cam.Near, cam.Far)
		mats.Valid = true
		updated++
	})
	return SystemResult{EntityCount: updated}
}
