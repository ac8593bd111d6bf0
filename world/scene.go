package world

import "github.com/go-gl/mathgl/mgl64"

// ObjectID identifies an object in the scene graph
type ObjectID string

// SceneObject is a renderer-agnostic mesh description
type SceneObject struct {
	ID            ObjectID          `json:"id"`
	Kind          string            `json:"kind"`
	Geometry      string            `json:"geometry"`
	Vertices      []Vec3            `json:"vertices,omitempty"`
	Position      Vec3              `json:"position"`
	Rotation      Vec3              `json:"rotation"`
	Scale         float64           `json:"scale"`
	Color         string            `json:"color"`
	Opacity       float64           `json:"opacity"`
	Wireframe     bool              `json:"wireframe"`
	RenderOrder   int               `json:"renderOrder"`
	Layer         int               `json:"layer"`
	FrustumCulled bool              `json:"frustumCulled"`
	Target        ObjectID          `json:"target,omitempty"`
	UserData      map[string]string `json:"userData,omitempty"`
}

// Camera is the player viewpoint
type Camera struct {
	Position   Vec3
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Width      int
	Height     int
}

// SceneRenderer is the 3D scene graph owned by the client renderer
type SceneRenderer interface {
	Add(obj SceneObject) error
	Update(obj SceneObject) error
	Remove(id ObjectID) error

	// Camera returns false while the camera is not yet available
	Camera() (Camera, bool)
}
