// Package render projects the cursor's target into overlay state: HUD chrome
// and reticle, the target wireframe and outline scene objects, and the comm
// panel. Presenters read the cursor and resolver; they never mutate targeting
package render

import (
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Selection is the read side of the target cursor
type Selection interface {
	Current() (targeting.Target, bool)
	Suppressed() bool
}

// Viewpoint provides the player camera when available
type Viewpoint interface {
	Camera() (world.Camera, bool)
}

// VisibilityToggle is implemented by presenters the HUD toggle can hide
type VisibilityToggle interface {
	SetVisible(visible bool)
	IsVisible() bool
}
