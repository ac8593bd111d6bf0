package render

import (
	"log"
	"math"
	"time"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Wireframe keeps at most one wireframe object on the cursor's target
type Wireframe struct {
	scene     world.SceneRenderer
	selection Selection
	resolver  *targeting.Resolver
	logger    *log.Logger

	obj      world.SceneObject
	attached bool
	targetID string
	visible  bool
}

// NewWireframe creates the presenter; a nil scene makes every call a no-op
func NewWireframe(scene world.SceneRenderer, selection Selection, resolver *targeting.Resolver, logger *log.Logger) *Wireframe {
	if logger == nil {
		logger = log.Default()
	}
	return &Wireframe{scene: scene, selection: selection, resolver: resolver, logger: logger, visible: true}
}

// SetVisible detaches immediately on hide; Tick reattaches on show
func (w *Wireframe) SetVisible(visible bool) {
	w.visible = visible
	if !visible {
		w.Detach()
	}
}

// IsVisible reports the toggle state
func (w *Wireframe) IsVisible() bool {
	return w.visible
}

// Object returns the live wireframe object
func (w *Wireframe) Object() (world.SceneObject, bool) {
	return w.obj, w.attached
}

// Attach replaces any existing wireframe with one on t
func (w *Wireframe) Attach(t targeting.Target) {
	if w.scene == nil {
		return
	}
	w.Detach()

	g := GeometryFor(t.Kind)
	opacity := parameter.WireframeOpacity
	if t.IsWaypoint() {
		opacity = parameter.WaypointWireframeOpacity
	}
	obj := world.SceneObject{
		ID:            parameter.WireframeObjectID,
		Kind:          "wireframe",
		Geometry:      g.Name,
		Vertices:      g.Vertices,
		Position:      t.Position,
		Scale:         g.Size * overlayScale(t),
		Color:         w.resolver.Color(t),
		Opacity:       opacity,
		Wireframe:     true,
		RenderOrder:   parameter.WireframeRenderOrder,
		Layer:         parameter.OverlayLayer,
		FrustumCulled: false,
		Target:        t.SceneObject,
		UserData:      map[string]string{"targetId": t.ID, "kind": string(t.Kind)},
	}
	if err := w.scene.Add(obj); err != nil {
		w.logger.Printf("[render] wireframe attach %s: %v", t.ID, err)
		return
	}
	w.obj = obj
	w.attached = true
	w.targetID = t.ID
}

// Detach removes the wireframe if present
func (w *Wireframe) Detach() {
	if !w.attached {
		return
	}
	w.attached = false
	w.targetID = ""
	if err := w.scene.Remove(w.obj.ID); err != nil {
		w.logger.Printf("[render] wireframe detach: %v", err)
	}
}

// Tick follows the cursor: attach on a new target, track position, scale
// and color every frame, detach when hidden, suppressed or targetless
func (w *Wireframe) Tick(dt time.Duration) {
	if w.scene == nil {
		return
	}
	t, ok := w.selection.Current()
	if !ok || !w.visible || w.selection.Suppressed() || !t.HasPosition {
		w.Detach()
		return
	}
	if !w.attached || w.targetID != t.ID {
		w.Attach(t)
		return
	}

	g := GeometryFor(t.Kind)
	w.obj.Position = t.Position
	w.obj.Scale = g.Size * overlayScale(t)
	w.obj.Color = w.resolver.Color(t)
	if g.Animated {
		w.obj.Rotation[1] += parameter.WireframeSpinRate * dt.Seconds()
	}
	if err := w.scene.Update(w.obj); err != nil {
		w.logger.Printf("[render] wireframe update %s: %v", t.ID, err)
	}
}

// overlayScale grows with distance for regular targets and with the
// trigger volume for waypoints
func overlayScale(t targeting.Target) float64 {
	if t.IsWaypoint() {
		return clampScale(t.TriggerRadius / parameter.WaypointScaleReference)
	}
	return clampScale(t.Distance / parameter.WireframeScaleReference)
}

func clampScale(s float64) float64 {
	if s < parameter.WireframeScaleMin || math.IsNaN(s) {
		return parameter.WireframeScaleMin
	}
	if s > parameter.WireframeScaleMax {
		return parameter.WireframeScaleMax
	}
	return s
}
