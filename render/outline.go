package render

import (
	"log"

	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Outline keeps at most one outline around the target's world mesh
// Removal is immediate; creation and updates are throttled
type Outline struct {
	scene     world.SceneRenderer
	selection Selection
	resolver  *targeting.Resolver
	clock     world.Clock
	throttle  *engine.Throttle
	logger    *log.Logger

	obj      world.SceneObject
	attached bool
	targetID string
	visible  bool
}

// NewOutline creates the presenter; a nil scene makes every call a no-op
func NewOutline(scene world.SceneRenderer, selection Selection, resolver *targeting.Resolver,
	clock world.Clock, logger *log.Logger) *Outline {
	if logger == nil {
		logger = log.Default()
	}
	return &Outline{
		scene:     scene,
		selection: selection,
		resolver:  resolver,
		clock:     clock,
		throttle:  engine.NewThrottle(parameter.OutlineUpdateInterval),
		logger:    logger,
		visible:   true,
	}
}

// SetVisible detaches immediately on hide
func (o *Outline) SetVisible(visible bool) {
	o.visible = visible
	if !visible {
		o.Detach()
	}
}

// IsVisible reports the toggle state
func (o *Outline) IsVisible() bool {
	return o.visible
}

// Object returns the live outline object
func (o *Outline) Object() (world.SceneObject, bool) {
	return o.obj, o.attached
}

// Detach removes the outline if present
func (o *Outline) Detach() {
	if !o.attached {
		return
	}
	o.attached = false
	o.targetID = ""
	if err := o.scene.Remove(o.obj.ID); err != nil {
		o.logger.Printf("[render] outline detach: %v", err)
	}
	o.throttle.Reset()
}

// Tick follows the cursor; targets without a scene mesh get no outline
func (o *Outline) Tick() {
	if o.scene == nil {
		return
	}
	t, ok := o.selection.Current()
	if !ok || !o.visible || o.selection.Suppressed() || t.SceneObject == "" {
		o.Detach()
		return
	}
	if !o.throttle.Ready(o.clock.Now()) {
		return
	}

	obj := world.SceneObject{
		ID:            parameter.OutlineObjectID,
		Kind:          "outline",
		Geometry:      "outline",
		Position:      t.Position,
		Scale:         1,
		Color:         o.resolver.Color(t),
		Opacity:       1,
		RenderOrder:   parameter.OutlineRenderOrder,
		Layer:         parameter.OverlayLayer,
		FrustumCulled: false,
		Target:        t.SceneObject,
		UserData:      map[string]string{"targetId": t.ID},
	}
	if o.attached && o.targetID == t.ID {
		obj.Rotation = o.obj.Rotation
		if err := o.scene.Update(obj); err != nil {
			o.logger.Printf("[render] outline update %s: %v", t.ID, err)
			return
		}
		o.obj = obj
		return
	}

	if o.attached {
		o.attached = false
		if err := o.scene.Remove(o.obj.ID); err != nil {
			o.logger.Printf("[render] outline retarget: %v", err)
		}
	}
	if err := o.scene.Add(obj); err != nil {
		o.logger.Printf("[render] outline attach %s: %v", t.ID, err)
		return
	}
	o.obj = obj
	o.attached = true
	o.targetID = t.ID
}
