package render

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
)

// Transparent marks an element border that is never recolored
const Transparent = "transparent"

// Element is a node of the HUD chrome
// Border is "" or Transparent for frameless nodes
type Element struct {
	ID       string
	Border   string
	Color    string
	Text     string
	Children []*Element
}

// Walk visits e and every descendant depth-first
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Find returns the descendant with id, or nil
func (e *Element) Find(id string) *Element {
	var found *Element
	e.Walk(func(n *Element) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}

func framed(id string, children ...*Element) *Element {
	return &Element{ID: id, Border: parameter.ColorNeutral, Children: children}
}

func label(id string) *Element {
	return &Element{ID: id}
}

// newChrome builds the nested panel layout of the targeting HUD
func newChrome() *Element {
	return framed("hud",
		framed("hud-frame",
			framed("hud-header",
				label(ElemName),
				label(ElemKind),
			),
			&Element{ID: "hud-divider", Border: Transparent},
			framed("hud-body",
				label(ElemDistance),
				label(ElemInfo),
			),
		),
	)
}

// Text element ids
const (
	ElemName     = "hud-name"
	ElemKind     = "hud-kind"
	ElemDistance = "hud-distance"
	ElemInfo     = "hud-info"
)

// Reticle is the on-screen marker over the target's projected position
type Reticle struct {
	X, Y    int
	Visible bool
	Color   string
	Pulse   bool
}

// HUDState is a consistent view of the HUD for one frame
type HUDState struct {
	Visible  bool
	TargetID string
	Name     string
	Kind     string
	Distance string
	Info     string
	Color    string
	Glow     string
	Reticle  Reticle
}

// HUD projects the cursor's current target into the chrome tree
// It reads only the cursor; list order never affects what is shown
type HUD struct {
	selection Selection
	resolver  *targeting.Resolver
	view      Viewpoint

	root    *Element
	state   HUDState
	visible bool
}

// NewHUD creates a HUD presenter; view may be nil
func NewHUD(selection Selection, resolver *targeting.Resolver, view Viewpoint) *HUD {
	return &HUD{
		selection: selection,
		resolver:  resolver,
		view:      view,
		root:      newChrome(),
		visible:   true,
	}
}

// SetVisible toggles the targeting HUD
func (h *HUD) SetVisible(visible bool) {
	h.visible = visible
	if !visible {
		h.state = HUDState{}
	}
}

// IsVisible reports the toggle state
func (h *HUD) IsVisible() bool {
	return h.visible
}

// Root returns the chrome tree
func (h *HUD) Root() *Element {
	return h.root
}

// State returns the state computed by the last Update
func (h *HUD) State() HUDState {
	return h.state
}

// Update recomputes the HUD from the cursor
// Either every field reflects one target or the HUD is hidden
func (h *HUD) Update() {
	t, ok := h.selection.Current()
	if !ok || !h.visible {
		h.state = HUDState{}
		return
	}

	color := h.resolver.Color(t)
	s := HUDState{
		Visible:  true,
		TargetID: t.ID,
		Name:     displayName(t),
		Kind:     displayKind(t),
		Distance: displayDistance(t),
		Info:     h.info(t),
		Color:    color,
		Glow:     color,
	}
	if h.view != nil && t.HasPosition {
		if cam, ok := h.view.Camera(); ok {
			if x, y, ok := Project(cam, t.Position); ok {
				s.Reticle = Reticle{X: x, Y: y, Visible: true, Color: color, Pulse: !t.IsWaypoint()}
			}
		}
	}

	h.recolor(color)
	h.root.Find(ElemName).Text = s.Name
	h.root.Find(ElemKind).Text = s.Kind
	h.root.Find(ElemDistance).Text = s.Distance
	h.root.Find(ElemInfo).Text = s.Info
	h.state = s
}

// recolor paints every framed element and all text
func (h *HUD) recolor(color string) {
	h.root.Walk(func(e *Element) {
		if e.Border != "" && e.Border != Transparent {
			e.Border = color
		}
		e.Color = color
	})
}

func displayName(t targeting.Target) string {
	if t.IsWaypoint() {
		return parameter.WaypointIcon + " " + t.Name
	}
	return t.Name
}

func displayKind(t targeting.Target) string {
	k := string(t.Kind)
	if k == "" {
		return ""
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func displayDistance(t targeting.Target) string {
	if !t.HasPosition {
		return "-- km"
	}
	return fmt.Sprintf("%.1f km", t.Distance)
}

func (h *HUD) info(t targeting.Target) string {
	switch {
	case t.IsWaypoint():
		return fmt.Sprintf("%s | %s", parameter.WaypointFaction, t.WaypointStatus)
	case !t.Discovered:
		return parameter.UnknownName
	case t.Kind == targeting.KindShip && t.HasHull:
		return fmt.Sprintf("%s | hull %.0f", t.Faction, t.Hull)
	}
	return t.Faction
}
