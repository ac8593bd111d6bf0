// Package starchart is the top-down sector map: a read-only projection of the
// target list with three fixed zoom levels and click-to-select
package starchart

import (
	"math"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Targets is the read side of the target registry
type Targets interface {
	List() []targeting.Target
}

// Selector selects a target by id
type Selector interface {
	SelectByID(id string, manual bool) bool
}

// Viewpoint provides the player camera
type Viewpoint interface {
	Camera() (world.Camera, bool)
}

// Dot is one drawable chart entry in cell coordinates
type Dot struct {
	ID      string
	Name    string
	Kind    targeting.Kind
	X, Y    int
	Color   string
	Dimmed  bool
	Current bool
}

// Chart projects the sector onto a width x height cell grid around a center
type Chart struct {
	targets   Targets
	discovery targeting.Discovery
	resolver  *targeting.Resolver
	selector  Selector
	view      Viewpoint

	width, height int
	level         int
	center        world.Vec3
	pinned        bool // center set by a click instead of following the camera
	open          bool
	currentID     func() string
}

// New creates a closed chart at the widest zoom
func New(targets Targets, discovery targeting.Discovery, resolver *targeting.Resolver,
	selector Selector, view Viewpoint) *Chart {
	return &Chart{
		targets:   targets,
		discovery: discovery,
		resolver:  resolver,
		selector:  selector,
		view:      view,
		width:     80,
		height:    24,
	}
}

// TrackCurrent highlights the id returned by fn
func (c *Chart) TrackCurrent(fn func() string) {
	c.currentID = fn
}

// Toggle opens or closes the chart; opening resets zoom and centering
func (c *Chart) Toggle() {
	c.open = !c.open
	if c.open {
		c.level = 0
		c.pinned = false
	}
}

// IsOpen reports whether the chart is shown
func (c *Chart) IsOpen() bool {
	return c.open
}

// Resize sets the drawable area
func (c *Chart) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
}

// Size returns the drawable area
func (c *Chart) Size() (int, int) {
	return c.width, c.height
}

// Level returns the zoom level, 0 is widest
func (c *Chart) Level() int {
	return c.level
}

// Levels returns the number of zoom levels
func (c *Chart) Levels() int {
	return len(parameter.ChartZoomScales)
}

// ZoomOut steps back one level; at the widest level it recenters on the camera
func (c *Chart) ZoomOut() {
	if c.level > 0 {
		c.level--
		return
	}
	c.pinned = false
}

// Center returns the world point drawn at the middle of the grid
func (c *Chart) Center() world.Vec3 {
	if c.pinned {
		return c.center
	}
	if c.view != nil {
		if cam, ok := c.view.Camera(); ok {
			return cam.Position
		}
	}
	return world.Vec3{}
}

func (c *Chart) scale() float64 {
	return parameter.ChartZoomScales[c.level]
}

// ToCell projects a world point onto the XZ plane
func (c *Chart) ToCell(p world.Vec3) (int, int) {
	center := c.Center()
	s := c.scale()
	x := c.width/2 + int(math.Round((p.X()-center.X())/s))
	y := c.height/2 + int(math.Round((p.Z()-center.Z())/(2*s)))
	return x, y
}

// ToWorld inverts ToCell at the center's height
func (c *Chart) ToWorld(x, y int) world.Vec3 {
	center := c.Center()
	s := c.scale()
	return world.Vec3{
		center.X() + float64(x-c.width/2)*s,
		center.Y(),
		center.Z() + float64(y-c.height/2)*2*s,
	}
}

// Dots projects the visible targets, nearest first
func (c *Chart) Dots() []Dot {
	cur := ""
	if c.currentID != nil {
		cur = c.currentID()
	}
	var out []Dot
	for _, t := range c.targets.List() {
		if !t.HasPosition {
			continue
		}
		x, y := c.ToCell(t.Position)
		if x < 0 || x >= c.width || y < 0 || y >= c.height {
			continue
		}
		d := Dot{ID: t.ID, Name: t.Name, Kind: t.Kind, X: x, Y: y, Current: t.ID == cur}
		if c.discovered(t) {
			d.Color = c.resolver.Color(t)
		} else {
			d.Name = parameter.UnknownName
			d.Color = parameter.DimmedColor
			d.Dimmed = true
		}
		out = append(out, d)
	}
	return out
}

func (c *Chart) discovered(t targeting.Target) bool {
	if t.Discovered || !t.Kind.IsCelestial() {
		return true
	}
	return c.discovery != nil && c.discovery.IsDiscovered(t.ID)
}

// At returns the dot under a cell within the hit radius, nearest first
func (c *Chart) At(x, y int) (Dot, bool) {
	best, bestDist := Dot{}, -1
	for _, d := range c.Dots() {
		dist := max(abs(d.X-x), abs(d.Y-y))
		if dist > parameter.ChartHitRadius {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best, bestDist >= 0
}

// Tooltip returns the name of the dot under a cell
func (c *Chart) Tooltip(x, y int) string {
	if d, ok := c.At(x, y); ok {
		return d.Name
	}
	return ""
}

// Click selects the dot under the cell, if any, and zooms in on the clicked
// point; at the deepest level the zoom stays and only recenters
// Returns the selected id
func (c *Chart) Click(x, y int) (string, bool) {
	if !c.open {
		return "", false
	}
	focus := c.ToWorld(x, y)
	id := ""
	if d, ok := c.At(x, y); ok {
		for _, t := range c.targets.List() {
			if t.ID == d.ID {
				focus = t.Position
				break
			}
		}
		if c.selector != nil && c.selector.SelectByID(d.ID, true) {
			id = d.ID
		}
	}
	if c.level < c.Levels()-1 {
		c.level++
	}
	c.center = focus
	c.pinned = true
	return id, id != ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
