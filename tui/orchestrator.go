// Package tui is the terminal front end: it draws the presenters' state onto a tcell screen
package tui

import (
	"github.com/gdamore/tcell/v2"
)

// Layer is anything that draws onto the screen each frame
type Layer interface {
	Draw(s tcell.Screen)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // registration order for stable sort
}

// Orchestrator draws registered layers in priority order
type Orchestrator struct {
	screen   tcell.Screen
	layers   []layerEntry
	regCount int
}

// NewOrchestrator creates an orchestrator over screen
func NewOrchestrator(screen tcell.Screen) *Orchestrator {
	return &Orchestrator{
		screen: screen,
		layers: make([]layerEntry, 0, 8),
	}
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (o *Orchestrator) Register(l Layer, priority Priority) {
	entry := layerEntry{layer: l, priority: priority, index: o.regCount}
	o.regCount++

	pos := len(o.layers)
	for i, e := range o.layers {
		if priority < e.priority {
			pos = i
			break
		}
	}
	o.layers = append(o.layers, layerEntry{})
	copy(o.layers[pos+1:], o.layers[pos:])
	o.layers[pos] = entry
}

// Resize resyncs the screen after a terminal resize
func (o *Orchestrator) Resize() {
	o.screen.Sync()
}

// Size returns the screen size
func (o *Orchestrator) Size() (int, int) {
	return o.screen.Size()
}

// RenderFrame clears, draws every visible layer and shows the result
func (o *Orchestrator) RenderFrame() {
	o.screen.Clear()
	for _, e := range o.layers {
		if vt, ok := e.layer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		e.layer.Draw(o.screen)
	}
	o.screen.Show()
}
