// Package scene provides SceneRenderer implementations: an in-memory scene
// graph and a websocket bridge that mirrors it to a browser renderer
package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lixenwraith/planetz/world"
)

var (
	ErrDuplicate = errors.New("scene object exists")
	ErrNotFound  = errors.New("scene object not found")
)

// Graph is an in-memory scene with a settable camera
// Safe for concurrent use
type Graph struct {
	mu      sync.RWMutex
	objects map[world.ObjectID]world.SceneObject
	camera  world.Camera
	hasCam  bool
}

// NewGraph creates an empty scene without a camera
func NewGraph() *Graph {
	return &Graph{objects: make(map[world.ObjectID]world.SceneObject)}
}

// Add implements world.SceneRenderer
func (g *Graph) Add(obj world.SceneObject) error {
	if obj.ID == "" {
		return fmt.Errorf("add: empty object id")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[obj.ID]; ok {
		return fmt.Errorf("add %s: %w", obj.ID, ErrDuplicate)
	}
	g.objects[obj.ID] = obj
	return nil
}

// Update implements world.SceneRenderer
func (g *Graph) Update(obj world.SceneObject) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[obj.ID]; !ok {
		return fmt.Errorf("update %s: %w", obj.ID, ErrNotFound)
	}
	g.objects[obj.ID] = obj
	return nil
}

// Remove implements world.SceneRenderer
func (g *Graph) Remove(id world.ObjectID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	delete(g.objects, id)
	return nil
}

// Camera implements world.SceneRenderer
func (g *Graph) Camera() (world.Camera, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.camera, g.hasCam
}

// SetCamera installs or replaces the camera
func (g *Graph) SetCamera(cam world.Camera) {
	g.mu.Lock()
	g.camera = cam
	g.hasCam = true
	g.mu.Unlock()
}

// MoveCamera updates the camera position, keeping its matrices
func (g *Graph) MoveCamera(pos world.Vec3) {
	g.mu.Lock()
	g.camera.Position = pos
	g.hasCam = true
	g.mu.Unlock()
}

// Get returns an object by id
func (g *Graph) Get(id world.ObjectID) (world.SceneObject, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	obj, ok := g.objects[id]
	return obj, ok
}

// Objects returns every object ordered by render order, then id
func (g *Graph) Objects() []world.SceneObject {
	g.mu.RLock()
	out := make([]world.SceneObject, 0, len(g.objects))
	for _, obj := range g.objects {
		out = append(out, obj)
	}
	g.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].RenderOrder != out[j].RenderOrder {
			return out[i].RenderOrder < out[j].RenderOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the object count
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects)
}

// CountKind returns how many objects carry kind
func (g *Graph) CountKind(kind string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, obj := range g.objects {
		if obj.Kind == kind {
			n++
		}
	}
	return n
}
