package game

import (
	"github.com/lixenwraith/planetz/input"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/render"
	"github.com/lixenwraith/planetz/world"
)

// CameraSink receives the camera whenever the pilot moves
type CameraSink interface {
	SetCamera(cam world.Camera)
}

// Pilot flies the player viewpoint through a sector
// It looks down -Z; movement translates without turning
type Pilot struct {
	position      world.Vec3
	width, height int
	sink          CameraSink
}

// NewPilot creates a pilot publishing to sink, which may be nil
func NewPilot(sink CameraSink, width, height int) *Pilot {
	return &Pilot{sink: sink, width: max(width, 1), height: max(height, 1)}
}

// Position returns the player position
func (p *Pilot) Position() world.Vec3 {
	return p.position
}

// Warp places the pilot at pos
func (p *Pilot) Warp(pos world.Vec3) {
	if !world.Finite(pos) {
		return
	}
	p.position = pos
	p.publish()
}

// Move steps one unit along a local direction
func (p *Pilot) Move(dir input.Direction) {
	step := world.Vec3{dir.X, dir.Y, dir.Z}.Mul(parameter.PilotStep)
	p.Warp(p.position.Add(step))
}

// Resize updates the viewport
func (p *Pilot) Resize(width, height int) {
	p.width, p.height = max(width, 1), max(height, 1)
	p.publish()
}

// Camera implements the viewpoint interfaces
func (p *Pilot) Camera() (world.Camera, bool) {
	center := p.position.Add(world.Vec3{0, 0, -1})
	return render.LookAtCamera(p.position, center, parameter.CameraFOV, p.width, p.height), true
}

func (p *Pilot) publish() {
	if p.sink == nil {
		return
	}
	cam, _ := p.Camera()
	p.sink.SetCamera(cam)
}
