package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/planetz/world"
)

// Project maps a world point to screen cells, top-left origin
// Points behind the camera or off screen are not visible
func Project(cam world.Camera, p world.Vec3) (x, y int, ok bool) {
	if cam.Width <= 0 || cam.Height <= 0 || !world.Finite(p) {
		return 0, 0, false
	}
	clip := cam.Projection.Mul4(cam.View).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	win := mgl64.Project(p, cam.View, cam.Projection, 0, 0, cam.Width, cam.Height)
	if !world.Finite(win) {
		return 0, 0, false
	}
	x = int(math.Floor(win.X()))
	y = cam.Height - 1 - int(math.Floor(win.Y()))
	if x < 0 || x >= cam.Width || y < 0 || y >= cam.Height {
		return 0, 0, false
	}
	return x, y, true
}

// LookAtCamera builds a perspective camera at eye looking at center
func LookAtCamera(eye, center world.Vec3, fovDeg float64, width, height int) world.Camera {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return world.Camera{
		Position:   eye,
		View:       mgl64.LookAtV(eye, center, mgl64.Vec3{0, 1, 0}),
		Projection: mgl64.Perspective(mgl64.DegToRad(fovDeg), aspect, 0.1, 10000),
		Width:      width,
		Height:     height,
	}
}
