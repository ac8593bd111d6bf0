package render

import (
	"math"

	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Geometry is a wireframe mesh template in unit space
type Geometry struct {
	Name     string
	Vertices []world.Vec3
	Size     float64
	Animated bool
}

// geometries holds every wireframe shape; callers go through GeometryFor
var geometries = map[targeting.Kind]Geometry{
	targeting.KindStar:     {Name: "star", Vertices: starVertices(5, 0.45, 1), Size: 1.2, Animated: true},
	targeting.KindPlanet:   {Name: "icosahedron", Vertices: icosahedronVertices(), Size: 1, Animated: true},
	targeting.KindMoon:     {Name: "octahedron", Vertices: octahedronVertices(), Size: 0.8, Animated: true},
	targeting.KindStation:  {Name: "box", Vertices: boxVertices(), Size: 1.5, Animated: true},
	targeting.KindBeacon:   {Name: "octahedron", Vertices: octahedronVertices(), Size: 0.6, Animated: true},
	targeting.KindShip:     {Name: "octahedron", Vertices: octahedronVertices(), Size: 1, Animated: true},
	targeting.KindWaypoint: {Name: "diamond", Vertices: diamondVertices(), Size: 0.6},
}

var fallbackGeometry = Geometry{Name: "octahedron", Vertices: octahedronVertices(), Size: 1, Animated: true}

// GeometryFor returns the wireframe template for kind
func GeometryFor(kind targeting.Kind) Geometry {
	if g, ok := geometries[kind]; ok {
		return g
	}
	return fallbackGeometry
}

// starVertices alternates outer and inner radii in the XY plane
func starVertices(points int, inner, outer float64) []world.Vec3 {
	out := make([]world.Vec3, 0, points*2)
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + float64(i)*math.Pi/float64(points)
		out = append(out, world.Vec3{r * math.Cos(a), r * math.Sin(a), 0})
	}
	return out
}

func icosahedronVertices() []world.Vec3 {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []world.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	for i := range raw {
		raw[i] = raw[i].Normalize()
	}
	return raw
}

func octahedronVertices() []world.Vec3 {
	return []world.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
}

func boxVertices() []world.Vec3 {
	out := make([]world.Vec3, 0, 8)
	for _, x := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			for _, z := range []float64{-0.5, 0.5} {
				out = append(out, world.Vec3{x, y, z})
			}
		}
	}
	return out
}

// diamondVertices is two square pyramids joined at the base
func diamondVertices() []world.Vec3 {
	return []world.Vec3{
		{0, 1, 0},
		{0.5, 0, 0}, {0, 0, 0.5}, {-0.5, 0, 0}, {0, 0, -0.5},
		{0, -1, 0},
	}
}
