package world

import (
	"math"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space position in km
type Vec3 = mgl64.Vec3

// Distance returns |a - b|
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Finite reports whether every component is a real number
func Finite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// Slug lowercases s and replaces every non-alphanumeric character with '_'
func Slug(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "_")
}

// SectorPrefix returns the id prefix every entity of a sector carries
func SectorPrefix(sector string) string {
	return sector + "_"
}

// InSector reports whether id carries the sector prefix
func InSector(id, sector string) bool {
	return sector != "" && strings.HasPrefix(id, SectorPrefix(sector))
}

// BodyID builds the target id for a celestial body
// Explicit ids win (prefixed when bare); the star uses the fixed "star" slug;
// everything else slugs its display name
func BodyID(sector, key string, b Body) string {
	if b.ID != "" {
		if InSector(b.ID, sector) {
			return b.ID
		}
		return SectorPrefix(sector) + b.ID
	}
	if key == "star" || strings.EqualFold(b.Type, "star") {
		return SectorPrefix(sector) + "star"
	}
	name := b.Name
	if name == "" {
		name = key
	}
	return SectorPrefix(sector) + Slug(name)
}
