// Package universe loads sector definitions from YAML and serves them as the
// solar system model. It also owns the live ship fleet.
package universe

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/planetz/world"
)

// BodyDef is a celestial body as declared in a universe file
type BodyDef struct {
	ID        string    `yaml:"id,omitempty"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Position  []float64 `yaml:"position"`
	Faction   string    `yaml:"faction,omitempty"`
	Diplomacy string    `yaml:"diplomacy,omitempty"`
}

// ShipDef is an initial ship placement in a sector
type ShipDef struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Hull      float64   `yaml:"hull"`
	Faction   string    `yaml:"faction,omitempty"`
	Diplomacy string    `yaml:"diplomacy,omitempty"`
	Position  []float64 `yaml:"position"`
}

// SectorDef is one sector of the universe file
type SectorDef struct {
	Name   string             `yaml:"name"`
	Spawn  []float64          `yaml:"spawn,omitempty"` // Player entry point, origin when absent
	Bodies map[string]BodyDef `yaml:"bodies"`
	Ships  []ShipDef          `yaml:"ships,omitempty"`
}

// File is the top-level universe document
type File struct {
	Factions map[string]string    `yaml:"factions,omitempty"`
	Sectors  map[string]SectorDef `yaml:"sectors"`
}

// Universe is a SolarSystemModel backed by a parsed universe file
type Universe struct {
	mu      sync.RWMutex
	file    File
	current string
}

// Load reads and parses a universe file
func Load(path string) (*Universe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse builds a Universe from YAML bytes
func Parse(raw []byte) (*Universe, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if len(f.Sectors) == 0 {
		return nil, fmt.Errorf("parse universe: no sectors")
	}
	for code, sec := range f.Sectors {
		for key, b := range sec.Bodies {
			if _, err := toVec(b.Position); err != nil {
				return nil, fmt.Errorf("sector %s body %s: %w", code, key, err)
			}
		}
		if sec.Spawn != nil {
			if _, err := toVec(sec.Spawn); err != nil {
				return nil, fmt.Errorf("sector %s spawn: %w", code, err)
			}
		}
		for i, s := range sec.Ships {
			if _, err := toVec(s.Position); err != nil {
				return nil, fmt.Errorf("sector %s ship %d: %w", code, i, err)
			}
		}
	}
	return &Universe{file: f}, nil
}

// New builds a Universe from an in-memory document
func New(f File) *Universe {
	return &Universe{file: f}
}

func toVec(p []float64) (world.Vec3, error) {
	if len(p) != 3 {
		return world.Vec3{}, fmt.Errorf("position needs 3 components, got %d", len(p))
	}
	return world.Vec3{p[0], p[1], p[2]}, nil
}

// SetSector switches the active sector
func (u *Universe) SetSector(code string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.file.Sectors[code]; !ok {
		return fmt.Errorf("unknown sector %q", code)
	}
	u.current = code
	return nil
}

// SpawnPoint returns the player entry point of a sector
func (u *Universe) SpawnPoint(code string) world.Vec3 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	pos, err := toVec(u.file.Sectors[code].Spawn)
	if err != nil {
		return world.Vec3{}
	}
	return pos
}

// Sectors returns sector codes in sorted order
func (u *Universe) Sectors() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	codes := make([]string, 0, len(u.file.Sectors))
	for code := range u.file.Sectors {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SectorName returns the display name of a sector
func (u *Universe) SectorName(code string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.file.Sectors[code].Name
}

// Factions returns the faction to diplomacy table declared in the file
func (u *Universe) Factions() map[string]string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(map[string]string, len(u.file.Factions))
	for k, v := range u.file.Factions {
		out[k] = v
	}
	return out
}

// CurrentSector implements world.SolarSystemModel
func (u *Universe) CurrentSector() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}

// CelestialBodies implements world.SolarSystemModel
func (u *Universe) CelestialBodies() map[string]world.Body {
	u.mu.RLock()
	defer u.mu.RUnlock()
	sec, ok := u.file.Sectors[u.current]
	if !ok {
		return nil
	}
	out := make(map[string]world.Body, len(sec.Bodies))
	for key, b := range sec.Bodies {
		pos, _ := toVec(b.Position)
		out[key] = world.Body{
			ID:       b.ID,
			Name:     b.Name,
			Type:     strings.ToLower(b.Type),
			Position: pos,
			Scene:    world.ObjectID("body-" + key),
		}
	}
	return out
}

// CelestialBodyInfo implements world.SolarSystemModel
func (u *Universe) CelestialBodyInfo(key string) (world.BodyInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	b, ok := u.file.Sectors[u.current].Bodies[key]
	if !ok {
		return world.BodyInfo{}, false
	}
	return world.BodyInfo{
		Name:      b.Name,
		Type:      strings.ToLower(b.Type),
		Faction:   b.Faction,
		Diplomacy: b.Diplomacy,
	}, true
}

// InitialShips returns the declared ship population of a sector
func (u *Universe) InitialShips(code string) []world.Ship {
	u.mu.RLock()
	defer u.mu.RUnlock()
	defs := u.file.Sectors[code].Ships
	ships := make([]world.Ship, 0, len(defs))
	for _, d := range defs {
		pos, _ := toVec(d.Position)
		id := d.ID
		if !world.InSector(id, code) {
			id = world.SectorPrefix(code) + id
		}
		ships = append(ships, world.Ship{
			ID:        id,
			Name:      d.Name,
			ShipType:  d.Type,
			Hull:      d.Hull,
			Faction:   d.Faction,
			Diplomacy: d.Diplomacy,
			Position:  pos,
			Scene:     world.ObjectID("ship-" + id),
		})
	}
	return ships
}
