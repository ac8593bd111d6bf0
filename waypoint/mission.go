package waypoint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mission groups the waypoints of one storyline
type Mission struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Sector    string `yaml:"sector"`
	Waypoints []Template `yaml:"waypoints"`
}

// MissionFile is the top-level mission document
type MissionFile struct {
	Missions []Mission `yaml:"missions"`
}

// ParseMissions decodes a mission document; waypoint sectors default to the mission's
func ParseMissions(raw []byte) ([]Mission, error) {
	var f MissionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse missions: %w", err)
	}
	for i := range f.Missions {
		ms := &f.Missions[i]
		for j := range ms.Waypoints {
			if ms.Waypoints[j].Sector == "" {
				ms.Waypoints[j].Sector = ms.Sector
			}
		}
	}
	return f.Missions, nil
}

// LoadMissions reads a mission file
func LoadMissions(path string) ([]Mission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMissions(raw)
}

// CreateMissions creates every waypoint not already restored from the store
// Invalid waypoints are reported and skipped
func (m *Manager) CreateMissions(missions []Mission) (created int, errs []error) {
	for _, ms := range missions {
		for _, tmpl := range ms.Waypoints {
			if tmpl.ID != "" && tmpl.Sector != "" {
				if _, exists := m.waypoints[m.allocateID(tmpl.Sector, tmpl.ID, tmpl.Name)]; exists {
					continue
				}
			}
			if _, err := m.Create(tmpl); err != nil {
				errs = append(errs, fmt.Errorf("mission %s waypoint %q: %w", ms.ID, tmpl.Name, err))
				continue
			}
			created++
		}
	}
	return created, errs
}
