package targeting

import (
	"strings"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

// Diplomacy is the projected relationship of a target to the player
type Diplomacy string

const (
	Friendly Diplomacy = "friendly"
	Neutral  Diplomacy = "neutral"
	Hostile  Diplomacy = "hostile"
	Unknown  Diplomacy = "unknown"
	Waypoint Diplomacy = "waypoint"
)

// Color returns the visual-contract color for d
func (d Diplomacy) Color() string {
	switch d {
	case Friendly:
		return parameter.ColorFriendly
	case Neutral:
		return parameter.ColorNeutral
	case Hostile:
		return parameter.ColorHostile
	case Waypoint:
		return parameter.ColorWaypoint
	default:
		return parameter.ColorUnknown
	}
}

var diplomacySynonyms = map[string]Diplomacy{
	"friendly":    Friendly,
	"allied":      Friendly,
	"ally":        Friendly,
	"neutral":     Neutral,
	"civilian":    Neutral,
	"independent": Neutral,
	"hostile":     Hostile,
	"enemy":       Hostile,
	"pirate":      Hostile,
}

// NormalizeDiplomacy maps a raw diplomacy string onto the enum
func NormalizeDiplomacy(raw string) (Diplomacy, bool) {
	d, ok := diplomacySynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return d, ok
}

// DefaultFactions is the built-in faction to diplomacy table
var DefaultFactions = map[string]string{
	"Terran Republic Alliance": "friendly",
	"Free Trader Consortium":   "neutral",
	"Scientists Consortium":    "neutral",
	"Mining Collective":        "civilian",
	"Crimson Raiders":          "pirate",
	"Shadow Consortium":        "hostile",
	"Void Cult":                "enemy",
}

// Resolver maps targets to diplomacy
// Resolve is a pure function of the target, the model and the discovery set
type Resolver struct {
	model     world.SolarSystemModel
	discovery Discovery
	factions  map[string]string
}

// NewResolver creates a resolver; extra faction entries override the defaults
// model and discovery may be nil
func NewResolver(model world.SolarSystemModel, discovery Discovery, factions map[string]string) *Resolver {
	table := make(map[string]string, len(DefaultFactions)+len(factions))
	for k, v := range DefaultFactions {
		table[strings.ToLower(k)] = v
	}
	for k, v := range factions {
		table[strings.ToLower(k)] = v
	}
	return &Resolver{model: model, discovery: discovery, factions: table}
}

// Resolve returns the diplomacy of t
func (r *Resolver) Resolve(t Target) Diplomacy {
	if t.Kind == KindWaypoint {
		return Waypoint
	}
	if d, ok := r.fromFields(t.Faction, t.Diplomacy); ok {
		return d
	}

	// The list may predate the discovery that unlocked this target, so the
	// live set is consulted before falling back to unknown
	discovered := t.Discovered
	if !discovered && r.discovery != nil {
		discovered = r.discovery.IsDiscovered(t.ID)
	}
	if !discovered {
		return Unknown
	}

	if info, ok := r.enrich(t); ok {
		if d, ok := r.fromFields(info.Faction, info.Diplomacy); ok {
			return d
		}
	}
	return Neutral
}

// Color is shorthand for Resolve(t).Color()
func (r *Resolver) Color(t Target) string {
	return r.Resolve(t).Color()
}

func (r *Resolver) fromFields(faction, diplomacy string) (Diplomacy, bool) {
	if diplomacy != "" && !strings.EqualFold(diplomacy, parameter.UnknownDiplomacy) {
		if d, ok := NormalizeDiplomacy(diplomacy); ok {
			return d, true
		}
	}
	if faction != "" && faction != parameter.UnknownFaction {
		if mapped, ok := r.factions[strings.ToLower(faction)]; ok {
			if d, ok := NormalizeDiplomacy(mapped); ok {
				return d, true
			}
		}
	}
	return "", false
}

// enrich looks up the authoritative body metadata for celestial targets
func (r *Resolver) enrich(t Target) (world.BodyInfo, bool) {
	if r.model == nil || !t.Kind.IsCelestial() {
		return world.BodyInfo{}, false
	}
	if t.BodyKey != "" {
		return r.model.CelestialBodyInfo(t.BodyKey)
	}
	sector := r.model.CurrentSector()
	for key, body := range r.model.CelestialBodies() {
		if world.BodyID(sector, key, body) == t.ID {
			return r.model.CelestialBodyInfo(key)
		}
	}
	return world.BodyInfo{}, false
}
