package targeting

import (
	"testing"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

func TestResolveTable(t *testing.T) {
	r := NewResolver(nil, nil, map[string]string{"Belt Miners": "independent"})

	tests := []struct {
		name   string
		target Target
		want   Diplomacy
	}{
		{"waypoint wins", Target{Kind: KindWaypoint, Diplomacy: "hostile", Discovered: true}, Waypoint},
		{"ally synonym", Target{Kind: KindShip, Diplomacy: "Ally", Discovered: true}, Friendly},
		{"civilian synonym", Target{Kind: KindShip, Diplomacy: "civilian", Discovered: true}, Neutral},
		{"pirate synonym", Target{Kind: KindShip, Diplomacy: "pirate", Discovered: true}, Hostile},
		{"faction table", Target{Kind: KindShip, Faction: "Crimson Raiders", Discovered: true}, Hostile},
		{"configured faction", Target{Kind: KindStation, Faction: "belt miners", Discovered: true}, Neutral},
		{"undiscovered", Target{Kind: KindPlanet, Faction: "Unknown", Diplomacy: "unknown"}, Unknown},
		{"discovered without affiliation", Target{Kind: KindPlanet, Discovered: true}, Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.target); got != tt.want {
				t.Errorf("Resolve = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestColors(t *testing.T) {
	want := map[Diplomacy]string{
		Friendly: "#44ff44",
		Neutral:  "#ffff44",
		Hostile:  "#ff3333",
		Unknown:  "#44ffff",
		Waypoint: "#ff00ff",
	}
	for d, c := range want {
		if d.Color() != c {
			t.Errorf("%s color = %s, want %s", d, d.Color(), c)
		}
	}
}

func TestStationFactionEnrichment(t *testing.T) {
	f := newFixture("A0_star")
	f.model.bodies["station_0"] = world.Body{Name: "Hermes Station", Type: "station", Position: world.Vec3{20, 0, 0}}
	f.model.info["station_0"] = world.BodyInfo{Name: "Hermes Station", Type: "station", Faction: "Terran Republic Alliance"}
	f.refresh()

	station, ok := f.registry.ByID("A0_hermes_station")
	if !ok || station.Discovered {
		t.Fatalf("station should be listed undiscovered: %+v", station)
	}

	// Discovery lands after the list was built; the first render must still be green
	f.discovery["A0_hermes_station"] = true
	if c := f.resolver.Color(station); c != parameter.ColorFriendly {
		t.Errorf("station color = %s, want %s", c, parameter.ColorFriendly)
	}
}

func TestResolveDeterministic(t *testing.T) {
	f := newFixture("A0_star", "A0_terra_prime")
	f.model.info["planet_0"] = world.BodyInfo{Faction: "Terran Republic Alliance"}
	f.refresh()
	for _, tg := range f.registry.List() {
		first := f.resolver.Resolve(tg)
		for i := 0; i < 5; i++ {
			if got := f.resolver.Resolve(tg); got != first {
				t.Fatalf("%s resolved %s then %s", tg.ID, first, got)
			}
		}
	}
	planet, _ := f.registry.ByID("A0_terra_prime")
	if planet.Diplomacy != "friendly" {
		t.Errorf("faction table not applied at gate: %q", planet.Diplomacy)
	}
}
