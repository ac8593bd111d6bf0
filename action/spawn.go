package action

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/lixenwraith/planetz/event"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// TypeSpawnShips spawns a formation of ships at the waypoint
const TypeSpawnShips = "spawn_ships"

var spawnSeq atomic.Uint64

func spawnShipsDefinition() Definition {
	return Definition{
		Type: TypeSpawnShips,
		Params: []Param{
			{Name: "shipType", Type: String, Required: true},
			{Name: "minCount", Type: Integer, Default: 1, Min: bound(1), Max: bound(12)},
			{Name: "maxCount", Type: Integer, Min: bound(1), Max: bound(12)},
			{Name: "formation", Type: String, Default: "triangle", Enum: []string{"triangle", "diamond", "line"}},
			{Name: "faction", Type: String, Default: "Crimson Raiders"},
			{Name: "diplomacy", Type: String, Default: "hostile", Enum: []string{"friendly", "neutral", "hostile"}},
			{Name: "hull", Type: Number, Default: 100.0, Min: bound(1)},
		},
		Build: func(p Params) (Action, error) {
			if !p.Has("maxCount") {
				p["maxCount"] = p.Int("minCount")
			}
			if p.Int("maxCount") < p.Int("minCount") {
				return nil, fmt.Errorf("%s: %w: maxCount %d < minCount %d",
					TypeSpawnShips, ErrInvalidParameter, p.Int("maxCount"), p.Int("minCount"))
			}
			return &spawnShips{params: p}, nil
		},
	}
}

type spawnShips struct {
	params Params
}

func (a *spawnShips) Type() string   { return TypeSpawnShips }
func (a *spawnShips) Params() Params { return a.params }

func (a *spawnShips) Execute(ctx *Context, done func(Result)) error {
	svc := ctx.Services
	if svc == nil || svc.Ships == nil {
		return missing(TypeSpawnShips, "ship registry")
	}

	lo, hi := a.params.Int("minCount"), a.params.Int("maxCount")
	count := lo
	if hi > lo {
		intn := rand.IntN
		if svc.RandIntN != nil {
			intn = svc.RandIntN
		}
		count += intn(hi - lo + 1)
	}

	shipType := a.params.String("shipType")
	offsets := FormationOffsets(a.params.String("formation"), count, parameter.FormationSpacing)
	spawned := make([]string, 0, count)
	for _, off := range offsets {
		n := spawnSeq.Add(1)
		ship := world.Ship{
			ID:        fmt.Sprintf("%s%s_%d", world.SectorPrefix(ctx.Sector), world.Slug(shipType), n),
			Name:      fmt.Sprintf("%s %d", displayName(shipType), n),
			ShipType:  shipType,
			Hull:      a.params.Float("hull"),
			Faction:   a.params.String("faction"),
			Diplomacy: a.params.String("diplomacy"),
			Position:  ctx.Position.Add(off),
		}
		if err := svc.Ships.Spawn(ship); err != nil {
			ctx.logger().Printf("[action] spawn %s: %v", ship.ID, err)
			continue
		}
		spawned = append(spawned, ship.ID)
		if svc.Targets != nil {
			svc.Targets.AddTransient(targeting.Target{
				ID:          ship.ID,
				Name:        ship.Name,
				Kind:        targeting.KindShip,
				Position:    ship.Position,
				HasPosition: true,
				Faction:     ship.Faction,
				Diplomacy:   ship.Diplomacy,
				Discovered:  true,
				Hull:        ship.Hull,
				HasHull:     true,
			})
		}
		if svc.Events != nil {
			svc.Events.Emit(event.EventShipSpawned, &event.ShipSpawnedPayload{
				ID:       ship.ID,
				Position: [3]float64(ship.Position),
			})
		}
	}

	res := Result{
		Success: len(spawned) == count,
		Message: fmt.Sprintf("spawned %d/%d %s", len(spawned), count, shipType),
		Data:    map[string]any{"ships": spawned},
	}
	done(res)
	return nil
}

func displayName(shipType string) string {
	words := strings.FieldsFunc(shipType, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormationOffsets lays out count ships around the origin
// triangle: rows of growing width behind a leader; diamond: rings of four
// on the axes; line: abreast along x
func FormationOffsets(formation string, count int, spacing float64) []world.Vec3 {
	out := make([]world.Vec3, 0, count)
	switch formation {
	case "line":
		start := -float64(count-1) / 2
		for i := 0; i < count; i++ {
			out = append(out, world.Vec3{(start + float64(i)) * spacing, 0, 0})
		}

	case "diamond":
		out = append(out, world.Vec3{0, 0, 0})
		axes := []world.Vec3{{0, 0, 1}, {1, 0, 0}, {0, 0, -1}, {-1, 0, 0}}
		for ring := 1; len(out) < count; ring++ {
			for _, a := range axes {
				if len(out) == count {
					break
				}
				out = append(out, a.Mul(float64(ring)*spacing))
			}
		}

	default: // triangle
		for row := 0; len(out) < count; row++ {
			for col := 0; col <= row && len(out) < count; col++ {
				x := (float64(col) - float64(row)/2) * spacing
				out = append(out, world.Vec3{x, 0, -float64(row) * spacing})
			}
		}
	}
	return out
}
