package action

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lixenwraith/planetz/parameter"
)

// TypeGiveItem adds items to the player inventory
const TypeGiveItem = "give_item"

// Inventory receives rewards and items
type Inventory interface {
	Grant(r Reward)
	AddItem(id string, qty int)
}

// MemoryInventory is a thread-safe in-process Inventory
type MemoryInventory struct {
	mu         sync.Mutex
	credits    int
	reputation int
	items      map[string]int
	cards      map[string]bool
}

// NewMemoryInventory creates an empty inventory
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{items: make(map[string]int), cards: make(map[string]bool)}
}

// Grant applies a reward package
func (m *MemoryInventory) Grant(r Reward) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits += r.Credits
	m.reputation += r.Reputation
	for _, it := range r.Items {
		m.items[it]++
	}
	for _, c := range r.Cards {
		m.cards[c] = true
	}
}

// AddItem adds qty of id
func (m *MemoryInventory) AddItem(id string, qty int) {
	m.mu.Lock()
	m.items[id] += qty
	m.mu.Unlock()
}

// Credits returns the credit balance
func (m *MemoryInventory) Credits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credits
}

// Reputation returns accumulated reputation
func (m *MemoryInventory) Reputation() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reputation
}

// Item returns the held quantity of id
func (m *MemoryInventory) Item(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

// Cards returns unlocked cards in sorted order
func (m *MemoryInventory) Cards() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.cards))
	for c := range m.cards {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func giveItemDefinition() Definition {
	return Definition{
		Type: TypeGiveItem,
		Params: []Param{
			{Name: "itemId", Type: String, Required: true},
			{Name: "quantity", Type: Integer, Default: 1, Min: bound(1), Max: bound(999)},
			{Name: "message", Type: String},
		},
		Build: func(p Params) (Action, error) {
			if p.Has("message") {
				p["message"] = Sanitize(p.String("message"))
			}
			return &giveItem{params: p}, nil
		},
	}
}

type giveItem struct {
	params Params
}

func (a *giveItem) Type() string   { return TypeGiveItem }
func (a *giveItem) Params() Params { return a.params }

func (a *giveItem) Execute(ctx *Context, done func(Result)) error {
	svc := ctx.Services
	if svc == nil || svc.Inventory == nil {
		return missing(TypeGiveItem, "inventory")
	}
	id, qty := a.params.String("itemId"), a.params.Int("quantity")
	svc.Inventory.AddItem(id, qty)
	if svc.Audio != nil {
		svc.Audio.PlaySound(parameter.SoundReward, parameter.DefaultAudioVolume)
	}
	if msg := a.params.String("message"); msg != "" && svc.Comm != nil {
		svc.Comm.Show(Message{Title: "Cargo", Text: msg, Duration: parameter.DefaultMessageDuration}, nil)
	}
	done(Result{Success: true, Message: fmt.Sprintf("%d x %s", qty, id)})
	return nil
}
