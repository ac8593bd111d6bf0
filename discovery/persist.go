package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

// persistedSet is the canonical stored layout of a sector's discovery set
type persistedSet struct {
	Sector string   `json:"sector"`
	IDs    []string `json:"ids"`
}

func storeKey(sector string) string {
	return parameter.DiscoveryKeyPrefix + sector
}

// decodeSet accepts the canonical object, a bare id array and an id->flag map
// legacy reports whether a non-canonical layout was read
func decodeSet(raw json.RawMessage) (ids []string, legacy bool, err error) {
	var canonical persistedSet
	if err := json.Unmarshal(raw, &canonical); err == nil && canonical.IDs != nil {
		return canonical.IDs, false, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true, nil
	}

	var flags map[string]any
	if err := json.Unmarshal(raw, &flags); err == nil {
		if _, hasIDs := flags["ids"]; !hasIDs {
			for id, v := range flags {
				if b, ok := v.(bool); ok && !b {
					continue
				}
				ids = append(ids, id)
			}
			sort.Strings(ids)
			return ids, true, nil
		}
		// {"sector": "A0"} with no ids is an empty canonical set
		if flags["ids"] == nil {
			return nil, false, nil
		}
	}
	return nil, false, fmt.Errorf("unrecognized discovery layout")
}

func (e *Engine) loadSet(sector string) *sectorSet {
	set := newSectorSet()
	if e.store == nil {
		return set
	}
	var raw json.RawMessage
	err := e.store.Get(storeKey(sector), &raw)
	if errors.Is(err, world.ErrNotFound) {
		return set
	}
	if err != nil {
		e.logger.Printf("[discovery] load %s: %v", sector, err)
		return set
	}
	ids, legacy, err := decodeSet(raw)
	if err != nil {
		e.logger.Printf("[discovery] load %s: %v, starting empty", sector, err)
		return set
	}
	if legacy {
		e.logger.Printf("[discovery] sector %s stored in legacy layout, normalizing %d ids", sector, len(ids))
	}
	for _, id := range ids {
		if id != "" {
			set.ids[id] = e.clock.Now()
		}
	}
	if legacy {
		e.persist(sector, set)
	}
	return set
}

func (e *Engine) persist(sector string, set *sectorSet) {
	if e.store == nil {
		return
	}
	if err := e.store.Set(storeKey(sector), persistedSet{Sector: sector, IDs: set.sorted()}); err != nil {
		e.logger.Printf("[discovery] persist %s: %v", sector, err)
	}
}
