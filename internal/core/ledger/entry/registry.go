package entry

import (
	"errors"
	"slices"
)

// Registry is the singleton list of every market ever created.
// MarketAddresses[i] is the derived authority of MarketIDs[i].
type Registry struct {
	Admin           Address   `codec:"admin"`
	MarketIDs       []string  `codec:"market_ids"`
	MarketAddresses []Address `codec:"market_addresses"`
	MarketIDCounter uint64    `codec:"market_id_counter"`
	LastMarketID    uint64    `codec:"last_market_id"`
}

var (
	ErrRegistryMisaligned = errors.New("registry: market ids and addresses differ in length")
	ErrRegistryDuplicate  = errors.New("registry: duplicate market id")
)

func (r *Registry) Type() Type { return TypeRegistry }

func (r *Registry) Validate() error {
	if len(r.MarketIDs) != len(r.MarketAddresses) {
		return ErrRegistryMisaligned
	}
	seen := make(map[string]struct{}, len(r.MarketIDs))
	for _, id := range r.MarketIDs {
		if _, dup := seen[id]; dup {
			return ErrRegistryDuplicate
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Contains reports whether id has already been registered.
func (r *Registry) Contains(id string) bool {
	return slices.Contains(r.MarketIDs, id)
}

// Append records a newly created market and advances the counters.
func (r *Registry) Append(id string, authority Address) {
	r.MarketIDs = append(r.MarketIDs, id)
	r.MarketAddresses = append(r.MarketAddresses, authority)
	r.MarketIDCounter++
	r.LastMarketID = r.MarketIDCounter
}
