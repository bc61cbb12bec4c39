package fortune

import (
	"math/rand"
	"sync"

	"github.com/monfortune/oracle-backend/internal/model"
)

// Decorator picks flavor text for an outcome tier. Decoration is kept out of
// the deterministic scoring path entirely: two readings with identical scores
// may carry different text, and that is fine because it is decorative.
type Decorator struct {
	pools map[model.Tier][]string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDecorator builds a Decorator over the given pools and random source.
func NewDecorator(pools map[model.Tier][]string, src rand.Source) *Decorator {
	return &Decorator{
		pools: pools,
		rnd:   rand.New(src),
	}
}

// Decorate returns a line from the tier's pool, or an empty string for an
// unknown tier.
func (d *Decorator) Decorate(tier model.Tier) string {
	pool := d.pools[tier]
	if len(pool) == 0 {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return pool[d.rnd.Intn(len(pool))]
}
