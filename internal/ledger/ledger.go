// Package ledger tracks already-paid-out transaction hashes per network.
//
// The ledger is deliberately bounded in memory: when a network's set exceeds
// the configured threshold the whole set is cleared. Hashes older than the
// last compaction cycle are therefore not guaranteed to be rejected on
// replay; this trades exact once-ever semantics for bounded memory, which is
// acceptable only because chain transactions cannot be replayed at the chain
// level, only at the application-payout level.
package ledger

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
)

// Ledger is the sole arbiter of replay state for all concurrent requests.
type Ledger struct {
	mu         sync.Mutex
	sets       map[model.Network]map[string]struct{}
	maxEntries int
	logger     *zap.Logger
}

// New builds a Ledger that compacts any per-network set exceeding maxEntries.
func New(maxEntries int, logger *zap.Logger) *Ledger {
	return &Ledger{
		sets:       make(map[model.Network]map[string]struct{}),
		maxEntries: maxEntries,
		logger:     logger.Named("ledger"),
	}
}

func canonical(hash string) string {
	return strings.ToLower(hash)
}

// HasProcessed reports whether the hash was already paid out on the network.
// Case variation in the input cannot bypass the check.
func (l *Ledger) HasProcessed(network model.Network, hash string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sets[network][canonical(hash)]
	return ok
}

// Mark records the hash as processed and reports whether this call was the
// one that inserted it. The check and insert are atomic, so two concurrent
// requests carrying the same hash cannot both pass the replay gate. Mark must
// be called strictly before payout dispatch: a crash between marking and
// dispatch loses a payout, never doubles one.
func (l *Ledger) Mark(network model.Network, hash string) bool {
	key := canonical(hash)
	l.mu.Lock()
	defer l.mu.Unlock()
	set, ok := l.sets[network]
	if !ok {
		set = make(map[string]struct{})
		l.sets[network] = set
	}
	if _, dup := set[key]; dup {
		return false
	}
	set[key] = struct{}{}
	return true
}

// Size returns the number of tracked hashes for a network.
func (l *Ledger) Size(network model.Network) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sets[network])
}

// MaybeCompact clears the network's entire set when it exceeds the threshold.
func (l *Ledger) MaybeCompact(network model.Network) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maybeCompactLocked(network)
}

func (l *Ledger) maybeCompactLocked(network model.Network) {
	set := l.sets[network]
	if len(set) <= l.maxEntries {
		return
	}
	l.logger.Info("compacting processed set",
		zap.String("network", string(network)),
		zap.Int("dropped", len(set)),
	)
	l.sets[network] = make(map[string]struct{})
}

// Sweep runs MaybeCompact across every tracked network.
func (l *Ledger) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for network := range l.sets {
		l.maybeCompactLocked(network)
	}
}
