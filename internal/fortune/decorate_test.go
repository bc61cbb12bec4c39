package fortune

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/monfortune/oracle-backend/internal/model"
)

func TestDecorateDrawsFromTierPool(t *testing.T) {
	pools := DefaultFortunePools()
	d := NewDecorator(pools, rand.NewSource(1))

	for i := 0; i < 20; i++ {
		text := d.Decorate(model.TierGood)
		found := false
		for _, line := range pools[model.TierGood] {
			if line == text {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Decorate(good) = %q, not in the good pool", text)
		}
	}
}

func TestDecorateUnknownTier(t *testing.T) {
	d := NewDecorator(DefaultFortunePools(), rand.NewSource(1))

	if text := d.Decorate(model.Tier("cosmic")); text != "" {
		t.Fatalf("Decorate(unknown) = %q, want empty", text)
	}
}

func TestDecorateIsSafeForConcurrentUse(t *testing.T) {
	d := NewDecorator(DefaultFortunePools(), rand.NewSource(1))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if d.Decorate(model.TierBad) == "" {
					t.Error("Decorate(bad) returned empty for a populated pool")
				}
			}
		}()
	}
	wg.Wait()
}
