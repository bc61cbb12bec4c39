package resolver

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
)

type fakeProber struct {
	found  bool
	err    error
	probes int
}

func (f *fakeProber) HasReceipt(context.Context, string) (bool, error) {
	f.probes++
	return f.found, f.err
}

const hash = "0xabc"

var order = []model.Network{model.Mainnet, model.Testnet}

func TestResolveExplicitNetworkSkipsProbing(t *testing.T) {
	mainnet := &fakeProber{found: true}
	testnet := &fakeProber{}
	r := New(order, map[model.Network]ReceiptProber{
		model.Mainnet: mainnet,
		model.Testnet: testnet,
	}, "", zap.NewNop())

	// Explicit wins even though the hash only exists on mainnet.
	network, err := r.Resolve(context.Background(), hash, model.Testnet)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if network != model.Testnet {
		t.Fatalf("Resolve() = %s, want testnet", network)
	}
	if mainnet.probes+testnet.probes != 0 {
		t.Fatal("explicit network still triggered probing")
	}
}

func TestResolveExplicitUnconfiguredNetwork(t *testing.T) {
	r := New(order, map[model.Network]ReceiptProber{
		model.Testnet: &fakeProber{found: true},
	}, "", zap.NewNop())

	_, err := r.Resolve(context.Background(), hash, model.Mainnet)
	if !errors.Is(err, ErrNoNetwork) {
		t.Fatalf("Resolve() error = %v, want ErrNoNetwork", err)
	}
}

func TestResolveDefaultNetworkSkipsProbing(t *testing.T) {
	mainnet := &fakeProber{found: true}
	testnet := &fakeProber{}
	r := New(order, map[model.Network]ReceiptProber{
		model.Mainnet: mainnet,
		model.Testnet: testnet,
	}, model.Testnet, zap.NewNop())

	network, err := r.Resolve(context.Background(), hash, "")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if network != model.Testnet {
		t.Fatalf("Resolve() = %s, want the default network", network)
	}
	if mainnet.probes+testnet.probes != 0 {
		t.Fatal("configured default still triggered probing")
	}
}

func TestResolveUnconfiguredDefaultFallsBackToProbing(t *testing.T) {
	testnet := &fakeProber{found: true}
	r := New(order, map[model.Network]ReceiptProber{
		model.Testnet: testnet,
	}, model.Mainnet, zap.NewNop())

	network, err := r.Resolve(context.Background(), hash, "")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if network != model.Testnet {
		t.Fatalf("Resolve() = %s, want testnet", network)
	}
	if testnet.probes != 1 {
		t.Fatalf("testnet probed %d times, want 1", testnet.probes)
	}
}

func TestResolveProbesInPriorityOrder(t *testing.T) {
	mainnet := &fakeProber{found: true}
	testnet := &fakeProber{found: true}
	r := New(order, map[model.Network]ReceiptProber{
		model.Mainnet: mainnet,
		model.Testnet: testnet,
	}, "", zap.NewNop())

	network, err := r.Resolve(context.Background(), hash, "")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if network != model.Mainnet {
		t.Fatalf("Resolve() = %s, want mainnet first", network)
	}
	if testnet.probes != 0 {
		t.Fatal("lower-priority network probed after a hit")
	}
}

func TestResolveSkipsFailingProber(t *testing.T) {
	mainnet := &fakeProber{err: errors.New("rpc down")}
	testnet := &fakeProber{found: true}
	r := New(order, map[model.Network]ReceiptProber{
		model.Mainnet: mainnet,
		model.Testnet: testnet,
	}, "", zap.NewNop())

	network, err := r.Resolve(context.Background(), hash, "")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if network != model.Testnet {
		t.Fatalf("Resolve() = %s, a probe failure must not abort resolution", network)
	}
}

func TestResolveNoNetworkHasTheHash(t *testing.T) {
	r := New(order, map[model.Network]ReceiptProber{
		model.Mainnet: &fakeProber{},
		model.Testnet: &fakeProber{},
	}, "", zap.NewNop())

	_, err := r.Resolve(context.Background(), hash, "")
	if !errors.Is(err, ErrNoNetwork) {
		t.Fatalf("Resolve() error = %v, want ErrNoNetwork", err)
	}
}
