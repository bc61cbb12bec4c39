package payout

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
)

type fakeSubmitter struct {
	sendErr  error
	waitErr  error
	sent     []*big.Int
	waitCtxs []context.Context
}

func (f *fakeSubmitter) SendNative(_ context.Context, _ common.Address, amount *big.Int) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, new(big.Int).Set(amount))
	return "0xreturnhash", nil
}

func (f *fakeSubmitter) WaitMined(ctx context.Context, _ string) error {
	f.waitCtxs = append(f.waitCtxs, ctx)
	return f.waitErr
}

type fakeMetrics struct {
	statuses []model.PayoutStatus
}

func (f *fakeMetrics) ObservePayout(status model.PayoutStatus, _ time.Time) {
	f.statuses = append(f.statuses, status)
}

var recipient = common.HexToAddress("0x1111111111111111111111111111111111111111")

func ether(units int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), big.NewInt(1e18))
}

func TestPayoutZeroAmountSkipsTransfer(t *testing.T) {
	submitter := &fakeSubmitter{}
	metrics := &fakeMetrics{}
	e := NewExecutor(submitter, ether(5), time.Second, metrics, zap.NewNop())

	result := e.Payout(context.Background(), recipient, 0, ether(1))

	if result.Status != model.PayoutNone {
		t.Fatalf("Status = %s, want none", result.Status)
	}
	if result.TxHash != "" {
		t.Fatalf("TxHash = %q, want empty", result.TxHash)
	}
	if len(submitter.sent) != 0 {
		t.Fatal("zero payout still submitted a transfer")
	}
	if len(metrics.statuses) != 1 || metrics.statuses[0] != model.PayoutNone {
		t.Fatalf("observed statuses = %v, want [none]", metrics.statuses)
	}
}

func TestPayoutAmountMath(t *testing.T) {
	tests := []struct {
		name       string
		multiplier int64
		principal  *big.Int
		want       string
	}{
		{name: "half", multiplier: 50, principal: big.NewInt(50_000_000_000_000_000), want: "25000000000000000"},
		{name: "even", multiplier: 100, principal: ether(1), want: "1000000000000000000"},
		{name: "three x", multiplier: 300, principal: big.NewInt(3), want: "9"},
		// 7 * 150 / 100 floors to 10 wei.
		{name: "floors", multiplier: 150, principal: big.NewInt(7), want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := &fakeSubmitter{}
			e := NewExecutor(submitter, ether(1000), time.Second, &fakeMetrics{}, zap.NewNop())

			result := e.Payout(context.Background(), recipient, tt.multiplier, tt.principal)

			if result.Status != model.PayoutConfirmed {
				t.Fatalf("Status = %s, want confirmed", result.Status)
			}
			if result.Amount.String() != tt.want {
				t.Fatalf("Amount = %s, want %s", result.Amount, tt.want)
			}
			if len(submitter.sent) != 1 || submitter.sent[0].String() != tt.want {
				t.Fatalf("submitted %v, want one transfer of %s", submitter.sent, tt.want)
			}
		})
	}
}

func TestPayoutTruncatesToCeiling(t *testing.T) {
	submitter := &fakeSubmitter{}
	e := NewExecutor(submitter, ether(5), time.Second, &fakeMetrics{}, zap.NewNop())

	// 2 units at 3x would be 6, above the 5 unit ceiling.
	result := e.Payout(context.Background(), recipient, 300, ether(2))

	if result.Status != model.PayoutConfirmed {
		t.Fatalf("Status = %s, want confirmed", result.Status)
	}
	if result.Amount.Cmp(ether(5)) != 0 {
		t.Fatalf("Amount = %s, want ceiling %s", result.Amount, ether(5))
	}
}

func TestPayoutSubmissionFailure(t *testing.T) {
	submitter := &fakeSubmitter{sendErr: errors.New("insufficient funds")}
	metrics := &fakeMetrics{}
	e := NewExecutor(submitter, ether(5), time.Second, metrics, zap.NewNop())

	result := e.Payout(context.Background(), recipient, 100, ether(1))

	if result.Status != model.PayoutFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if result.TxHash != "" {
		t.Fatalf("TxHash = %q, want empty on failed submission", result.TxHash)
	}
	if result.Amount.Cmp(ether(1)) != 0 {
		t.Fatalf("Amount = %s, the intended amount must still be reported", result.Amount)
	}
	if len(metrics.statuses) != 1 || metrics.statuses[0] != model.PayoutFailed {
		t.Fatalf("observed statuses = %v, want [failed]", metrics.statuses)
	}
}

func TestPayoutConfirmationTimeoutReportsPending(t *testing.T) {
	submitter := &fakeSubmitter{waitErr: context.DeadlineExceeded}
	metrics := &fakeMetrics{}
	e := NewExecutor(submitter, ether(5), 50*time.Millisecond, metrics, zap.NewNop())

	result := e.Payout(context.Background(), recipient, 100, ether(1))

	if result.Status != model.PayoutPending {
		t.Fatalf("Status = %s, want pending", result.Status)
	}
	if result.TxHash != "0xreturnhash" {
		t.Fatalf("TxHash = %q, the submitted hash must be reported", result.TxHash)
	}
	if len(submitter.waitCtxs) != 1 {
		t.Fatalf("WaitMined called %d times, want 1", len(submitter.waitCtxs))
	}
	if _, ok := submitter.waitCtxs[0].Deadline(); !ok {
		t.Fatal("WaitMined context carries no deadline")
	}
	if len(metrics.statuses) != 1 || metrics.statuses[0] != model.PayoutPending {
		t.Fatalf("observed statuses = %v, want [pending]", metrics.statuses)
	}
}
