package launchpad

import (
	"errors"
	"testing"

	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/metrics"
	"github.com/nexwallet/launchpad/internal/storage"
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/tx"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type processFixture struct {
	l       *ledger.Ledger
	p       *Program
	m       *metrics.Metrics
	refAuth *crypto.PrivateKey
	creator *crypto.PrivateKey
	admin   *crypto.PrivateKey
	buyer   *crypto.PrivateKey
	nonce   uint64
}

func newProcessFixture(t *testing.T) *processFixture {
	t.Helper()
	keys := make([]*crypto.PrivateKey, 4)
	for i := range keys {
		k, err := crypto.GenerateKey()
		if err != nil {
			t.Fatal(err)
		}
		keys[i] = k
	}
	m := metrics.New("test")
	p, err := New(testProgramID, m)
	if err != nil {
		t.Fatal(err)
	}
	l := ledger.New(storage.NewMemory())
	if _, err := l.Bootstrap(p.ReferenceMint(), keys[0].Address(), 9); err != nil {
		t.Fatal(err)
	}
	return &processFixture{l: l, p: p, m: m, refAuth: keys[0], creator: keys[1], admin: keys[2], buyer: keys[3]}
}

func (f *processFixture) submit(in tx.Instruction, signers ...crypto.Signer) (*Receipt, error) {
	f.nonce++
	t := tx.NewBuilder(in).SetNonce(f.nonce).Sign(signers...).Build()
	return f.p.Process(f.l, t)
}

func TestProcess_EndToEnd(t *testing.T) {
	f := newProcessFixture(t)

	rc, err := f.submit(tx.InitLaunchpad(f.creator.Address(), f.admin.Address(), "e2e", 2, 42, 1000), f.creator, f.admin)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !rc.Created || rc.Sale == nil || rc.Sale.TokenStoryID != 42 {
		t.Fatalf("init receipt = %+v", rc)
	}
	mint := rc.Sale.TokenMint

	if _, err := f.submit(tx.MintReference(f.refAuth.Address(), f.buyer.Address(), 500), f.refAuth); err != nil {
		t.Fatalf("mint reference: %v", err)
	}

	rc, err = f.submit(tx.BuyToken(f.buyer.Address(), mint, "e2e", 100), f.buyer)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if rc.Purchase == nil || rc.Purchase.Cost != 200 || rc.Purchase.TotalRaised != 200 {
		t.Fatalf("buy receipt = %+v", rc.Purchase)
	}

	_, err = f.submit(tx.BuyToken(f.buyer.Address(), mint, "e2e", 500), f.buyer)
	if !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("second buy err = %v, want ErrInsufficientTokens", err)
	}

	if got := testutil.ToFloat64(f.m.SalesInitialized); got != 1 {
		t.Errorf("SalesInitialized = %v, want 1", got)
	}
	if got := testutil.ToFloat64(f.m.TokensSold); got != 100 {
		t.Errorf("TokensSold = %v, want 100", got)
	}
	if got := testutil.ToFloat64(f.m.PurchasesFailed.WithLabelValues("insufficient")); got != 1 {
		t.Errorf("PurchasesFailed[insufficient] = %v, want 1", got)
	}
}

func TestProcess_Replay(t *testing.T) {
	f := newProcessFixture(t)
	signed := tx.NewBuilder(tx.InitLaunchpad(f.creator.Address(), f.admin.Address(), "once", 1, 0, 10)).
		SetNonce(1).
		Sign(f.creator, f.admin).
		Build()

	if _, err := f.p.Process(f.l, signed); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := f.p.Process(f.l, signed); !errors.Is(err, ledger.ErrDuplicateTransaction) {
		t.Fatalf("replay err = %v, want ErrDuplicateTransaction", err)
	}
}

func TestProcess_ReinitIsNoop(t *testing.T) {
	f := newProcessFixture(t)
	in := tx.InitLaunchpad(f.creator.Address(), f.admin.Address(), "again", 1, 0, 10)
	if _, err := f.submit(in, f.creator, f.admin); err != nil {
		t.Fatal(err)
	}
	rc, err := f.submit(in, f.creator, f.admin)
	if err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if rc.Created {
		t.Fatal("re-init reported a new sale")
	}
	if got := testutil.ToFloat64(f.m.SalesInitialized); got != 1 {
		t.Fatalf("SalesInitialized = %v, want 1", got)
	}
}

func TestProcess_RejectsBadSignatures(t *testing.T) {
	f := newProcessFixture(t)
	t1 := tx.NewBuilder(tx.BuyToken(f.buyer.Address(), f.admin.Address(), "x", 1)).Sign(f.buyer).Build()
	t1.Instruction.AmountToBuy = 2

	if _, err := f.p.Process(f.l, t1); !errors.Is(err, tx.ErrInvalidSig) {
		t.Fatalf("tampered err = %v, want ErrInvalidSig", err)
	}

	t2 := tx.NewBuilder(tx.BuyToken(f.buyer.Address(), f.admin.Address(), "x", 1)).Sign(f.admin).Build()
	if _, err := f.p.Process(f.l, t2); !errors.Is(err, tx.ErrMissingSignature) {
		t.Fatalf("wrong signer err = %v, want ErrMissingSignature", err)
	}
}

func TestProcess_SetActive(t *testing.T) {
	f := newProcessFixture(t)
	rc, err := f.submit(tx.InitLaunchpad(f.creator.Address(), f.admin.Address(), "toggle", 1, 0, 10), f.creator, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	mint := rc.Sale.TokenMint

	rc, err = f.submit(tx.SetActive(f.admin.Address(), mint, "toggle", false), f.admin)
	if err != nil {
		t.Fatalf("set_active: %v", err)
	}
	if rc.Sale.IsActive {
		t.Fatal("sale still active")
	}
	f.submit(tx.MintReference(f.refAuth.Address(), f.buyer.Address(), 10), f.refAuth)
	if _, err := f.submit(tx.BuyToken(f.buyer.Address(), mint, "toggle", 1), f.buyer); !errors.Is(err, ErrSaleNotActive) {
		t.Fatalf("buy err = %v, want ErrSaleNotActive", err)
	}
}

func TestFailureReason(t *testing.T) {
	tests := map[error]string{
		ErrSaleNotFound:                "not_found",
		ErrSaleNotActive:               "inactive",
		ErrInsufficientTokens:          "insufficient",
		ErrMathOverflow:                "overflow",
		ErrMintMismatch:                "mint_mismatch",
		ledger.ErrUnauthorized:         "unauthorized",
		ledger.ErrDuplicateTransaction: "duplicate",
		ErrInvalidAmount:               "invalid",
		errors.New("something else"):   "other",
	}
	for err, want := range tests {
		if got := FailureReason(err); got != want {
			t.Errorf("FailureReason(%v) = %q, want %q", err, got, want)
		}
	}
}
