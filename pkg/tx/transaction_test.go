package tx

import (
	"encoding/json"
	"testing"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

func mustKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	k, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return k
}

func TestTransaction_Hash_Deterministic(t *testing.T) {
	tx := NewBuilder(BuyToken(types.Address{1}, types.Address{2}, "demo", 10)).Build()
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Error("Hash() should be deterministic")
	}
	if h1.IsZero() {
		t.Error("Hash() should not be zero")
	}
}

func TestTransaction_Hash_ChangesWithContent(t *testing.T) {
	base := BuyToken(types.Address{1}, types.Address{2}, "demo", 10)
	h := NewBuilder(base).Build().Hash()

	variants := map[string]func(*Instruction){
		"amount": func(in *Instruction) { in.AmountToBuy = 11 },
		"name":   func(in *Instruction) { in.SaleName = "demo2" },
		"mint":   func(in *Instruction) { in.Mint = types.Address{3} },
		"buyer":  func(in *Instruction) { in.Buyer = types.Address{4} },
		"kind":   func(in *Instruction) { in.Kind = KindSetActive },
		"active": func(in *Instruction) { in.Active = true },
	}
	for name, mutate := range variants {
		in := base
		mutate(&in)
		if NewBuilder(in).Build().Hash() == h {
			t.Errorf("changing %s did not change the hash", name)
		}
	}

	other := NewBuilder(base).SetNonce(7).Build()
	if other.Hash() == h {
		t.Error("nonce does not affect the hash")
	}
}

func TestTransaction_Hash_NameBoundary(t *testing.T) {
	// Length prefixes keep "ab"+"c" distinct from "a"+"bc".
	a := NewBuilder(Instruction{Kind: Kind("ab"), SaleName: "c"}).Build()
	b := NewBuilder(Instruction{Kind: Kind("a"), SaleName: "bc"}).Build()
	if a.Hash() == b.Hash() {
		t.Fatal("field boundaries not encoded")
	}
}

func TestTransaction_Hash_IgnoresSignatures(t *testing.T) {
	key := mustKey(t)
	b := NewBuilder(BuyToken(key.Address(), types.Address{2}, "demo", 10))
	before := b.Build().Hash()
	b.Sign(key)
	if b.Build().Hash() != before {
		t.Fatal("signing changed the hash")
	}
}

func TestBuilder_SignAndVerify(t *testing.T) {
	creator := mustKey(t)
	admin := mustKey(t)

	tx := NewBuilder(InitLaunchpad(creator.Address(), admin.Address(), "demo", 2, 0, 1000)).
		SetNonce(1).
		Sign(creator, admin).
		Build()

	if err := tx.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	signers, err := tx.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(signers) != 2 || signers[0] != creator.Address() || signers[1] != admin.Address() {
		t.Fatalf("signers = %v", signers)
	}
}

func TestBuilder_SetNonceDropsSignatures(t *testing.T) {
	key := mustKey(t)
	b := NewBuilder(BuyToken(key.Address(), types.Address{2}, "demo", 1)).Sign(key)
	b.SetNonce(5)
	if len(b.Build().Signatures) != 0 {
		t.Fatal("stale signatures kept after nonce change")
	}
}

func TestTransaction_JSONRoundtrip(t *testing.T) {
	key := mustKey(t)
	tx := NewBuilder(BuyToken(key.Address(), types.Address{9}, "demo", 42)).
		SetNonce(99).
		Sign(key).
		Build()

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Hash() != tx.Hash() {
		t.Fatal("hash changed across JSON roundtrip")
	}
	if _, err := got.Verify(); err != nil {
		t.Fatalf("Verify after roundtrip: %v", err)
	}
}

func TestSignature_UnmarshalBadHex(t *testing.T) {
	var s Signature
	err := json.Unmarshal([]byte(`{"pubkey":"11111111111111111111111111111111","signature":"zz"}`), &s)
	if err == nil {
		t.Fatal("expected error for non-hex signature")
	}
}

func TestRequiredSigners(t *testing.T) {
	a, b := types.Address{1}, types.Address{2}
	tests := []struct {
		in   Instruction
		want int
	}{
		{InitLaunchpad(a, b, "x", 1, 0, 1), 2},
		{InitLaunchpad(a, a, "x", 1, 0, 1), 1},
		{BuyToken(a, b, "x", 1), 1},
		{SetActive(a, b, "x", false), 1},
		{MintReference(a, b, 1), 1},
		{Instruction{Kind: "nope"}, 0},
	}
	for _, tt := range tests {
		if got := len(tt.in.RequiredSigners()); got != tt.want {
			t.Errorf("%s: %d required signers, want %d", tt.in.Kind, got, tt.want)
		}
	}
}
