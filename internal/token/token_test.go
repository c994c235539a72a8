package token

import (
	"testing"

	"github.com/nexwallet/launchpad/internal/pda"
	"github.com/nexwallet/launchpad/pkg/types"
)

func TestAssociatedAddress(t *testing.T) {
	owner := types.Address{0x0A}
	mint := types.Address{0x0B}

	a1, b1, err := AssociatedAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedAddress: %v", err)
	}
	a2, b2, _ := AssociatedAddress(owner, mint)
	if a1 != a2 || b1 != b2 {
		t.Fatal("associated address not deterministic")
	}
	if pda.IsOnCurve(a1[:]) {
		t.Fatal("associated address is on curve")
	}

	other, _, _ := AssociatedAddress(owner, types.Address{0x0C})
	if other == a1 {
		t.Fatal("different mints share an associated address")
	}
	swapped, _, _ := AssociatedAddress(mint, owner)
	if swapped == a1 {
		t.Fatal("owner and mint order ignored")
	}
}

func TestProgramIDsDistinct(t *testing.T) {
	if ProgramID == AssociatedProgramID {
		t.Fatal("program IDs collide")
	}
	if ProgramID.IsZero() {
		t.Fatal("zero program ID")
	}
}
