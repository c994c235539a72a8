package launchpad

import (
	"errors"
	"testing"

	"github.com/nexwallet/launchpad/pkg/types"
)

func sampleState() *SaleState {
	return &SaleState{
		Creator:          types.Address{1},
		Admin:            types.Address{2},
		SaleName:         "story-sale",
		TokenMint:        types.Address{3},
		TokenPrice:       2,
		TotalRaised:      200,
		IsActive:         true,
		TokenStoryID:     77,
		Bump:             254,
		TokenBump:        253,
		TokenVaultBump:   252,
		PaymentVaultBump: 255,
	}
}

func TestSaleState_BinaryRoundtrip(t *testing.T) {
	s := sampleState()
	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != RecordSize(len(s.SaleName)) {
		t.Fatalf("encoded %d bytes, RecordSize = %d", len(data), RecordSize(len(s.SaleName)))
	}
	var got SaleState
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != *s {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", got, *s)
	}
}

func TestSaleState_Layout(t *testing.T) {
	s := sampleState()
	data, _ := s.MarshalBinary()

	if [8]byte(data[:8]) != SaleDiscriminator {
		t.Fatal("discriminator not first")
	}
	// name_len sits after disc + creator + admin.
	if data[72] != byte(len(s.SaleName)) {
		t.Fatalf("name_len = %d, want %d", data[72], len(s.SaleName))
	}
	// The four bumps close the record.
	tail := data[len(data)-4:]
	if tail[0] != 254 || tail[1] != 253 || tail[2] != 252 || tail[3] != 255 {
		t.Fatalf("bump tail = %v", tail)
	}
	if RecordSize(0) != 137 {
		t.Fatalf("RecordSize(0) = %d, want 137", RecordSize(0))
	}
}

func TestSaleState_UnmarshalErrors(t *testing.T) {
	good, _ := sampleState().MarshalBinary()

	badDisc := append([]byte(nil), good...)
	badDisc[0] ^= 0xFF

	badActive := append([]byte(nil), good...)
	// active flag follows disc, roles, name, mint, price and raised.
	badActive[8+32+32+4+len("story-sale")+32+8+8] = 7

	longName := append([]byte(nil), good...)
	longName[72] = 33

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"discriminator", badDisc},
		{"truncated", good[:len(good)-1]},
		{"trailing", append(append([]byte(nil), good...), 0)},
		{"active flag", badActive},
		{"name too long", longName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SaleState
			if err := s.UnmarshalBinary(tt.data); !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("err = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestSaleState_MarshalLongName(t *testing.T) {
	s := sampleState()
	s.SaleName = "this-name-is-definitely-longer-than-32"
	if _, err := s.MarshalBinary(); !errors.Is(err, ErrInvalidSaleName) {
		t.Fatalf("err = %v, want ErrInvalidSaleName", err)
	}
}
