package launchpad

import (
	"encoding/binary"
	"fmt"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

// SaleDiscriminator tags persisted SaleState records.
var SaleDiscriminator = crypto.Discriminator("SaleState")

// MaxSaleNameLength is the longest sale name; the name is used as a
// derivation seed.
const MaxSaleNameLength = 32

// fixedSize is the record size without the sale name.
const fixedSize = 8 + 32 + 32 + 4 + 32 + 8 + 8 + 1 + 8 + 4

// RecordSize returns the encoded size of a record whose sale name is
// nameLen bytes long.
func RecordSize(nameLen int) int {
	return fixedSize + nameLen
}

// SaleState is the durable record of one sale.
type SaleState struct {
	Creator          types.Address `json:"creator"`
	Admin            types.Address `json:"admin"`
	SaleName         string        `json:"sale_name"`
	TokenMint        types.Address `json:"token_mint"`
	TokenPrice       uint64        `json:"token_price"`
	TotalRaised      uint64        `json:"total_raised"`
	IsActive         bool          `json:"is_active"`
	TokenStoryID     uint64        `json:"token_story_id"`
	Bump             uint8         `json:"bump"`
	TokenBump        uint8         `json:"token_bump"`
	TokenVaultBump   uint8         `json:"token_vault_bump"`
	PaymentVaultBump uint8         `json:"payment_vault_bump"`
}

// MarshalBinary encodes the record:
//
//	disc(8) creator(32) admin(32) name_len(4) name mint(32) price(8)
//	raised(8) active(1) story(8) bump(1) token_bump(1) vault_bump(1)
//	payment_vault_bump(1)
//
// Integers are little-endian.
func (s *SaleState) MarshalBinary() ([]byte, error) {
	if len(s.SaleName) > MaxSaleNameLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSaleName, len(s.SaleName))
	}
	buf := make([]byte, 0, RecordSize(len(s.SaleName)))
	buf = append(buf, SaleDiscriminator[:]...)
	buf = append(buf, s.Creator[:]...)
	buf = append(buf, s.Admin[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.SaleName)))
	buf = append(buf, s.SaleName...)
	buf = append(buf, s.TokenMint[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, s.TokenPrice)
	buf = binary.LittleEndian.AppendUint64(buf, s.TotalRaised)
	if s.IsActive {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, s.TokenStoryID)
	buf = append(buf, s.Bump, s.TokenBump, s.TokenVaultBump, s.PaymentVaultBump)
	return buf, nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (s *SaleState) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	var disc [8]byte
	r.read(disc[:])
	if r.err == nil && disc != SaleDiscriminator {
		return fmt.Errorf("%w: wrong discriminator", ErrInvalidRecord)
	}

	var out SaleState
	r.read(out.Creator[:])
	r.read(out.Admin[:])
	n := r.u32()
	if r.err == nil && n > MaxSaleNameLength {
		return fmt.Errorf("%w: name length %d", ErrInvalidRecord, n)
	}
	name := make([]byte, n)
	r.read(name)
	out.SaleName = string(name)
	r.read(out.TokenMint[:])
	out.TokenPrice = r.u64()
	out.TotalRaised = r.u64()
	switch r.u8() {
	case 0:
	case 1:
		out.IsActive = true
	default:
		if r.err == nil {
			return fmt.Errorf("%w: bad active flag", ErrInvalidRecord)
		}
	}
	out.TokenStoryID = r.u64()
	out.Bump = r.u8()
	out.TokenBump = r.u8()
	out.TokenVaultBump = r.u8()
	out.PaymentVaultBump = r.u8()

	if r.err != nil {
		return r.err
	}
	if len(r.buf) != r.off {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidRecord, len(r.buf)-r.off)
	}
	*s = out
	return nil
}

// reader decodes fixed-width fields; the first short read sticks.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) read(dst []byte) {
	if r.err != nil {
		return
	}
	if len(r.buf)-r.off < len(dst) {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrInvalidRecord, r.off)
		return
	}
	copy(dst, r.buf[r.off:])
	r.off += len(dst)
}

func (r *reader) u8() uint8 {
	var b [1]byte
	r.read(b[:])
	return b[0]
}

func (r *reader) u32() uint32 {
	var b [4]byte
	r.read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (r *reader) u64() uint64 {
	var b [8]byte
	r.read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
