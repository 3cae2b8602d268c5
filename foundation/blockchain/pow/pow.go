// Package pow converts a required number of leading zero bits into the
// numeric ceiling a block hash must not exceed to be valid proof of work.
package pow

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
)

// MaxZeroBits is the largest number of leading zero bits a target can require.
const MaxZeroBits = digest.Size * 8

// ErrTargetOutOfRange is returned when more zero bits are requested than a
// digest holds.
var ErrTargetOutOfRange = errors.New("target out of range")

// =============================================================================

// Target represents a 256 bit big endian number. A hash meets the target when
// its value interpreted the same way is less than or equal to it.
type Target [digest.Size]byte

// NewTarget constructs the target for the specified number of leading zero
// bits. The first zeroBits/8 bytes are zero, a partial byte keeps the low
// 8-(zeroBits%8) bits set and every remaining byte is 0xff.
func NewTarget(zeroBits uint) (Target, error) {
	if zeroBits > MaxZeroBits {
		return Target{}, fmt.Errorf("%w: %d zero bits requested, max %d", ErrTargetOutOfRange, zeroBits, MaxZeroBits)
	}

	var t Target
	for i := range t {
		t[i] = 0xff
	}

	full := zeroBits / 8
	for i := uint(0); i < full; i++ {
		t[i] = 0
	}

	if rem := zeroBits % 8; rem != 0 {
		t[full] = byte(1<<(8-rem)) - 1
	}

	return t, nil
}

// IsMet reports whether the hash is less than or equal to the target
// comparing from the most significant byte.
func (t Target) IsMet(hash digest.Digest) bool {
	return bytes.Compare(hash[:], t[:]) <= 0
}

// Big returns the target as an unsigned big integer.
func (t Target) Big() *big.Int {
	return new(big.Int).SetBytes(t[:])
}

// Hex0x returns the target with a 0x prefix for display.
func (t Target) Hex0x() string {
	return hexutil.Encode(t[:])
}

// String implements the fmt.Stringer interface.
func (t Target) String() string {
	return hex.EncodeToString(t[:])
}

// =============================================================================

// LeadingZeroBits counts the number of zero bits at the front of the hash.
func LeadingZeroBits(hash digest.Digest) uint {
	var n uint
	for _, b := range hash {
		if b != 0 {
			return n + uint(bits.LeadingZeros8(b))
		}
		n += 8
	}

	return n
}

// IsSolved reports whether the hash meets the target for the specified number
// of leading zero bits.
func IsSolved(zeroBits uint, hash digest.Digest) (bool, error) {
	t, err := NewTarget(zeroBits)
	if err != nil {
		return false, err
	}

	return t.IsMet(hash), nil
}
