// Package digest provides the fixed size SHA-256 value every identifier in the
// blockchain is built from, along with its canonical hex text form.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the number of bytes in a digest.
const Size = sha256.Size

// Set of errors reported when decoding the hex form of a digest.
var (
	ErrInvalidHex    = errors.New("invalid hex")
	ErrInvalidLength = errors.New("invalid digest length")
)

// =============================================================================

// Digest represents the output of the SHA-256 hash function. The array form
// makes the value comparable so it can be used directly as a map key.
type Digest [Size]byte

// Hash returns the SHA-256 digest of the specified data.
func Hash(data []byte) Digest {
	return sha256.Sum256(data)
}

// FromHex decodes the 64 character hex form of a digest. Text that is not hex
// and hex that does not decode to exactly 32 bytes are reported separately.
func FromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}

	if len(b) != Size {
		return Digest{}, fmt.Errorf("%w: expected %d bytes but got %d in %q", ErrInvalidLength, Size, len(b), s)
	}

	var d Digest
	copy(d[:], b)

	return d, nil
}

// Bytes returns a copy of the digest as a slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, d[:])
	return b
}

// Hex returns the canonical lowercase hex form of the digest. Leading zero
// bytes are preserved so the result is always 64 characters.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Hex0x returns the hex form with a 0x prefix. This is for display only and
// is never used as hashing input.
func (d Digest) Hex0x() string {
	return hexutil.Encode(d[:])
}

// IsZero reports whether every byte of the digest is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Compare orders digests lexicographically by byte.
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// String implements the fmt.Stringer interface.
func (d Digest) String() string {
	return d.Hex()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Digest) UnmarshalText(text []byte) error {
	v, err := FromHex(string(text))
	if err != nil {
		return err
	}

	*d = v
	return nil
}
