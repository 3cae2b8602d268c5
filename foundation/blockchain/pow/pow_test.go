package pow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_NewTarget(t *testing.T) {
	type table struct {
		zeroBits uint
		target   string
	}

	tt := []table{
		{zeroBits: 0, target: strings.Repeat("ff", 32)},
		{zeroBits: 1, target: "7f" + strings.Repeat("ff", 31)},
		{zeroBits: 8, target: "00" + strings.Repeat("ff", 31)},
		{zeroBits: 12, target: "000f" + strings.Repeat("ff", 30)},
		{zeroBits: 15, target: "0001" + strings.Repeat("ff", 30)},
		{zeroBits: 255, target: strings.Repeat("00", 31) + "01"},
		{zeroBits: 256, target: strings.Repeat("00", 32)},
	}

	t.Log("Given the need to construct difficulty targets.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen requiring %d zero bits.", testID, tst.zeroBits)
			{
				target, err := pow.NewTarget(tst.zeroBits)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to construct the target: %v", failed, testID, err)
				}

				if target.String() != tst.target {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, target)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.target)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right target.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right target.", success, testID)
			}
		}
	}
}

func Test_TargetOutOfRange(t *testing.T) {
	t.Log("Given the need to reject impossible targets.")
	{
		if _, err := pow.NewTarget(257); !errors.Is(err, pow.ErrTargetOutOfRange) {
			t.Fatalf("\t%s\tShould get ErrTargetOutOfRange, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould get ErrTargetOutOfRange.", success)
	}
}

func Test_IsMet(t *testing.T) {
	target, err := pow.NewTarget(12)
	if err != nil {
		t.Fatalf("Should be able to construct the target: %v", err)
	}

	type table struct {
		name string
		hash digest.Digest
		met  bool
	}

	equal := digest.Digest(target)
	above := equal
	above[1] = 0x10

	tt := []table{
		{name: "zero", hash: digest.Digest{}, met: true},
		{name: "equal", hash: equal, met: true},
		{name: "below", hash: digest.Digest{0x00, 0x0e, 0xff}, met: true},
		{name: "above", hash: above, met: false},
		{name: "high", hash: digest.Digest{0x01}, met: false},
	}

	t.Log("Given the need to check hashes against a target.")
	{
		for testID, tst := range tt {
			if got := target.IsMet(tst.hash); got != tst.met {
				t.Fatalf("\t%s\tTest %d:\tShould get %t for the %s hash.", failed, testID, tst.met, tst.name)
			}
			t.Logf("\t%s\tTest %d:\tShould get %t for the %s hash.", success, testID, tst.met, tst.name)

			want := pow.LeadingZeroBits(tst.hash) >= 12
			if want != tst.met {
				t.Fatalf("\t%s\tTest %d:\tShould agree with the leading zero bit count.", failed, testID)
			}
		}
	}
}

func Test_LeadingZeroBits(t *testing.T) {
	t.Log("Given the need to count leading zero bits.")
	{
		if n := pow.LeadingZeroBits(digest.Digest{}); n != 256 {
			t.Fatalf("\t%s\tShould count 256 bits for the zero digest, got %d.", failed, n)
		}
		if n := pow.LeadingZeroBits(digest.Digest{0x00, 0x0f}); n != 12 {
			t.Fatalf("\t%s\tShould count 12 bits, got %d.", failed, n)
		}
		if n := pow.LeadingZeroBits(digest.Digest{0x80}); n != 0 {
			t.Fatalf("\t%s\tShould count 0 bits, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould count leading zero bits.", success)

		target, _ := pow.NewTarget(8)
		if target.Big().BitLen() != 248 {
			t.Fatalf("\t%s\tShould get a 248 bit number, got %d.", failed, target.Big().BitLen())
		}
		t.Logf("\t%s\tShould convert the target to a big integer.", success)
	}
}
