package digest_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	const exp = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

	t.Log("Given the need to hash data.")
	{
		d := digest.Hash([]byte("hello world"))
		if d.Hex() != exp {
			t.Logf("\t%s\tgot: %s", failed, d.Hex())
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould get back the right digest.", failed)
		}
		t.Logf("\t%s\tShould get back the right digest.", success)

		if d2 := digest.Hash([]byte("hello world")); d2 != d {
			t.Fatalf("\t%s\tShould get back the same digest twice.", failed)
		}
		t.Logf("\t%s\tShould get back the same digest twice.", success)

		if d.Hex0x() != "0x"+exp {
			t.Fatalf("\t%s\tShould get back the 0x display form: %s", failed, d.Hex0x())
		}
		t.Logf("\t%s\tShould get back the 0x display form.", success)
	}
}

func Test_HexRoundTrip(t *testing.T) {
	tt := []digest.Digest{
		{},
		digest.Hash([]byte("a")),
		{0x00, 0x00, 0x01},
	}

	t.Log("Given the need to convert digests to and from hex.")
	{
		for testID, d := range tt {
			s := d.Hex()
			if len(s) != 64 {
				t.Fatalf("\t%s\tTest %d:\tShould get 64 characters, got %d.", failed, testID, len(s))
			}
			if s != strings.ToLower(s) {
				t.Fatalf("\t%s\tTest %d:\tShould get lowercase hex: %s", failed, testID, s)
			}

			got, err := digest.FromHex(s)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to decode the hex: %v", failed, testID, err)
			}
			if got != d {
				t.Fatalf("\t%s\tTest %d:\tShould get back the same digest.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould round trip the digest.", success, testID)
		}
	}
}

func Test_FromHexErrors(t *testing.T) {
	type table struct {
		name string
		hex  string
		err  error
	}

	tt := []table{
		{name: "nothex", hex: strings.Repeat("zz", 32), err: digest.ErrInvalidHex},
		{name: "oddlength", hex: strings.Repeat("a", 63), err: digest.ErrInvalidHex},
		{name: "short", hex: strings.Repeat("ab", 31), err: digest.ErrInvalidLength},
		{name: "long", hex: strings.Repeat("ab", 33), err: digest.ErrInvalidLength},
		{name: "empty", hex: "", err: digest.ErrInvalidLength},
		{name: "prefixed", hex: "0x" + strings.Repeat("ab", 32), err: digest.ErrInvalidHex},
	}

	t.Log("Given the need to reject malformed hex.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				_, err := digest.FromHex(tst.hex)
				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould get error %v, got %v.", failed, testID, tst.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get error %v.", success, testID, tst.err)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Ordering(t *testing.T) {
	a := digest.Digest{0x01}
	b := digest.Digest{0x02}

	t.Log("Given the need to order digests.")
	{
		if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
			t.Fatalf("\t%s\tShould order digests byte by byte.", failed)
		}
		t.Logf("\t%s\tShould order digests byte by byte.", success)

		m := map[digest.Digest]int{a: 1}
		if m[digest.Digest{0x01}] != 1 {
			t.Fatalf("\t%s\tShould be able to use a digest as a map key.", failed)
		}
		t.Logf("\t%s\tShould be able to use a digest as a map key.", success)

		if !(digest.Digest{}).IsZero() || a.IsZero() {
			t.Fatalf("\t%s\tShould detect the zero digest.", failed)
		}
		t.Logf("\t%s\tShould detect the zero digest.", success)
	}
}

func Test_JSON(t *testing.T) {
	type record struct {
		Hash digest.Digest `json:"hash"`
	}

	t.Log("Given the need to embed digests in JSON.")
	{
		r := record{Hash: digest.Hash([]byte("hello world"))}

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal: %v", failed, err)
		}

		exp := `{"hash":"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"}`
		if string(data) != exp {
			t.Logf("\t%s\tgot: %s", failed, data)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould marshal as 64 hex characters.", failed)
		}
		t.Logf("\t%s\tShould marshal as 64 hex characters.", success)

		var got record
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal: %v", failed, err)
		}
		if got != r {
			t.Fatalf("\t%s\tShould get back the same record.", failed)
		}
		t.Logf("\t%s\tShould get back the same record.", success)

		if err := json.Unmarshal([]byte(`{"hash":"abcd"}`), &got); !errors.Is(err, digest.ErrInvalidLength) {
			t.Fatalf("\t%s\tShould reject a short digest, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a short digest.", success)
	}
}
