package codec

import (
	"math/big"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"0",
		"1",
		"18446744073709551615",                                                       // 2^64-1
		"18446744073709551616",                                                       // 2^64
		"115792089237316195423570985008687907853269984665640564039457584007913129639935", // 2^256-1
	}
	for _, c := range cases {
		v, ok := new(big.Int).SetString(c, 10)
		if !ok {
			t.Fatalf("bad test literal %q", c)
		}
		limbs, err := EncodeLimbs(v)
		if err != nil {
			t.Fatalf("EncodeLimbs(%s): %v", c, err)
		}
		got, err := DecodeLimbs(limbs)
		if err != nil {
			t.Fatalf("DecodeLimbs(%s): %v", c, err)
		}
		if got.Cmp(v) != 0 {
			t.Fatalf("round trip mismatch: want %s got %s", c, got)
		}
	}
}

func TestEncodeLimbsOrdering(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 64) // 2^64: limb[1] == 1, rest 0
	limbs, err := EncodeLimbs(v)
	if err != nil {
		t.Fatalf("EncodeLimbs: %v", err)
	}
	if limbs[0] != 0 || limbs[1] != 1 || limbs[2] != 0 || limbs[3] != 0 {
		t.Fatalf("unexpected limb layout: %v", limbs)
	}
}

func TestEncodeLimbsRejectsOverflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := EncodeLimbs(tooBig); err == nil {
		t.Fatalf("expected an overflow error for 2^256")
	}
}

func TestEncodeLimbsRejectsNegative(t *testing.T) {
	if _, err := EncodeLimbs(big.NewInt(-1)); err == nil {
		t.Fatalf("expected an error for a negative value")
	}
}

func TestEncodeWord(t *testing.T) {
	w, err := EncodeWord(big.NewInt(100))
	if err != nil || w != 100 {
		t.Fatalf("EncodeWord(100) = %d, %v", w, err)
	}
	if _, err := EncodeWord(new(big.Int).Lsh(big.NewInt(1), 33)); err == nil {
		t.Fatalf("expected an error for a value exceeding 32 bits")
	}
}

func TestEncodeDecodeWordsRoundTrip(t *testing.T) {
	v, _ := new(big.Int).SetString("2156795733811448305138118958686944006956945342567680366977754542899210", 10)
	words, err := EncodeWords(v)
	if err != nil {
		t.Fatalf("EncodeWords: %v", err)
	}
	got, err := DecodeWords(words)
	if err != nil {
		t.Fatalf("DecodeWords: %v", err)
	}
	if got.Cmp(v) != 0 {
		t.Fatalf("round trip mismatch: want %s got %s", v, got)
	}
}

func TestEncodeWordsOrdering(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 32) // 2^32: words[1] == 1, rest 0
	words, err := EncodeWords(v)
	if err != nil {
		t.Fatalf("EncodeWords: %v", err)
	}
	if words[0] != 0 || words[1] != 1 {
		t.Fatalf("unexpected word layout: %v", words)
	}
}
