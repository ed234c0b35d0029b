// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"errors"
	"math/big"
	"testing"

	"github.com/go-test/deep"
)

func exchange(t *testing.T, pwA, pwB string) (SessionKey, SessionKey) {
	t.Helper()
	a, err := NewKeyExchange([]byte(pwA))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewKeyExchange([]byte(pwB))
	if err != nil {
		t.Fatal(err)
	}
	keyA, err := a.SharedKey(b.PublicValue())
	if err != nil {
		t.Fatal(err)
	}
	keyB, err := b.SharedKey(a.PublicValue())
	if err != nil {
		t.Fatal(err)
	}
	return keyA, keyB
}

func TestKeyExchangeSymmetry(t *testing.T) {
	for i := 0; i < 5; i++ {
		keyA, keyB := exchange(t, "correct horse", "correct horse")
		if diff := deep.Equal(keyA, keyB); diff != nil {
			t.Fatalf("diff: %v", diff)
		}
		if keyA == (SessionKey{}) {
			t.Fatalf("zero key")
		}
	}
}

func TestKeyExchangePasswordSensitivity(t *testing.T) {
	for _, tst := range []struct {
		a, b string
	}{
		{"correct horse", "wrong horse"},
		{"password", "passwore"},
		{"x", "xx"},
		{"", "a"},
	} {
		keyA, keyB := exchange(t, tst.a, tst.b)
		if keyA == keyB {
			t.Fatalf("%q and %q produced the same key", tst.a, tst.b)
		}
	}
}

func TestKeyExchangeFresh(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		kx, err := NewKeyExchange([]byte("password"))
		if err != nil {
			t.Fatal(err)
		}
		pub := kx.PublicValue().String()
		if seen[pub] {
			t.Fatalf("Already seen public value %v", pub)
		}
		seen[pub] = true
	}
}

func TestSharedKeyRejectsDegenerateValues(t *testing.T) {
	kx, err := NewKeyExchange([]byte("password"))
	if err != nil {
		t.Fatal(err)
	}
	p := Modulus()
	for _, x := range []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).Sub(p, big.NewInt(1)),
		p,
		new(big.Int).Add(p, big.NewInt(2)),
	} {
		_, err := kx.SharedKey(x)
		if !errors.Is(err, ErrInvalidPublicValue) || !errors.Is(err, ErrDecode) {
			t.Fatalf("SharedKey(%v): got %v", x, err)
		}
	}
}

func TestKeyExchangeWipe(t *testing.T) {
	a, err := NewKeyExchange([]byte("password"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewKeyExchange([]byte("password"))
	if err != nil {
		t.Fatal(err)
	}
	a.Wipe()
	if _, err := a.SharedKey(b.PublicValue()); !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
}

func TestPublicValueEncoding(t *testing.T) {
	for _, tst := range []struct {
		x       *big.Int
		encoded string
	}{
		// No zero padding: 1 is a single byte.
		{big.NewInt(1), "AQ=="},
		{big.NewInt(0x1234), "EjQ="},
		// H("correct horse")^1 is the hash itself.
		{HashPassword([]byte("correct horse")), "QQTTb42iwlQ0n4WDZ5Pr4CngyVcGOjTJHC6SAxh7VjE="},
	} {
		if got := EncodePublicValue(tst.x); got != tst.encoded {
			t.Errorf("EncodePublicValue(%v) = %s", tst.x, got)
		}
		x, err := DecodePublicValue(tst.encoded)
		if err != nil {
			t.Fatal(err)
		}
		if x.Cmp(tst.x) != 0 {
			t.Errorf("DecodePublicValue(%s) = %v", tst.encoded, x)
		}
	}

	for _, bad := range []string{"", "not base64!", "AQ="} {
		if _, err := DecodePublicValue(bad); !errors.Is(err, ErrDecode) {
			t.Errorf("DecodePublicValue(%q): got %v", bad, err)
		}
	}
}

func TestModulusIsCopy(t *testing.T) {
	p := Modulus()
	p.SetInt64(3)
	if Modulus().Cmp(big.NewInt(3)) == 0 {
		t.Fatalf("Modulus returned the shared value")
	}
}
