// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestMessageSizes(t *testing.T) {
	var e1 E1
	var e2 E2
	var e3 E3
	rand.Read(e1.IV[:])
	rand.Read(e2.Ciphertext[:])
	rand.Read(e3.Ciphertext[:])

	for _, tst := range []struct {
		token string
		size  int
	}{
		{e1.Encode(), 32},
		{e2.Encode(), 48},
		{e3.Encode(), 32},
	} {
		raw, err := base64.StdEncoding.DecodeString(tst.token)
		if err != nil {
			t.Fatal(err)
		}
		if len(raw) != tst.size {
			t.Fatalf("got %d raw bytes, expected %d", len(raw), tst.size)
		}
	}

	d1, err := DecodeE1(e1.Encode())
	if err != nil {
		t.Fatal(err)
	}
	d2, err := DecodeE2(e2.Encode())
	if err != nil {
		t.Fatal(err)
	}
	d3, err := DecodeE3(e3.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal([]interface{}{d1, d2, d3}, []interface{}{e1, e2, e3}); diff != nil {
		t.Fatalf("diff: %v", diff)
	}
}

// Every length other than the exact message size is rejected.
func TestDecodeRejectsWrongLength(t *testing.T) {
	decoders := []struct {
		name   string
		size   int
		decode func(string) error
	}{
		{"E1", E1Size, func(s string) error { _, err := DecodeE1(s); return err }},
		{"E2", E2Size, func(s string) error { _, err := DecodeE2(s); return err }},
		{"E3", E3Size, func(s string) error { _, err := DecodeE3(s); return err }},
	}
	for _, d := range decoders {
		for n := 0; n <= 64; n++ {
			token := base64.StdEncoding.EncodeToString(make([]byte, n))
			err := d.decode(token)
			if n == d.size {
				if err != nil {
					t.Errorf("%s: %d bytes rejected: %v", d.name, n, err)
				}
				continue
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("%s: %d bytes: expected ErrDecode, got %v", d.name, n, err)
			}
		}
		if err := d.decode("%%%"); !errors.Is(err, ErrDecode) {
			t.Errorf("%s: invalid base64: expected ErrDecode, got %v", d.name, err)
		}
	}
}
