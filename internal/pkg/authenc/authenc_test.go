// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package authenc

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestPadding(t *testing.T) {
	bs := 16
	for _, tst := range []struct {
		in, expected []byte
	}{
		{[]byte{}, bytes.Repeat([]byte{16}, 16)},
		{[]byte{7}, append([]byte{7}, bytes.Repeat([]byte{15}, 15)...)},
		{bytes.Repeat([]byte{7}, 16), append(bytes.Repeat([]byte{7}, 16), bytes.Repeat([]byte{16}, 16)...)},
		{bytes.Repeat([]byte{7}, 18), append(bytes.Repeat([]byte{7}, 18), bytes.Repeat([]byte{14}, 14)...)},
	} {
		padded := addPadding(bs, tst.in)
		if !bytes.Equal(padded, tst.expected) {
			t.Errorf("Got %v", padded)
		}

		orig, err := removePadding(bs, padded)
		if err != nil {
			t.Fatalf("removePadding failed: %v", err)
		}
		if !bytes.Equal(orig, tst.in) {
			t.Errorf("Failed to remove padding, got %v", orig)
		}
	}

	for _, bad := range [][]byte{
		{},
		make([]byte, 16),
		append(make([]byte, 15), 17),
		make([]byte, 15),
	} {
		if _, err := removePadding(bs, bad); err == nil {
			t.Errorf("removePadding(%v) succeeded", bad)
		}
	}
}

func TestAuthEncDec(t *testing.T) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatal(err)
	}
	info := []byte("initiator")
	for _, plaintext := range [][]byte{{}, {1, 2, 3}, bytes.Repeat([]byte{9}, 16), bytes.Repeat([]byte{9}, 100)} {
		dsts := map[string]bool{}
		for i := 0; i < 10; i++ {
			dst, err := AuthEnc(rand.Reader, &key, info, plaintext)
			if err != nil {
				t.Fatalf("AuthEnc failed: %v", err)
			}
			if dsts[string(dst)] {
				t.Errorf("Got same dst twice, %v", dst)
			}
			dsts[string(dst)] = true

			actual, err := AuthDec(&key, info, dst)
			if err != nil {
				t.Fatalf("AuthDec failed: %v", err)
			}
			if !bytes.Equal(plaintext, actual) {
				t.Errorf("Failed to decrypt, got %v", actual)
			}

			wrongKey := key
			wrongKey[0] ^= 1
			if _, err = AuthDec(&wrongKey, info, dst); err != AuthtagMismatch {
				t.Errorf("AuthDec didn't fail when wrong key was used")
			}

			if _, err = AuthDec(&key, []byte("responder"), dst); err != AuthtagMismatch {
				t.Errorf("AuthDec didn't fail when wrong info was used")
			}

			wrongAuthTag := append([]byte{}, dst...)
			wrongAuthTag[len(wrongAuthTag)-1] ^= 1
			if _, err = AuthDec(&key, info, wrongAuthTag); err != AuthtagMismatch {
				t.Errorf("AuthDec didn't fail when wrong auth tag was used")
			}

			wrongCiphertext := append([]byte{}, dst...)
			wrongCiphertext[20] ^= 1
			if _, err = AuthDec(&key, info, wrongCiphertext); err != AuthtagMismatch {
				t.Errorf("AuthDec didn't fail when ciphertext was modified")
			}
		}
	}
}

func TestAuthDecShortInput(t *testing.T) {
	var key [KeySize]byte
	for _, n := range []int{0, 16, 47, 63, 65} {
		if _, err := AuthDec(&key, nil, make([]byte, n)); err == nil {
			t.Errorf("AuthDec accepted %d bytes", n)
		}
	}
}
