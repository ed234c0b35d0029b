// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"math/big"

	"github.com/marcinwilkdev/speke/internal/pkg/dh"
	"github.com/marcinwilkdev/speke/internal/pkg/memzero"
)

var randr = rand.Reader

const (
	// KeySize is the size of a SessionKey in bytes.
	KeySize = dh.KeySize

	// NonceSize is the size of the confirmation nonces in bytes.
	NonceSize = 16
)

// SessionKey is the key both peers derive from the key exchange.
type SessionKey [KeySize]byte

// Encode returns the key as standard base64.
func (k *SessionKey) Encode() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// Wipe clears the key.
func (k *SessionKey) Wipe() {
	memzero.Zero(k[:])
}

// Nonce is a random challenge used once during key confirmation.
type Nonce [NonceSize]byte

func newNonce(r io.Reader) (Nonce, error) {
	var n Nonce
	_, err := io.ReadFull(r, n[:])
	return n, err
}

// Modulus returns a copy of the fixed public modulus shared by both peers.
func Modulus() *big.Int {
	return dh.Speke.Modulus()
}

// HashPassword maps a password to the base element of the exponentiation.
func HashPassword(password []byte) *big.Int {
	return dh.HashToGroup(password)
}
