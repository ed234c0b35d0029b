// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/marcinwilkdev/speke/internal/pkg/dh"
)

// KeyExchange holds one peer's state for the password-based Diffie-Hellman
// exchange. It must not be reused across sessions.
type KeyExchange struct {
	// Private exponent, in [0, p).
	x *big.Int

	pub *big.Int
}

// NewKeyExchange starts a session: it draws a fresh private exponent and
// computes H(password)^x mod p.
func NewKeyExchange(password []byte) (*KeyExchange, error) {
	x, err := dh.GeneratePrivateKey(randr, dh.Speke)
	if err != nil {
		return nil, err
	}
	base := dh.HashToGroup(password)
	pub := dh.PublicValue(dh.Speke, base, x)
	dh.Wipe(base)
	return &KeyExchange{x: x, pub: pub}, nil
}

// PublicValue returns the value to send to the peer.
func (kx *KeyExchange) PublicValue() *big.Int {
	return new(big.Int).Set(kx.pub)
}

// SharedKey derives the session key from the peer's public value. Both
// peers derive the same key if and only if they used the same password.
func (kx *KeyExchange) SharedKey(peer *big.Int) (SessionKey, error) {
	if kx.x == nil {
		return SessionKey{}, fmt.Errorf("%w: key exchange already wiped", ErrState)
	}
	if !dh.IsValidPublicValue(peer, dh.Speke.P) {
		return SessionKey{}, ErrInvalidPublicValue
	}
	return SessionKey(dh.SharedKey(dh.Speke, kx.x, peer)), nil
}

// Wipe clears the private exponent.
func (kx *KeyExchange) Wipe() {
	dh.Wipe(kx.x)
	kx.x = nil
}

// EncodePublicValue encodes x as base64 of its minimal big-endian bytes.
// Leading zero bytes are not added.
func EncodePublicValue(x *big.Int) string {
	return base64.StdEncoding.EncodeToString(x.Bytes())
}

// DecodePublicValue parses a token produced by EncodePublicValue.
func DecodePublicValue(token string) (*big.Int, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: public value: %v", ErrDecode, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: public value is empty", ErrDecode)
	}
	return new(big.Int).SetBytes(b), nil
}
