// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.
//
// This file contains the modular arithmetic of password-based Diffie-Hellman
// over a fixed prime modulus. There is no public generator: the base of every
// exponentiation is derived from the password.

package dh

import (
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"io"
	"math/big"
)

// KeySize is the size in bytes of a key returned by SharedKey.
const KeySize = sha256.Size

func hasher() hash.Hash {
	return sha256.New()
}

// Group represents the multiplicative group modulo P.
type Group struct {
	// Group modulus.
	P *big.Int
}

// Modulus returns a copy of the group modulus.
func (g Group) Modulus() *big.Int {
	return new(big.Int).Set(g.P)
}

// Speke is the group shared by both peers. Both sides must use exactly this
// modulus; a mismatch is not detected by the protocol, it only makes the
// derived keys differ.
var Speke Group

const spekeModulus = "CE369E8F9F2B0F43C0E837CCEC78439B97FF11D2E8DD3DDC57836F8DE11DF848D1CF99615C23BAA3BCF87D9D5DDDE981CFA885647780FEFA21CB07265561AF679BA170E9547E125ECC7B340DCAC3D9F6BF38AF243B01125D1CB0ADCDD80024A235CF25B8ABD5DAEC18AE0E063673DAE2DBFB416AF60E1233320490E1218DA5AD16C91527076E36A7DA9623715428F80010BB9F30477BFCC89F3183D343184A18E938CAB6EF364BE069FA7BE251AA267C6BFE62F247AC1A72BE7830EDB769E195E3CD6BB13DD684FE10DD9C042A465ADF46E0C5EF6458D0304DEE3437B940C904B235DB669A4013198A8184AE7F060F903EAFAB3150E24C011CBE57FAD7BAA1B62DEFB53B2DF0F51019DC339D2D25AA00F904E1AA17E1005B"

func init() {
	p, ok := new(big.Int).SetString(spekeModulus, 16)
	if !ok {
		panic("big.Int SetString failed")
	}
	Speke = Group{P: p}
}

// HashToGroup maps a password to the base element used for exponentiation.
// The result is SHA-256(password) read as a big-endian integer.
func HashToGroup(password []byte) *big.Int {
	h := hasher()
	h.Write(password)
	return new(big.Int).SetBytes(h.Sum(nil))
}

// IsValidPublicValue returns true if 1 < x < p-1. The excluded values force
// the shared secret to one of {0, 1, p-1} regardless of the private exponent.
func IsValidPublicValue(x *big.Int, p *big.Int) bool {
	if x.Cmp(big.NewInt(1)) != 1 {
		return false
	}
	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	return x.Cmp(pMinusOne) == -1
}

// GeneratePrivateKey draws an exponent uniformly from [0, p) using randr,
// which must be a cryptographically secure source.
func GeneratePrivateKey(randr io.Reader, g Group) (*big.Int, error) {
	return rand.Int(randr, g.P)
}

// PublicValue computes base^privKey mod p.
func PublicValue(g Group, base, privKey *big.Int) *big.Int {
	ret := new(big.Int)
	return ret.Exp(base, privKey, g.P)
}

// SharedKey computes otherPub^privKey mod p and hashes its big-endian bytes
// with SHA-256.
func SharedKey(g Group, privKey *big.Int, otherPub *big.Int) [KeySize]byte {
	s := new(big.Int)
	s.Exp(otherPub, privKey, g.P)
	var key [KeySize]byte
	h := hasher()
	h.Write(s.Bytes())
	copy(key[:], h.Sum(nil))
	Wipe(s)
	return key
}

// Wipe overwrites the words backing x and sets it to zero. It is used on
// private exponents and raw shared secrets once they are no longer needed.
func Wipe(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}
