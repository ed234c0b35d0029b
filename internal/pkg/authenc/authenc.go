// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package authenc protects application messages sent after a successful
// key confirmation.
package authenc

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/marcinwilkdev/speke/internal/pkg/cbc"
	"github.com/marcinwilkdev/speke/internal/pkg/memzero"
)

// KeySize is the size of the input key.
const KeySize = 32

func hasher() hash.Hash {
	return sha256.New()
}

// AuthtagMismatch is returned by AuthDec if authentication of the ciphertext
// failed.
var AuthtagMismatch = errors.New("authtag mismatch")

var errPadding = errors.New("authenc: invalid padding")

// subkeys expands key into an AES-256 key and an HMAC-SHA256 key. info binds
// the subkeys to a purpose, e.g. a direction of traffic.
func subkeys(key *[KeySize]byte, info []byte) (cbcKey *[cbc.KeySize]byte, hmacKey []byte, err error) {
	kdfr := hkdf.New(hasher, key[:], nil, info)
	cbcKey = new([cbc.KeySize]byte)
	hmacKey = make([]byte, hasher().Size())
	if _, err = io.ReadFull(kdfr, cbcKey[:]); err != nil {
		return nil, nil, err
	}
	if _, err = io.ReadFull(kdfr, hmacKey); err != nil {
		return nil, nil, err
	}
	return cbcKey, hmacKey, nil
}

// AuthEnc performs authenticated encryption of plaintext. AES-256 is used in
// CBC mode with HMAC-SHA256 in encrypt-then-authenticate mode. The output is
// IV || ciphertext || auth-tag, where "||" is concatenation of byte slices.
//
// See also AuthDec.
func AuthEnc(randr io.Reader, key *[KeySize]byte, info, plaintext []byte) ([]byte, error) {
	cbcKey, hmacKey, err := subkeys(key, info)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(cbcKey[:])
	defer memzero.Zero(hmacKey)

	iv, ciphertext, err := cbc.Encrypt(randr, cbcKey, addPadding(cbc.BlockSize, plaintext))
	if err != nil {
		return nil, err
	}
	res := make([]byte, 0, len(iv)+len(ciphertext)+hasher().Size())
	res = append(res, iv[:]...)
	res = append(res, ciphertext...)

	mac := hmac.New(hasher, hmacKey)
	mac.Write(res)
	return mac.Sum(res), nil
}

// AuthDec performs authenticated decryption of input. key and info must be
// the values given to AuthEnc.
func AuthDec(key *[KeySize]byte, info, input []byte) ([]byte, error) {
	tagSize := hasher().Size()
	if len(input) < 2*cbc.BlockSize+tagSize {
		return nil, fmt.Errorf("authenc: input too short")
	}
	if (len(input)-tagSize)%cbc.BlockSize != 0 {
		return nil, fmt.Errorf("authenc: invalid input length")
	}
	cbcKey, hmacKey, err := subkeys(key, info)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(cbcKey[:])
	defer memzero.Zero(hmacKey)

	body := input[:len(input)-tagSize]
	authtag := input[len(input)-tagSize:]
	mac := hmac.New(hasher, hmacKey)
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), authtag) {
		return nil, AuthtagMismatch
	}

	var iv cbc.IV
	copy(iv[:], body[:cbc.BlockSize])
	plaintext, err := cbc.Decrypt(cbcKey, iv, body[cbc.BlockSize:])
	if err != nil {
		return nil, err
	}
	return removePadding(cbc.BlockSize, plaintext)
}

// addPadding pads "input" using the padding algorithm from
// https://tools.ietf.org/html/rfc5652#section-6.3
func addPadding(blockSize int, input []byte) []byte {
	out := make([]byte, blockSize*(len(input)/blockSize+1))
	copy(out, input)
	b := byte(blockSize - len(input)%blockSize)
	for i := len(input); i < len(out); i++ {
		out[i] = b
	}
	return out
}

// removePadding removes the padding from "input". See also addPadding.
func removePadding(blockSize int, input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%blockSize != 0 {
		return nil, errPadding
	}
	b := int(input[len(input)-1])
	if b == 0 || b > blockSize {
		return nil, errPadding
	}
	return input[:len(input)-b], nil
}
