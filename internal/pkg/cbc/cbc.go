// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package cbc implements AES-256 in CBC mode without padding.
//
// Inputs must already be a whole number of blocks. Nothing here authenticates
// the ciphertext: a modified ciphertext decrypts to different bytes without
// any error. Use package authenc when integrity is needed.
package cbc

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32

	// BlockSize is the AES block size, which is also the IV size.
	BlockSize = aes.BlockSize
)

// IV is a CBC initialization vector. A fresh random IV is used for every
// encryption.
type IV [BlockSize]byte

// ErrBlockSize is returned when an input is not a whole number of blocks.
var ErrBlockSize = errors.New("cbc: input not a multiple of the block size")

func newCipher(key *[KeySize]byte) cipher.Block {
	ciph, err := aes.NewCipher(key[:])
	if err != nil {
		panic("aes.NewCipher failed")
	}
	return ciph
}

func checkLen(n int) error {
	if n%BlockSize != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrBlockSize, n)
	}
	return nil
}

// Encrypt encrypts plaintext under key with an IV read from randr. The IV is
// returned together with the ciphertext, which has the same length as the
// plaintext.
func Encrypt(randr io.Reader, key *[KeySize]byte, plaintext []byte) (IV, []byte, error) {
	var iv IV
	if err := checkLen(len(plaintext)); err != nil {
		return iv, nil, err
	}
	if _, err := io.ReadFull(randr, iv[:]); err != nil {
		return iv, nil, err
	}
	ciphertext, err := EncryptWithIV(key, iv, plaintext)
	return iv, ciphertext, err
}

// EncryptWithIV encrypts plaintext under key and the given iv.
func EncryptWithIV(key *[KeySize]byte, iv IV, plaintext []byte) ([]byte, error) {
	if err := checkLen(len(plaintext)); err != nil {
		return nil, err
	}
	enc := cipher.NewCBCEncrypter(newCipher(key), iv[:])
	ciphertext := make([]byte, len(plaintext))
	enc.CryptBlocks(ciphertext, plaintext)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext under key and iv.
func Decrypt(key *[KeySize]byte, iv IV, ciphertext []byte) ([]byte, error) {
	if err := checkLen(len(ciphertext)); err != nil {
		return nil, err
	}
	dec := cipher.NewCBCDecrypter(newCipher(key), iv[:])
	plaintext := make([]byte, len(ciphertext))
	dec.CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}
