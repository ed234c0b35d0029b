// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"encoding/base64"
	"fmt"

	"github.com/marcinwilkdev/speke/internal/pkg/cbc"
)

// Raw sizes of the confirmation messages: a 16 byte IV followed by the
// ciphertext.
const (
	E1Size = cbc.BlockSize + NonceSize
	E2Size = cbc.BlockSize + 2*NonceSize
	E3Size = cbc.BlockSize + NonceSize
)

// E1 is the first confirmation message, sent by the initiator. It carries
// the initiator's nonce Ca encrypted under the session key.
type E1 struct {
	IV         cbc.IV
	Ciphertext [NonceSize]byte
}

// E2 is the responder's answer. It carries Cb || Ca encrypted under the
// session key, where Ca is the nonce recovered from E1.
type E2 struct {
	IV         cbc.IV
	Ciphertext [2 * NonceSize]byte
}

// E3 is the initiator's final message. It carries Cb encrypted under the
// session key.
type E3 struct {
	IV         cbc.IV
	Ciphertext [NonceSize]byte
}

func encode(iv cbc.IV, ciphertext []byte) string {
	raw := make([]byte, 0, len(iv)+len(ciphertext))
	raw = append(raw, iv[:]...)
	raw = append(raw, ciphertext...)
	return base64.StdEncoding.EncodeToString(raw)
}

// decode parses a token into an IV and a ciphertext filling out. Any length
// other than len(iv)+len(out) is rejected.
func decode(name, token string, iv *cbc.IV, out []byte) error {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	if want := len(iv) + len(out); len(raw) != want {
		return fmt.Errorf("%w: %s has %d bytes, expected %d", ErrDecode, name, len(raw), want)
	}
	copy(iv[:], raw)
	copy(out, raw[len(iv):])
	return nil
}

// Encode returns base64(IV || ciphertext).
func (m *E1) Encode() string { return encode(m.IV, m.Ciphertext[:]) }

// Encode returns base64(IV || ciphertext).
func (m *E2) Encode() string { return encode(m.IV, m.Ciphertext[:]) }

// Encode returns base64(IV || ciphertext).
func (m *E3) Encode() string { return encode(m.IV, m.Ciphertext[:]) }

// DecodeE1 parses an E1 token. The token must decode to exactly E1Size bytes.
func DecodeE1(token string) (E1, error) {
	var m E1
	err := decode("E1", token, &m.IV, m.Ciphertext[:])
	return m, err
}

// DecodeE2 parses an E2 token. The token must decode to exactly E2Size bytes.
func DecodeE2(token string) (E2, error) {
	var m E2
	err := decode("E2", token, &m.IV, m.Ciphertext[:])
	return m, err
}

// DecodeE3 parses an E3 token. The token must decode to exactly E3Size bytes.
func DecodeE3(token string) (E3, error) {
	var m E3
	err := decode("E3", token, &m.IV, m.Ciphertext[:])
	return m, err
}
