// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/marcinwilkdev/speke/internal/pkg/authenc"
)

// SecureChannel protects messages exchanged after a successful key
// confirmation. Unlike the confirmation messages these are authenticated:
// modified tokens are rejected with ErrMessage.
//
// Each direction uses its own keys, so a token can't be reflected back to
// its sender.
type SecureChannel struct {
	key        SessionKey
	send, recv []byte
}

// NewSecureChannel returns a SecureChannel for role. res must have verdict
// Pass.
func NewSecureChannel(res Result, role Role) (*SecureChannel, error) {
	if res.Verdict != Pass {
		return nil, fmt.Errorf("%w: no confirmed session key", ErrState)
	}
	own, peer := []byte(RoleInitiator.String()), []byte(RoleResponder.String())
	if role == RoleResponder {
		own, peer = peer, own
	}
	return &SecureChannel{key: res.Key, send: own, recv: peer}, nil
}

// Seal encrypts and authenticates plaintext and returns a base64 token.
func (s *SecureChannel) Seal(plaintext []byte) (string, error) {
	ct, err := authenc.AuthEnc(randr, (*[KeySize]byte)(&s.key), s.send, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Open verifies and decrypts a token sealed by the peer.
func (s *SecureChannel) Open(token string) ([]byte, error) {
	ct, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: message: %v", ErrDecode, err)
	}
	plaintext, err := authenc.AuthDec((*[KeySize]byte)(&s.key), s.recv, ct)
	if errors.Is(err, authenc.AuthtagMismatch) {
		return nil, fmt.Errorf("%w: %v", ErrMessage, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: message: %v", ErrDecode, err)
	}
	return plaintext, nil
}

// Wipe clears the key.
func (s *SecureChannel) Wipe() {
	s.key.Wipe()
}
