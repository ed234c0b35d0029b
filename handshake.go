// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

// This file contains the key confirmation handshake. Each side proves that
// it derived the same session key by chaining random nonces through three
// encrypted messages:
//
//     Initiator -> Responder: E1 = Enc(K, Ca)
//     Responder -> Initiator: E2 = Enc(K, Cb || Ca)
//     Initiator -> Responder: E3 = Enc(K, Cb)
//
// Enc is AES-256-CBC without padding under a fresh random IV. A nonce that
// comes back different ends the session with ErrAuthFailed.

import (
	"crypto/subtle"

	"github.com/marcinwilkdev/speke/internal/pkg/cbc"
)

// Verdict is the outcome of the key confirmation.
type Verdict int

const (
	// Fail means the peer did not prove possession of the session key.
	Fail Verdict = iota
	// Pass means both peers hold the same session key.
	Pass
)

func (v Verdict) String() string {
	if v == Pass {
		return "PASS"
	}
	return "FAIL"
}

// Result is the terminal state of a handshake. Key is only set when Verdict
// is Pass.
type Result struct {
	Verdict Verdict
	Key     SessionKey
}

type step int

const (
	stepIdle step = iota
	stepSentE1
	stepSentE2
	stepDone
)

func encryptNonce(key *SessionKey, n []byte, out []byte) (cbc.IV, error) {
	iv, ct, err := cbc.Encrypt(randr, (*[KeySize]byte)(key), n)
	if err != nil {
		return iv, err
	}
	copy(out, ct)
	return iv, nil
}

func equal(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}

// Initiator runs the initiator's side of the key confirmation: Start, then
// Confirm.
type Initiator struct {
	key     SessionKey
	ca      Nonce
	step    step
	verdict Verdict
}

// NewInitiator returns an initiator that confirms key.
func NewInitiator(key SessionKey) *Initiator {
	return &Initiator{key: key}
}

// Start generates the nonce Ca and returns E1.
func (i *Initiator) Start() (E1, error) {
	var m E1
	if i.step != stepIdle {
		return m, ErrState
	}
	ca, err := newNonce(randr)
	if err != nil {
		return m, err
	}
	m.IV, err = encryptNonce(&i.key, ca[:], m.Ciphertext[:])
	if err != nil {
		return m, err
	}
	i.ca = ca
	i.step = stepSentE1
	return m, nil
}

// Confirm processes E2. If the responder echoed Ca correctly it returns E3,
// which must be sent to the responder, and the verdict becomes Pass.
// Otherwise it returns ErrAuthFailed and nothing may be sent.
func (i *Initiator) Confirm(m E2) (E3, error) {
	var e3 E3
	if i.step != stepSentE1 {
		return e3, ErrState
	}
	i.step = stepDone

	plaintext, err := cbc.Decrypt((*[KeySize]byte)(&i.key), m.IV, m.Ciphertext[:])
	if err != nil {
		return e3, err
	}
	cb, ca := plaintext[:NonceSize], plaintext[NonceSize:]
	if !equal(ca, i.ca[:]) {
		i.key.Wipe()
		return e3, ErrAuthFailed
	}
	e3.IV, err = encryptNonce(&i.key, cb, e3.Ciphertext[:])
	if err != nil {
		i.key.Wipe()
		return E3{}, err
	}
	i.verdict = Pass
	return e3, nil
}

// Result returns the outcome. Before Confirm has succeeded the verdict is
// Fail.
func (i *Initiator) Result() Result {
	if i.verdict != Pass {
		return Result{Verdict: Fail}
	}
	return Result{Verdict: Pass, Key: i.key}
}

// Wipe clears the session key and nonce held by i.
func (i *Initiator) Wipe() {
	i.key.Wipe()
	i.ca = Nonce{}
	i.verdict = Fail
	i.step = stepDone
}

// Responder runs the responder's side of the key confirmation: Respond, then
// Confirm.
type Responder struct {
	key     SessionKey
	cb      Nonce
	step    step
	verdict Verdict
}

// NewResponder returns a responder that confirms key. The nonce Cb is
// generated here, independently of anything received from the initiator.
func NewResponder(key SessionKey) (*Responder, error) {
	cb, err := newNonce(randr)
	if err != nil {
		return nil, err
	}
	return &Responder{key: key, cb: cb}, nil
}

// Respond processes E1 and returns E2 carrying Cb || Ca'.
func (r *Responder) Respond(m E1) (E2, error) {
	var e2 E2
	if r.step != stepIdle {
		return e2, ErrState
	}
	ca, err := cbc.Decrypt((*[KeySize]byte)(&r.key), m.IV, m.Ciphertext[:])
	if err != nil {
		return e2, err
	}
	plaintext := make([]byte, 0, 2*NonceSize)
	plaintext = append(plaintext, r.cb[:]...)
	plaintext = append(plaintext, ca...)
	e2.IV, err = encryptNonce(&r.key, plaintext, e2.Ciphertext[:])
	if err != nil {
		return E2{}, err
	}
	r.step = stepSentE2
	return e2, nil
}

// Confirm processes E3. It returns nil and the verdict becomes Pass if the
// initiator returned Cb; otherwise it returns ErrAuthFailed.
func (r *Responder) Confirm(m E3) error {
	if r.step != stepSentE2 {
		return ErrState
	}
	r.step = stepDone

	cb, err := cbc.Decrypt((*[KeySize]byte)(&r.key), m.IV, m.Ciphertext[:])
	if err != nil {
		return err
	}
	if !equal(cb, r.cb[:]) {
		r.key.Wipe()
		return ErrAuthFailed
	}
	r.verdict = Pass
	return nil
}

// Result returns the outcome. Before Confirm has succeeded the verdict is
// Fail.
func (r *Responder) Result() Result {
	if r.verdict != Pass {
		return Result{Verdict: Fail}
	}
	return Result{Verdict: Pass, Key: r.key}
}

// Wipe clears the session key and nonce held by r.
func (r *Responder) Wipe() {
	r.key.Wipe()
	r.cb = Nonce{}
	r.verdict = Fail
	r.step = stepDone
}
