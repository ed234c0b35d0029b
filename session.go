// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Channel carries base64 tokens between the peers. Receive blocks until the
// token for label arrives or ctx is done.
type Channel interface {
	Receive(ctx context.Context, label string) (string, error)
	Emit(label, token string) error
}

// Role selects which side of the protocol a peer runs.
type Role int

const (
	// RoleInitiator sends XA and E1 first and confirms with E3.
	RoleInitiator Role = iota
	// RoleResponder answers E1 with E2 and checks E3.
	RoleResponder
)

func (r Role) String() string {
	if r == RoleResponder {
		return "responder"
	}
	return "initiator"
}

// ParseRole parses "initiator" (or "A") and "responder" (or "B").
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "initiator", "a":
		return RoleInitiator, nil
	case "responder", "b":
		return RoleResponder, nil
	}
	return 0, fmt.Errorf("%w %q", ErrRole, s)
}

// Labels of the public values each role sends.
func (r Role) labels() (own, peer string) {
	if r == RoleResponder {
		return "XB", "XA"
	}
	return "XA", "XB"
}

type config struct {
	log logrus.FieldLogger
}

// Option configures Run.
type Option func(*config)

// WithLogger makes Run log protocol progress to l. Secrets are never logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(role Role, opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		l := logrus.New()
		l.Out = io.Discard
		c.log = l
	}
	c.log = c.log.WithField("role", role.String())
	return c
}

// session drives one run of the protocol over a channel.
type session struct {
	ctx context.Context
	ch  Channel
	log logrus.FieldLogger
}

func (s *session) emit(label, token string) error {
	if err := s.ch.Emit(label, token); err != nil {
		return fmt.Errorf("%w: sending %s: %v", ErrInput, label, err)
	}
	s.log.WithField("label", label).Debug("sent")
	return nil
}

func (s *session) receive(label string) (string, error) {
	token, err := s.ch.Receive(s.ctx, label)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	s.log.WithField("label", label).Debug("received")
	return token, nil
}

// exchange runs the key exchange and returns the session key.
func (s *session) exchange(role Role, password []byte) (SessionKey, error) {
	kx, err := NewKeyExchange(password)
	if err != nil {
		return SessionKey{}, err
	}
	defer kx.Wipe()

	own, peer := role.labels()
	if err := s.emit(own, EncodePublicValue(kx.PublicValue())); err != nil {
		return SessionKey{}, err
	}
	token, err := s.receive(peer)
	if err != nil {
		return SessionKey{}, err
	}
	peerValue, err := DecodePublicValue(token)
	if err != nil {
		return SessionKey{}, err
	}
	key, err := kx.SharedKey(peerValue)
	if err != nil {
		return SessionKey{}, err
	}
	s.log.Debug("derived session key")
	return key, nil
}

// Run runs the protocol as role. See RunInitiator and RunResponder.
func Run(ctx context.Context, role Role, ch Channel, password []byte, opts ...Option) (Result, error) {
	if role == RoleResponder {
		return RunResponder(ctx, ch, password, opts...)
	}
	return RunInitiator(ctx, ch, password, opts...)
}

// RunInitiator runs the initiator: it sends XA, reads XB, sends E1, reads E2
// and, if the responder proved knowledge of the key, sends E3.
//
// On success the Result has verdict Pass and carries the session key. If the
// peer fails to authenticate, the Result has verdict Fail and the error is
// ErrAuthFailed. Any other error (ErrInput, ErrDecode, ...) means the run was
// aborted before a verdict.
func RunInitiator(ctx context.Context, ch Channel, password []byte, opts ...Option) (Result, error) {
	cfg := newConfig(RoleInitiator, opts)
	s := &session{ctx: ctx, ch: ch, log: cfg.log}

	key, err := s.exchange(RoleInitiator, password)
	if err != nil {
		return Result{}, err
	}
	in := NewInitiator(key)
	key.Wipe()
	defer in.Wipe()

	e1, err := in.Start()
	if err != nil {
		return Result{}, err
	}
	if err := s.emit("E1", e1.Encode()); err != nil {
		return Result{}, err
	}
	token, err := s.receive("E2")
	if err != nil {
		return Result{}, err
	}
	e2, err := DecodeE2(token)
	if err != nil {
		return Result{}, err
	}
	e3, err := in.Confirm(e2)
	if errors.Is(err, ErrAuthFailed) {
		s.log.Info("responder failed to confirm the session key")
		return Result{Verdict: Fail}, err
	}
	if err != nil {
		return Result{}, err
	}
	if err := s.emit("E3", e3.Encode()); err != nil {
		return Result{}, err
	}
	s.log.Debug("session key confirmed")
	return in.Result(), nil
}

// RunResponder runs the responder: it sends XB, reads XA, reads E1, sends E2
// and checks the initiator's E3. Results and errors are as for RunInitiator.
func RunResponder(ctx context.Context, ch Channel, password []byte, opts ...Option) (Result, error) {
	cfg := newConfig(RoleResponder, opts)
	s := &session{ctx: ctx, ch: ch, log: cfg.log}

	key, err := s.exchange(RoleResponder, password)
	if err != nil {
		return Result{}, err
	}
	resp, err := NewResponder(key)
	key.Wipe()
	if err != nil {
		return Result{}, err
	}
	defer resp.Wipe()

	token, err := s.receive("E1")
	if err != nil {
		return Result{}, err
	}
	e1, err := DecodeE1(token)
	if err != nil {
		return Result{}, err
	}
	e2, err := resp.Respond(e1)
	if err != nil {
		return Result{}, err
	}
	if err := s.emit("E2", e2.Encode()); err != nil {
		return Result{}, err
	}
	token, err = s.receive("E3")
	if err != nil {
		return Result{}, err
	}
	e3, err := DecodeE3(token)
	if err != nil {
		return Result{}, err
	}
	err = resp.Confirm(e3)
	if errors.Is(err, ErrAuthFailed) {
		s.log.Info("initiator failed to confirm the session key")
		return Result{Verdict: Fail}, err
	}
	if err != nil {
		return Result{}, err
	}
	s.log.Debug("session key confirmed")
	return resp.Result(), nil
}
