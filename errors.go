// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package speke

import (
	"errors"
	"fmt"
)

var (
	// ErrInput is returned when the message channel fails to deliver or
	// accept a token, e.g. at end of input.
	ErrInput = errors.New("speke: input acquisition failed")

	// ErrDecode is returned when a received token is not valid base64 or
	// has the wrong length for the message expected at that step.
	ErrDecode = errors.New("speke: decoding failed")

	// ErrInvalidPublicValue is returned when the peer's public value is
	// outside (1, p-1).
	ErrInvalidPublicValue = fmt.Errorf("%w: public value out of range", ErrDecode)

	// ErrAuthFailed is returned when the peer did not prove possession of
	// the same session key. It is the protocol's negative outcome.
	ErrAuthFailed = errors.New("speke: authentication failed")

	// ErrState is returned when a handshake step is run out of order.
	ErrState = errors.New("speke: handshake step out of order")

	// ErrMessage is returned by SecureChannel.Open when a token sealed
	// after key confirmation fails verification. It does not change the
	// handshake verdict.
	ErrMessage = errors.New("speke: message rejected")

	// ErrRole is returned by ParseRole for anything but a known role name.
	ErrRole = errors.New("speke: unknown role")
)
