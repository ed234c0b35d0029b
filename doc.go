// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

/*
Package speke contains an implementation of a SPEKE-style password
authenticated key exchange followed by mutual key confirmation.

Two peers who share only a password each pick a random exponent x and send
H(password)^x mod p, where p is a fixed public modulus and H is SHA-256. Both
then compute the shared secret (peer value)^x mod p and hash it into a 32 byte
session key. An attacker who does not know the password can't produce a
public value consistent with it, so each password guess costs one full run of
the protocol.

The session key is then confirmed with three messages (E1, E2, E3) carrying
random nonces encrypted with AES-256-CBC, see Initiator and Responder. A peer
only trusts the key once its own nonce has come back intact.

Messages are exchanged as base64 tokens over a Channel. RunInitiator and
RunResponder drive a whole session; the lower level types (KeyExchange,
Initiator, Responder, E1, E2, E3) can be used with any transport.

The confirmation messages are not authenticated. A modified message decrypts
to different bytes and the session ends with ErrAuthFailed, but the cipher
must not be reused as general purpose authenticated encryption. Use
SecureChannel for messages sent after confirmation.

IMPORTANT NOTE: This code has been written for educational purposes only. No
experts in cryptography or IT security have reviewed it. Do not use it for
anything important.
*/
package speke
