// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Command speke runs one side of the speke key exchange on the terminal.
//
// Start "speke initiator" in one terminal and "speke responder" in another,
// enter the same password in both, and copy each "<label> < <token>" line
// printed by one side into the "<label> > " prompt of the other. Both sides
// print PASS and the session key once the key has been confirmed.
//
// Exit status is 0 on PASS, 1 on FAIL, 2 on usage errors and 3 when the
// session was aborted by unreadable input.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
