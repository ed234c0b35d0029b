// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package channel contains line-oriented message channels used to carry
// protocol tokens between the two peers.
//
// A Terminal channel talks to a human operator who copies tokens between two
// terminals. A Stream channel carries "<label> <token>" lines over any
// reader/writer pair, e.g. a pipe.
package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ErrUnexpectedLabel is returned by a Stream channel when the received line
// carries a different label than the one asked for.
var ErrUnexpectedLabel = errors.New("channel: unexpected label")

type line struct {
	text string
	err  error
}

// Line is a channel exchanging one token per line.
type Line struct {
	r       *bufio.Reader
	prompt  bool
	timeout time.Duration

	mu sync.Mutex
	w  *bufio.Writer

	once  sync.Once
	lines chan line
}

// NewTerminal returns a channel which prints "<label> > " before reading a
// line from r and writes emitted tokens as "<label> < <token>" to w.
func NewTerminal(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: bufio.NewWriter(w), prompt: true}
}

// NewStream returns a channel which writes "<label> <token>" lines to w and
// expects the same format on r.
func NewStream(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

// SetTimeout bounds how long each Receive waits. Zero, the default, waits
// until the context is done.
func (l *Line) SetTimeout(d time.Duration) {
	l.timeout = d
}

func (l *Line) write(s string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.WriteString(s); err != nil {
		return err
	}
	return l.w.Flush()
}

// Emit sends token under label.
func (l *Line) Emit(label, token string) error {
	if l.prompt {
		return l.write(fmt.Sprintf("%s < %s\n", label, token))
	}
	return l.write(fmt.Sprintf("%s %s\n", label, token))
}

// Receive reads the next token for label. It blocks until a line arrives,
// the input ends, or ctx is done. A line that arrives after ctx is done is
// kept for the next call.
func (l *Line) Receive(ctx context.Context, label string) (string, error) {
	if l.prompt {
		if err := l.write(label + " > "); err != nil {
			return "", err
		}
	}
	l.once.Do(l.startReader)
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var ln line
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for %s: %w", label, ctx.Err())
	case got, ok := <-l.lines:
		if !ok {
			return "", fmt.Errorf("reading %s: %w", label, io.ErrUnexpectedEOF)
		}
		ln = got
	}
	if ln.err != nil {
		return "", fmt.Errorf("reading %s: %w", label, ln.err)
	}
	if l.prompt {
		return ln.text, nil
	}

	gotLabel, token, _ := strings.Cut(ln.text, " ")
	if gotLabel != label {
		return "", fmt.Errorf("%w: got %q, expected %q", ErrUnexpectedLabel, gotLabel, label)
	}
	return token, nil
}

// startReader starts the goroutine which owns l.r. It delivers lines with
// the trailing "\n" or "\r\n" removed. On end of input it delivers
// io.ErrUnexpectedEOF, on other read errors the error itself, and then closes
// the channel.
func (l *Line) startReader() {
	l.lines = make(chan line, 1)
	go func() {
		defer close(l.lines)
		for {
			data, err := l.r.ReadString('\n')
			if err != nil && !(err == io.EOF && data != "") {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				l.lines <- line{err: err}
				return
			}
			data = strings.TrimSuffix(data, "\n")
			data = strings.TrimSuffix(data, "\r")
			l.lines <- line{text: data}
		}
	}()
}
