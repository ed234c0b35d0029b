// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marcinwilkdev/speke"
	"github.com/marcinwilkdev/speke/internal/pkg/channel"
)

const (
	exitPass  = 0
	exitFail  = 1
	exitUsage = 2
	exitError = 3
)

const passwordEnv = "SPEKE_PASSWORD"

// usageError marks errors caused by the command line rather than the session.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type options struct {
	password string
	timeout  time.Duration
	message  string
	verbose  bool
}

func newRootCmd(stdin io.Reader, stdout io.Writer, log *logrus.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "speke [flags] <initiator|responder>",
		Short: "Password authenticated key exchange over the terminal",
		Long: `speke runs one side of a password authenticated key exchange followed by
mutual key confirmation. Tokens are exchanged by copying lines between the two
terminals. The roles may also be given as A (initiator) and B (responder).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one role argument, got %d", len(args))}
			}
			if _, err := speke.ParseRole(args[0]); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := speke.ParseRole(args[0])
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return runSession(cmd.Context(), role, opts, stdin, stdout, log)
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)

	f := cmd.Flags()
	f.StringVarP(&opts.password, "password", "p", "", "shared password (default $"+passwordEnv+", else prompt)")
	f.DurationVar(&opts.timeout, "timeout", 0, "how long to wait for each token from the peer (0 waits forever)")
	f.StringVar(&opts.message, "message", "", "after PASS, send this message sealed under the session key and read the peer's")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log protocol progress")
	return cmd
}

func runSession(ctx context.Context, role speke.Role, opts options, stdin io.Reader, stdout io.Writer, log *logrus.Logger) error {
	ch := channel.NewTerminal(stdin, stdout)
	ch.SetTimeout(opts.timeout)

	password := opts.password
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if password == "" {
		var err error
		password, err = ch.Receive(ctx, "Password")
		if err != nil {
			return fmt.Errorf("%w: %v", speke.ErrInput, err)
		}
	}

	res, err := speke.Run(ctx, role, ch, []byte(password), speke.WithLogger(log))
	if errors.Is(err, speke.ErrAuthFailed) {
		fmt.Fprintln(stdout, speke.Fail)
		return err
	}
	if err != nil {
		return err
	}
	defer res.Key.Wipe()

	fmt.Fprintln(stdout, res.Verdict)
	fmt.Fprintf(stdout, "Key: %s\n", res.Key.Encode())

	if opts.message == "" {
		return nil
	}
	return exchangeMessage(ctx, ch, stdout, res, role, opts.message)
}

// exchangeMessage sends one sealed message and prints the peer's.
func exchangeMessage(ctx context.Context, ch speke.Channel, stdout io.Writer, res speke.Result, role speke.Role, msg string) error {
	sc, err := speke.NewSecureChannel(res, role)
	if err != nil {
		return err
	}
	defer sc.Wipe()

	token, err := sc.Seal([]byte(msg))
	if err != nil {
		return err
	}
	if err := ch.Emit("M", token); err != nil {
		return fmt.Errorf("%w: %v", speke.ErrInput, err)
	}
	token, err = ch.Receive(ctx, "M")
	if err != nil {
		return fmt.Errorf("%w: %v", speke.ErrInput, err)
	}
	plaintext, err := sc.Open(token)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Received: %s\n", plaintext)
	return nil
}

func newLogger(stderr io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = stderr
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	log.Level = logrus.InfoLevel
	return log
}

// run executes the command and maps its outcome to an exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	cmd := newRootCmd(stdin, stdout, log)
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	var uerr usageError
	switch {
	case err == nil:
		return exitPass
	case errors.Is(err, speke.ErrAuthFailed):
		log.WithError(err).Warn("key confirmation failed")
		return exitFail
	case errors.Is(err, speke.ErrMessage):
		log.WithError(err).Error("peer message rejected")
		return exitError
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %s\n%s", err, cmd.UsageString())
		return exitUsage
	default:
		log.WithError(err).Error("session aborted")
		return exitError
	}
}
