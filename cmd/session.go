// ABOUTME: Per-command runtime for one-shot CLI commands
// ABOUTME: Reports forced logout on stderr and ends the command instead of showing a login screen

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/kimguny/xpg-admin/internal/app"
	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/config"
	"github.com/kimguny/xpg-admin/internal/logger"
)

var (
	errNotSignedIn = errors.New("not signed in; run 'xpg-admin login'")
	errUsage       = errors.New("invalid arguments")
)

const loginHint = "Run 'xpg-admin login' to sign in again."

// cliSession wires a runtime to the terminal. Its context ends when the
// backend rejects the credential mid-command.
type cliSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	rt      *app.Runtime
	errOut  io.Writer
	expired atomic.Bool
}

// openSession loads configuration and builds a runtime for one command
func openSession(parent context.Context, errOut io.Writer) (*cliSession, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.Init(cfg.LogLevel, cfg.LogFormat, errOut)
	store := app.OpenStore(cfg, ephemeral)
	factory, err := app.NewFactory(cfg, store, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	s := &cliSession{ctx: ctx, cancel: cancel, cfg: cfg, errOut: errOut}
	rt, err := factory(client.NotifierFunc(s.alert), client.NavigatorFunc(s.toLogin))
	if err != nil {
		cancel()
		return nil, err
	}
	s.rt = rt
	return s, nil
}

func (s *cliSession) alert(_ context.Context, message string) {
	fmt.Fprintln(s.errOut, message)
}

func (s *cliSession) toLogin(context.Context) {
	s.expired.Store(true)
	fmt.Fprintln(s.errOut, loginHint)
	s.cancel()
}

// Expired reports whether the command ended through a forced logout
func (s *cliSession) Expired() bool {
	return s.expired.Load()
}

// requireCredential fails fast when nothing is stored
func (s *cliSession) requireCredential() error {
	if _, ok := s.rt.Store.Get(); !ok {
		return errNotSignedIn
	}
	return nil
}

// Close releases the runtime
func (s *cliSession) Close() {
	s.cancel()
	s.rt.Close()
}

// runCommand opens a session, runs fn and exits with the mapped code
func runCommand(fn func(s *cliSession, w io.Writer) error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := execute(ctx, os.Stdout, os.Stderr, fn)
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}

// execute is runCommand without the process exit
func execute(ctx context.Context, w, errOut io.Writer, fn func(s *cliSession, w io.Writer) error) int {
	s, err := openSession(ctx, errOut)
	if err != nil {
		return report(errOut, err)
	}
	defer s.Close()

	err = fn(s, w)
	if err != nil && s.Expired() {
		return exitSessionInvalid
	}
	return report(errOut, err)
}
