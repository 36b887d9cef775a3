// Package launcher resolves credentials and starts the server process with
// them in its environment.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopifymcp/pkg/credentials"
)

const (
	// ServerBinEnvVar overrides the server binary location.
	ServerBinEnvVar = "SHOPIFY_MCP_SERVER_BIN"
	ServerBinName   = "shopify-mcp"

	// ExitCredentials is returned when no usable credential source is found.
	ExitCredentials = 1

	stopGrace = 5 * time.Second
)

type Launcher struct {
	Resolver  *credentials.Resolver
	ServerBin string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer

	log     *zap.SugaredLogger
	command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

func New(r *credentials.Resolver, log *zap.SugaredLogger) *Launcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Launcher{
		Resolver: r,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		log:      log,
		command:  exec.CommandContext,
	}
}

// ServerBinary finds the server: $SHOPIFY_MCP_SERVER_BIN, then a sibling of
// the running executable, then $PATH.
func ServerBinary() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ServerBinEnvVar)); p != "" {
		return p, nil
	}
	if self, err := os.Executable(); err == nil {
		sib := filepath.Join(filepath.Dir(self), ServerBinName)
		if st, err := os.Stat(sib); err == nil && !st.IsDir() {
			return sib, nil
		}
	}
	p, err := exec.LookPath(ServerBinName)
	if err != nil {
		return "", fmt.Errorf("server binary %q not found (set %s): %w", ServerBinName, ServerBinEnvVar, err)
	}
	return p, nil
}

// Run resolves credentials and runs the server until it exits. The returned
// code is the server's exit code, or ExitCredentials when launch never
// happened.
func (l *Launcher) Run(ctx context.Context, opts Options) (int, error) {
	set, err := l.Resolver.Resolve()
	if err != nil {
		return ExitCredentials, err
	}
	l.log.Infow("credentials loaded", "source", set.Source.String(), "shop", set.Host(), "auth", string(set.Mode()))

	bin := l.ServerBin
	if bin == "" {
		if bin, err = ServerBinary(); err != nil {
			return ExitCredentials, err
		}
	}

	cmd := l.command(ctx, bin, opts.ServerArgs()...)
	cmd.Env = childEnv(os.Environ(), set)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace

	l.log.Debugw("starting server", "bin", bin, "args", cmd.Args[1:])
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return ee.ExitCode(), nil
		}
		return ExitCredentials, fmt.Errorf("start %s: %w", bin, err)
	}
	return 0, nil
}

// childEnv drops any inherited credential keys so only the resolved source
// reaches the server.
func childEnv(base []string, set credentials.Set) []string {
	out := make([]string, 0, len(base)+len(credentials.Keys))
	for _, kv := range base {
		if k, _, _ := strings.Cut(kv, "="); !credentials.IsKey(k) {
			out = append(out, kv)
		}
	}
	return append(out, set.Environ()...)
}
