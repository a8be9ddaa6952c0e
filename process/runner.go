package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgreen-go/bridge"
)

const tracerName = "github.com/bitfsorg/libgreen-go/process"

// waitDelay bounds how long Wait blocks on output pipes held open by
// descendants after the child itself has exited or been killed.
const waitDelay = 2 * time.Second

// Executor runs one invocation to completion and returns its stdout.
type Executor interface {
	Run(ctx context.Context, inv Invocation) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, inv Invocation) (string, error)

// Run calls f.
func (f ExecutorFunc) Run(ctx context.Context, inv Invocation) (string, error) {
	return f(ctx, inv)
}

// Runner spawns the wallet executable. It holds no per-invocation state and
// is safe for concurrent use.
type Runner struct {
	executable string
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutable sets the executable path or name.
func WithExecutable(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.executable = path
		}
	}
}

// WithTimeout sets the default per-invocation timeout. A negative value
// disables the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d != 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics enables invocation metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTracerProvider sets the provider the runner takes its tracer from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewRunner creates a runner for green-cli with the default timeout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		executable: DefaultExecutable,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile-time interface check.
var _ Executor = (*Runner)(nil)

// Executable returns the configured executable.
func (r *Runner) Executable() string { return r.executable }

// Run executes inv and blocks until the child exits or its time budget runs
// out. On success it returns stdout with exactly one trailing newline
// removed. Failures are *bridge.Error values of kind Cli, Network, Timeout,
// Io, InvalidArgument or Unexpected. The child is always reaped.
func (r *Runner) Run(ctx context.Context, inv Invocation) (string, error) {
	command := inv.Command()
	if len(inv.Args) == 0 {
		return "", bridge.InvalidArgument(command, "invocation has no arguments")
	}

	ctx, span := r.tracer.Start(ctx, "process.run",
		trace.WithAttributes(attribute.String("command", command)))
	defer span.End()

	start := time.Now()
	out, exitCode, err := r.run(ctx, command, inv)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("exit_code", exitCode))
	outcome := "ok"
	if err != nil {
		outcome = bridge.KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		r.logger.Warn("green-cli invocation failed",
			zap.String("command", command),
			zap.Int("exit_code", exitCode),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	} else {
		r.logger.Debug("green-cli invocation finished",
			zap.String("command", command),
			zap.Int("exit_code", exitCode),
			zap.Duration("elapsed", elapsed))
	}
	r.metrics.observe(command, outcome, elapsed)

	if err != nil {
		return "", err
	}
	return out, nil
}

// Start runs inv in the background. The returned future resolves once the
// child has been reaped.
func (r *Runner) Start(ctx context.Context, inv Invocation) *Future[string] {
	inv = inv.clone()
	return Go(ctx, func(ctx context.Context) (string, error) {
		return r.Run(ctx, inv)
	})
}

// run returns stdout, the exit code (-1 when the child never ran or was
// killed) and a mapped error.
func (r *Runner) run(ctx context.Context, command string, inv Invocation) (string, int, error) {
	timeout := inv.timeout(r.timeout)
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.executable, inv.Args...)
	cmd.Env = inv.environ(os.Environ())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		if runCtx.Err() != nil {
			return "", -1, contextError(ctx, command, timeout, runCtx.Err())
		}
		return "", -1, bridge.IoError(command, err)
	}

	waitErr := cmd.Wait()
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case waitErr == nil:
		return strings.TrimSuffix(stdout.String(), "\n"), exitCode, nil

	case errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState.Success():
		// Exited cleanly; a descendant kept the pipes open.
		return strings.TrimSuffix(stdout.String(), "\n"), exitCode, nil

	case runCtx.Err() != nil:
		return "", exitCode, contextError(ctx, command, timeout, runCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return "", exitCode, bridge.CliError(command, stderr.String(), exitErr.ExitCode())
	}
	return "", exitCode, bridge.Unexpected(command, "wait for child", waitErr)
}

// contextError maps a finished context. Parent cancellation is the caller
// abandoning the call; every deadline is a timeout.
func contextError(parent context.Context, command string, timeout time.Duration, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return bridge.Unexpected(command, "invocation canceled", parent.Err())
	}
	return bridge.TimeoutError(command, timeout, err)
}
