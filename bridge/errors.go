package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a bridge failure. Kinds are flat and do not overlap.
type Kind uint8

const (
	// KindUnexpected is the catch-all; it always carries a description.
	KindUnexpected Kind = iota
	// KindIo covers spawn failures and staging artifact file operations.
	KindIo
	// KindDecode covers output that could not be parsed into the expected shape.
	KindDecode
	// KindCli covers an executable that ran and exited non-zero.
	KindCli
	// KindTimeout covers an invocation that exceeded its time budget.
	KindTimeout
	// KindNetwork covers network-layer failures reported by the executable.
	KindNetwork
	// KindInvalidResponse covers output that parsed but failed semantic validation.
	KindInvalidResponse
	// KindStateViolation covers builder operations invoked from the wrong stage.
	KindStateViolation
	// KindInvalidArgument covers arguments rejected before anything is executed.
	KindInvalidArgument
)

// String returns the short label of the kind, as used in metrics and messages.
func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindDecode:
		return "decode"
	case KindCli:
		return "cli"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid_response"
	case KindStateViolation:
		return "state_violation"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unexpected"
	}
}

var (
	// ErrIo matches any error of KindIo.
	ErrIo = errors.New("bridge: I/O failure")

	// ErrDecode matches any error of KindDecode.
	ErrDecode = errors.New("bridge: response decode failure")

	// ErrCli matches any error of KindCli.
	ErrCli = errors.New("bridge: executable exited with failure")

	// ErrTimeout matches any error of KindTimeout.
	ErrTimeout = errors.New("bridge: invocation timed out")

	// ErrNetwork matches any error of KindNetwork.
	ErrNetwork = errors.New("bridge: network failure")

	// ErrInvalidResponse matches any error of KindInvalidResponse.
	ErrInvalidResponse = errors.New("bridge: invalid response")

	// ErrStateViolation matches any error of KindStateViolation.
	ErrStateViolation = errors.New("bridge: operation not allowed in current stage")

	// ErrInvalidArgument matches any error of KindInvalidArgument.
	ErrInvalidArgument = errors.New("bridge: invalid argument")

	// ErrUnexpected matches any error of KindUnexpected.
	ErrUnexpected = errors.New("bridge: unexpected failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindIo:
		return ErrIo
	case KindDecode:
		return ErrDecode
	case KindCli:
		return ErrCli
	case KindTimeout:
		return ErrTimeout
	case KindNetwork:
		return ErrNetwork
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindStateViolation:
		return ErrStateViolation
	case KindInvalidArgument:
		return ErrInvalidArgument
	default:
		return ErrUnexpected
	}
}

// Error is the single error type returned across the bridge. Fields beyond
// Kind and Op are populated only for the kinds that carry them.
type Error struct {
	Kind Kind
	Op   string // command or builder operation, e.g. "get balance", "sign"
	Msg  string

	// Stderr and ExitCode are set for KindCli and KindNetwork.
	Stderr   string
	ExitCode int

	// Expected and Actual are set for KindStateViolation.
	Expected string
	Actual   string

	Err error // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	b.WriteString(" error")

	switch e.Kind {
	case KindCli, KindNetwork:
		if e.ExitCode != 0 {
			fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
		}
		if e.Stderr != "" {
			b.WriteString(": ")
			b.WriteString(e.Stderr)
		}
	case KindStateViolation:
		fmt.Fprintf(&b, ": expected stage %s, got %s", e.Expected, e.Actual)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindUnexpected when err is not a bridge
// error. A nil err has no kind and also yields KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// StderrOf returns the captured standard error carried by err, if any.
func StderrOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stderr
	}
	return ""
}

// ---------------------------------------------------------------------------
// Constructors. Lower-level failures are mapped exactly once, at the point
// where they are first observed.
// ---------------------------------------------------------------------------

// IoError maps an OS-level failure (spawn, file write, lock).
func IoError(op string, err error) *Error {
	return &Error{Kind: KindIo, Op: op, Err: err}
}

// CliError maps a non-zero exit. Stderr is kept verbatim. When stderr carries
// a recognised network-failure marker the kind is KindNetwork instead.
func CliError(op, stderr string, exitCode int) *Error {
	kind := KindCli
	if IsNetworkMessage(stderr) {
		kind = KindNetwork
	}
	return &Error{Kind: kind, Op: op, Stderr: stderr, ExitCode: exitCode}
}

// TimeoutError maps an expired time budget.
func TimeoutError(op string, after time.Duration, err error) *Error {
	msg := "process terminated"
	if after > 0 {
		msg = fmt.Sprintf("process terminated after %s", after)
	}
	return &Error{Kind: KindTimeout, Op: op, Msg: msg, Err: err}
}

// DecodeError maps a parse failure of structured output.
func DecodeError(op, msg string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Msg: msg, Err: err}
}

// InvalidResponse maps output that parsed but is semantically wrong.
func InvalidResponse(op, msg string) *Error {
	return &Error{Kind: KindInvalidResponse, Op: op, Msg: msg}
}

// StateViolation maps a builder operation invoked from a stage that forbids it.
func StateViolation(op, expected, actual string) *Error {
	return &Error{Kind: KindStateViolation, Op: op, Expected: expected, Actual: actual}
}

// InvalidArgument maps an argument rejected before anything runs.
func InvalidArgument(op, msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

// FromContext maps the error of a finished context: a deadline is a timeout,
// a cancellation is the caller abandoning the operation.
func FromContext(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError(op, 0, err)
	}
	return Unexpected(op, "operation canceled", err)
}

// Unexpected is the catch-all. msg must describe what went wrong.
func Unexpected(op, msg string, err error) *Error {
	if msg == "" {
		msg = "unexpected failure"
	}
	return &Error{Kind: KindUnexpected, Op: op, Msg: msg, Err: err}
}
