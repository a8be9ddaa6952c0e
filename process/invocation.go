package process

import (
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultExecutable is the wallet executable resolved through PATH.
	DefaultExecutable = "green-cli"

	// DefaultTimeout bounds an invocation whose Timeout is zero.
	DefaultTimeout = 60 * time.Second

	// EnvLogFlag and EnvTestFlag are set on every invocation unless the
	// invocation overrides them.
	EnvLogFlag  = "GREEN_CLI_L"
	EnvTestFlag = "GREEN_CLI_T"

	defaultLogFlag  = "-L"
	defaultTestFlag = "-T"
)

// Invocation is a single request to run the wallet executable.
type Invocation struct {
	// Args is the ordered argument list, excluding the executable name.
	Args []string

	// Env overrides entries of the inherited environment.
	Env map[string]string

	// Timeout is the per-invocation budget. Zero means the runner default;
	// negative means no timeout.
	Timeout time.Duration
}

// NewInvocation returns an invocation of args with default env and timeout.
func NewInvocation(args ...string) Invocation {
	return Invocation{Args: args}
}

// Command returns a short label for inv, made of its leading non-flag
// arguments (at most two), e.g. "get balance" or "tx sign".
func (inv Invocation) Command() string {
	return CommandName(inv.Args)
}

// CommandName is Invocation.Command for a bare argument list.
func CommandName(args []string) string {
	var parts []string
	for _, a := range args {
		if len(parts) == 2 || strings.HasPrefix(a, "-") {
			break
		}
		parts = append(parts, a)
	}
	if len(parts) == 0 {
		return "green-cli"
	}
	return strings.Join(parts, " ")
}

func (inv Invocation) timeout(def time.Duration) time.Duration {
	if inv.Timeout == 0 {
		return def
	}
	return inv.Timeout
}

// environ builds the child environment: base, then the fixed flags unless
// overridden, then the overrides in key order. Later entries win.
func (inv Invocation) environ(base []string) []string {
	env := make([]string, 0, len(base)+2+len(inv.Env))
	env = append(env, base...)
	if _, ok := inv.Env[EnvLogFlag]; !ok {
		env = append(env, EnvLogFlag+"="+defaultLogFlag)
	}
	if _, ok := inv.Env[EnvTestFlag]; !ok {
		env = append(env, EnvTestFlag+"="+defaultTestFlag)
	}
	for _, k := range slices.Sorted(maps.Keys(inv.Env)) {
		env = append(env, k+"="+inv.Env[k])
	}
	return env
}

func (inv Invocation) clone() Invocation {
	out := inv
	out.Args = slices.Clone(inv.Args)
	out.Env = maps.Clone(inv.Env)
	return out
}
