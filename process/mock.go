package process

import (
	"context"
	"sync"
)

// MockExecutor is a test double for Executor. RunFn, when set, produces the
// result; otherwise Run returns an empty stdout. Every invocation is recorded.
type MockExecutor struct {
	RunFn func(ctx context.Context, inv Invocation) (string, error)

	mu    sync.Mutex
	calls []Invocation
}

// Compile-time interface check.
var _ Executor = (*MockExecutor)(nil)

// Run records inv and delegates to RunFn.
func (m *MockExecutor) Run(ctx context.Context, inv Invocation) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, inv.clone())
	m.mu.Unlock()

	if m.RunFn != nil {
		return m.RunFn(ctx, inv)
	}
	return "", nil
}

// Calls returns a copy of the recorded invocations in call order.
func (m *MockExecutor) Calls() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Invocation, len(m.calls))
	copy(out, m.calls)
	return out
}

// Args returns the argument lists of the recorded invocations.
func (m *MockExecutor) Args() [][]string {
	calls := m.Calls()
	out := make([][]string, len(calls))
	for i, c := range calls {
		out[i] = c.Args
	}
	return out
}
