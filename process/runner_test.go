package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libgreen-go/bridge"
)

func TestRun_EmptyInvocation(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), Invocation{})
	assert.ErrorIs(t, err, bridge.ErrInvalidArgument)
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, DefaultExecutable, r.Executable())
	assert.Equal(t, DefaultTimeout, r.timeout)

	r = NewRunner(WithExecutable("/opt/green/green-cli"), WithTimeout(-1))
	assert.Equal(t, "/opt/green/green-cli", r.Executable())
	assert.Equal(t, time.Duration(-1), r.timeout)
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"get", "balance", "--json"}, "get balance"},
		{[]string{"tx", "sign", "/tmp/green-tx-1.json"}, "tx sign"},
		{[]string{"get", "--json"}, "get"},
		{[]string{"--version"}, "green-cli"},
		{nil, "green-cli"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommandName(tt.args), "%v", tt.args)
	}
}

func TestInvocation_Timeout(t *testing.T) {
	assert.Equal(t, time.Second, Invocation{}.timeout(time.Second))
	assert.Equal(t, 5*time.Second, Invocation{Timeout: 5 * time.Second}.timeout(time.Second))
	assert.Negative(t, Invocation{Timeout: -1}.timeout(time.Second))
}

func TestInvocation_Environ(t *testing.T) {
	base := []string{"PATH=/bin", EnvLogFlag + "=inherited"}

	env := NewInvocation("x").environ(base)
	assert.Equal(t, []string{"PATH=/bin", EnvLogFlag + "=inherited", EnvLogFlag + "=-L", EnvTestFlag + "=-T"}, env)

	env = Invocation{Env: map[string]string{EnvLogFlag: "", "B": "2", "A": "1"}}.environ(base)
	assert.Equal(t, []string{"PATH=/bin", EnvLogFlag + "=inherited", EnvTestFlag + "=-T", "A=1", "B=2", EnvLogFlag + "="}, env)
}

func TestMockExecutor_RecordsCopies(t *testing.T) {
	m := &MockExecutor{
		RunFn: func(_ context.Context, inv Invocation) (string, error) {
			return inv.Command(), nil
		},
	}
	args := []string{"get", "balance"}
	out, err := m.Run(context.Background(), NewInvocation(args...))
	require.NoError(t, err)
	assert.Equal(t, "get balance", out)

	args[1] = "mutated"
	assert.Equal(t, [][]string{{"get", "balance"}}, m.Args())
}
