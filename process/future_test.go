package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libgreen-go/bridge"
)

func TestFuture_Value(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, f.Result().IsOk())
}

func TestFuture_Error(t *testing.T) {
	want := bridge.InvalidResponse("get balance", "bad")
	f := Go(context.Background(), func(context.Context) (string, error) {
		return "", want
	})
	_, err := f.Await(context.Background())
	assert.Same(t, want, err)
	assert.True(t, f.Result().IsErr())
}

func TestFuture_AwaitCancelWaitsForJob(t *testing.T) {
	returned := make(chan struct{})
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		defer close(returned)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, bridge.ErrUnexpected)
	assert.ErrorIs(t, err, context.Canceled)

	select {
	case <-returned:
	default:
		t.Fatal("Await returned before the job did")
	}
}

func TestFuture_AwaitDeadlineIsTimeout(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, errors.New("stopped")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, bridge.ErrTimeout)
}

func TestFuture_CompletedJobWinsOverCancel(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (string, error) {
		return "done", nil
	})
	<-f.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestFuture_Cancel(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	f.Cancel()

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}
