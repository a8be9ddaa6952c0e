package txbuilder

import (
	"context"
	"strings"

	"github.com/bitfsorg/libgreen-go/bridge"
	"github.com/bitfsorg/libgreen-go/process"
)

// SignAsync runs Sign in the background.
func (b Builder) SignAsync(ctx context.Context) *process.Future[Builder] {
	return process.Go(ctx, b.Sign)
}

// BroadcastAsync runs Broadcast in the background.
func (b Builder) BroadcastAsync(ctx context.Context) *process.Future[Builder] {
	return process.Go(ctx, b.Broadcast)
}

var alreadyKnownMarkers = []string{
	"already known",
	"already in mempool",
	"txn-already-known",
	"txn-already-in-mempool",
	"transaction already in block chain",
}

// IsAlreadyKnown reports whether err is a broadcast rejection saying the
// network already has the transaction. The builder never acts on this;
// callers retrying a broadcast may treat it as success.
func IsAlreadyKnown(err error) bool {
	switch bridge.KindOf(err) {
	case bridge.KindCli, bridge.KindNetwork:
	default:
		return false
	}
	stderr := strings.ToLower(bridge.StderrOf(err))
	for _, m := range alreadyKnownMarkers {
		if strings.Contains(stderr, m) {
			return true
		}
	}
	return false
}
