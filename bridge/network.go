package bridge

import "strings"

// networkMarkers are stderr fragments the wallet executable emits when the
// failure happened below the wallet logic, while talking to its backend.
var networkMarkers = []string{
	"connection refused",
	"network is unreachable",
	"could not connect",
	"no route to host",
	"timed out connecting",
	"network error",
}

// IsNetworkMessage reports whether msg describes a network-layer failure.
// Matching is case-insensitive.
func IsNetworkMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)
	for _, m := range networkMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
