//go:build !unix

package txbuilder

import (
	"fmt"
	"os"
)

// Without flock the lock file is opened but gives no cross-process
// exclusion. Builders in one process still serialize on the value chain.

// tryLock opens the lock file.
func tryLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}

// releaseLock closes the lock file.
func releaseLock(f *os.File) {
	if f == nil {
		return
	}
	_ = f.Close()
}
