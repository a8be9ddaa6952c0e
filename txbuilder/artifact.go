package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libgreen-go/staging"
)

const (
	artifactPrefix = "green-tx-"
	artifactExt    = ".json"

	lockPollInterval = 25 * time.Millisecond
)

func artifactName() string {
	return artifactPrefix + uuid.NewString() + artifactExt
}

// writeArtifact stores data in a new file under dir. The file is created
// exclusively with mode 0600 and synced before it is reported written. On
// failure nothing is left behind.
func writeArtifact(dir string, data []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("%w: create directory: %w", ErrArtifactWrite, err)
	}

	path := filepath.Join(dir, artifactName())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}
	return path, nil
}

// lockArtifact takes the exclusive lock guarding path, polling until it is
// free or ctx is done.
func lockArtifact(ctx context.Context, path string) (*os.File, error) {
	lockPath := path + staging.LockSuffix
	for {
		f, err := tryLock(lockPath)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}
