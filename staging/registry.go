package staging

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

var bucketArtifacts = []byte("artifacts")

// LockSuffix is appended to an artifact path to name its lock file.
const LockSuffix = ".lock"

// Record describes one staged transaction artifact.
type Record struct {
	Path      string
	CreatedAt time.Time
	Stage     string
	UpdatedAt time.Time
}

// Registry tracks staged artifacts in a bbolt database so that files left
// behind by crashed or abandoned builders can be found and swept.
type Registry struct {
	db *bbolt.DB
}

// Open opens or creates the registry database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrOpen, err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketArtifacts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %w", ErrOpen, err)
	}

	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error { return r.db.Close() }

// Register records a newly written artifact.
func (r *Registry) Register(path string, createdAt time.Time) error {
	if path == "" {
		return ErrEmptyPath
	}
	rec := Record{Path: path, CreatedAt: createdAt, Stage: "staged", UpdatedAt: createdAt}

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		if b.Get([]byte(path)) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, path)
		}
		return putRecord(b, rec)
	})
}

// SetStage updates the stage label of a registered artifact.
func (r *Registry) SetStage(path, stage string) error {
	if path == "" {
		return ErrEmptyPath
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		rec, err := getRecord(b, path)
		if err != nil {
			return err
		}
		rec.Stage = stage
		rec.UpdatedAt = time.Now()
		return putRecord(b, *rec)
	})
}

// Unregister removes the record for path. Removing an unknown path is not
// an error.
func (r *Registry) Unregister(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Delete([]byte(path))
	})
}

// Get returns the record for path.
func (r *Registry) Get(path string) (*Record, error) {
	var rec *Record
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = getRecord(tx.Bucket(bucketArtifacts), path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all records, oldest first.
func (r *Registry) List() ([]Record, error) {
	var out []Record
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketArtifacts).ForEach(func(k, v []byte) error {
			var rec Record
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrCorrupt, k, err)
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// Sweep deletes every artifact created before cutoff, together with its lock
// file, and drops its record. Files already gone are treated as removed.
// A record whose file cannot be removed is kept; the failures are joined
// into the returned error. Sweep returns the paths it removed.
func (r *Registry) Sweep(cutoff time.Time) ([]string, error) {
	records, err := r.List()
	if err != nil {
		return nil, err
	}

	var (
		removed []string
		errs    []error
	)
	for _, rec := range records {
		if !rec.CreatedAt.Before(cutoff) {
			continue
		}
		if err := RemoveArtifact(rec.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.Unregister(rec.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, rec.Path)
	}
	return removed, errors.Join(errs...)
}

// RemoveArtifact deletes an artifact file and its lock file. Missing files
// are ignored.
func RemoveArtifact(path string) error {
	var errs []error
	for _, p := range []string{path, path + LockSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%w: %w", ErrRemove, err))
		}
	}
	return errors.Join(errs...)
}

func getRecord(b *bbolt.Bucket, path string) (*Record, error) {
	data := b.Get([]byte(path))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	var rec Record
	if err := decodeGob(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	return &rec, nil
}

func putRecord(b *bbolt.Bucket, rec Record) error {
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := b.Put([]byte(rec.Path), data); err != nil {
		return fmt.Errorf("staging: put record: %w", err)
	}
	return nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
