// Package storage loads and saves policy tables.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pthm-cable/gridlife/policy"
)

// ErrNotFound is wrapped when no stored policy exists.
var ErrNotFound = errors.New("policy not found")

// StorageError reports a failed load or save.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is an opaque policy store.
type Store interface {
	Load(defaults policy.WeightedPolicy, perception policy.Perception) (*policy.Table, error)
	Save(t *policy.Table) error
}

var _ Store = (*FileStore)(nil)

// FileStore keeps one table as a JSON document on disk.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and validates the stored table. Every failure is a
// *StorageError; a missing file wraps ErrNotFound and a malformed document
// wraps policy.ErrSchema.
func (s *FileStore) Load(defaults policy.WeightedPolicy, perception policy.Perception) (*policy.Table, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, s.fail("load", err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, s.fail("load", err)
	}

	t, err := policy.Deserialize(doc, defaults, perception)
	if err != nil {
		return nil, s.fail("load", err)
	}
	return t, nil
}

// Save writes the table, replacing any previous contents. The file is
// written to a temporary sibling and renamed into place.
func (s *FileStore) Save(t *policy.Table) error {
	data, err := json.MarshalIndent(t.Serialize(), "", "  ")
	if err != nil {
		return s.fail("save", fmt.Errorf("marshal policy: %w", err))
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s.fail("save", fmt.Errorf("create policy directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return s.fail("save", fmt.Errorf("create temp policy: %w", err))
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, append(data, '\n')); err != nil {
		os.Remove(tmpPath)
		return s.fail("save", fmt.Errorf("write temp policy: %w", err))
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return s.fail("save", fmt.Errorf("replace policy: %w", err))
	}
	return nil
}

func (s *FileStore) fail(op string, err error) error {
	return &StorageError{Op: op, Path: s.Path, Err: err}
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// decodeDocument parses exactly one JSON document, rejecting unknown fields.
func decodeDocument(data []byte) (policy.Document, error) {
	var doc policy.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return policy.Document{}, fmt.Errorf("%w: %w", policy.ErrSchema, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return policy.Document{}, fmt.Errorf("%w: trailing data after document", policy.ErrSchema)
	}
	return doc, nil
}
