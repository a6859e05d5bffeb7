package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// Kind distinguishes the two rotated file kinds sharing one path prefix.
type Kind string

const (
	// KindVariables identifies P.v<index> files holding variable snapshots.
	KindVariables Kind = "v"
	// KindMemo identifies P.m<index> files holding memo snapshots.
	KindMemo Kind = "m"
)

// Store manages the rotating file sets under one path prefix. It performs
// no internal retries; every failure is surfaced as an *IOError.
type Store struct {
	path    string
	maxKeep int
}

// NewStore returns a store for the given path prefix. maxKeep bounds the
// number of files retained per kind; a value <= 0 keeps everything.
func NewStore(path string, maxKeep int) *Store {
	return &Store{path: path, maxKeep: maxKeep}
}

// Path returns the configured path prefix.
func (s *Store) Path() string {
	return s.path
}

// FileName returns the on-disk name for the given kind and index.
func (s *Store) FileName(kind Kind, index int) string {
	return fmt.Sprintf("%s.%s%d", s.path, kind, index)
}

// Indices returns the sorted indices of existing files of the kind.
func (s *Store) Indices(kind Kind) ([]int, error) {
	dir := filepath.Dir(s.path)
	prefix := filepath.Base(s.path) + "." + string(kind)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &IOError{Op: "scan", Path: dir, Err: err}
	}

	var indices []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rest, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		index, err := strconv.Atoi(rest)
		if err != nil || index <= 0 || strconv.Itoa(index) != rest {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}

// LatestIndex returns the highest existing index of the kind, or 0 when no
// file exists.
func (s *Store) LatestIndex(kind Kind) (int, error) {
	indices, err := s.Indices(kind)
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}
	return indices[len(indices)-1], nil
}

// LoadLatest reads the highest-indexed file of the kind and returns its
// content together with its index. When no file exists it returns (nil, 0,
// nil). A present but unreadable or corrupt file is an error, never skipped.
func (s *Store) LoadLatest(kind Kind) (map[string]any, int, error) {
	index, err := s.LatestIndex(kind)
	if err != nil {
		return nil, 0, err
	}
	if index == 0 {
		return nil, 0, nil
	}
	values, err := s.load(kind, index)
	if err != nil {
		return nil, 0, err
	}
	return values, index, nil
}

func (s *Store) load(kind Kind, index int) (map[string]any, error) {
	name := s.FileName(kind, index)
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	return values, nil
}

// Write persists the values as the file of the given kind and index, then
// prunes the kind down to the retention limit. The data is written to a
// temporary name in the target directory and renamed into place after a
// successful flush; pruning runs only once the new file is durable.
func (s *Store) Write(kind Kind, index int, values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return &IOError{Op: "write", Path: s.FileName(kind, index), Err: err}
	}
	name := s.FileName(kind, index)
	if err := renameio.WriteFile(name, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: name, Err: err}
	}
	return s.prune(kind)
}

// prune deletes the lowest-indexed files of the kind until at most maxKeep
// remain.
func (s *Store) prune(kind Kind) error {
	if s.maxKeep <= 0 {
		return nil
	}
	indices, err := s.Indices(kind)
	if err != nil {
		return err
	}
	for len(indices) > s.maxKeep {
		name := s.FileName(kind, indices[0])
		if err := os.Remove(name); err != nil {
			return &IOError{Op: "prune", Path: name, Err: err}
		}
		indices = indices[1:]
	}
	return nil
}
