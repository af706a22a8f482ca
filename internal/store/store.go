package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rvandam/office-gate/api"
)

// Store persists approval requests as individual files under a shared root.
// A request's directory encodes its state: pending requests live in
// pending/, resolved ones in resolved/. The only mutation primitives are
// atomic single-file creation and atomic rename between the two areas.
type Store struct {
	root     string
	pending  string
	resolved string
}

const recordExt = ".md"

// New opens (creating if needed) a store rooted at dir.
func New(dir string) (*Store, error) {
	s := &Store{
		root:     dir,
		pending:  filepath.Join(dir, "pending"),
		resolved: filepath.Join(dir, "resolved"),
	}
	for _, d := range []string{s.pending, s.resolved} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return s, nil
}

// PendingDir returns the waiting-area directory path.
func (s *Store) PendingDir() string { return s.pending }

// ResolvedDir returns the terminal-area directory path.
func (s *Store) ResolvedDir() string { return s.resolved }

// Create writes a new request into the waiting area. The write is all or
// nothing: content goes to a temp file first and is published with a hard
// link, which fails with fs.ErrExist instead of clobbering on an id
// collision. Returns the path of the created record.
func (s *Store) Create(req *api.ApprovalRequest) (string, error) {
	data, err := Render(req)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.pending, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing request %s: %w", req.RequestID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("syncing request %s: %w", req.RequestID, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing request %s: %w", req.RequestID, err)
	}

	path := filepath.Join(s.pending, req.RequestID+recordExt)
	if err := os.Link(tmpName, path); err != nil {
		return "", fmt.Errorf("publishing request %s: %w", req.RequestID, err)
	}
	return path, nil
}

// Exists reports whether a request id is present in either area.
func (s *Store) Exists(requestID string) bool {
	for _, d := range []string{s.pending, s.resolved} {
		if _, err := os.Stat(filepath.Join(d, requestID+recordExt)); err == nil {
			return true
		}
	}
	return false
}

// ListPending returns the paths of all records currently in the waiting
// area, sorted by name (ids start with a timestamp, so this is creation
// order).
func (s *Store) ListPending() ([]string, error) {
	entries, err := os.ReadDir(s.pending)
	if err != nil {
		return nil, fmt.Errorf("listing waiting area: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		paths = append(paths, filepath.Join(s.pending, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Read parses the record at path.
func (s *Store) Read(path string) (*api.ApprovalRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	req, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", filepath.Base(path), err)
	}
	return req, nil
}

// MoveToResolved relocates a record from the waiting area into the
// resolved area. The rename is the commit point of the whole workflow: a
// record is never visible in both areas, nor absent from both, and a
// successful return here is what makes a resolution reportable.
func (s *Store) MoveToResolved(path string) (string, error) {
	dest := filepath.Join(s.resolved, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// StampResolved rewrites an already-relocated record with its resolution
// time. The rewrite is atomic (temp + rename within the resolved area) but
// happens after the commit; a failure here loses only the timestamp, never
// the transition.
func (s *Store) StampResolved(path string, req *api.ApprovalRequest, at time.Time) error {
	req.ResolvedAt = &at
	data, err := Render(req)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.resolved, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing resolved record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing resolved record: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing resolved record: %w", err)
	}
	return nil
}
