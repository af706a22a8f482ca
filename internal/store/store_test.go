package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rvandam/office-gate/api"
)

func TestStore_CreateAndRead(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	req := sampleRequest()
	path, err := st.Create(req)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != st.PendingDir() {
		t.Errorf("expected record in waiting area, got %s", path)
	}

	got, err := st.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RequestID != req.RequestID {
		t.Errorf("expected id %s, got %s", req.RequestID, got.RequestID)
	}
	if got.Status != api.StatusPending {
		t.Errorf("expected pending, got %s", got.Status)
	}

	// No temp leftovers in the waiting area
	entries, err := os.ReadDir(st.PendingDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestStore_CreateDuplicateID(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	req := sampleRequest()
	if _, err := st.Create(req); err != nil {
		t.Fatal(err)
	}
	_, err = st.Create(req)
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected fs.ErrExist for duplicate id, got %v", err)
	}
}

func TestStore_Exists(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	req := sampleRequest()
	if st.Exists(req.RequestID) {
		t.Error("expected id to be absent before create")
	}
	path, err := st.Create(req)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Exists(req.RequestID) {
		t.Error("expected id to exist in waiting area")
	}

	if _, err := st.MoveToResolved(path); err != nil {
		t.Fatal(err)
	}
	if !st.Exists(req.RequestID) {
		t.Error("expected id to still exist after relocation")
	}
}

func TestStore_ListPending(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	paths, err := st.ListPending()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty waiting area, got %d entries", len(paths))
	}

	for _, id := range []string{"20260901T101500Z-aaaa", "20260901T101501Z-bbbb"} {
		req := sampleRequest()
		req.RequestID = id
		if _, err := st.Create(req); err != nil {
			t.Fatal(err)
		}
	}

	paths, err = st.ListPending()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 pending records, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "20260901T101500Z-aaaa.md" {
		t.Errorf("expected creation order, got %s first", paths[0])
	}
}

func TestStore_MoveToResolved(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	req := sampleRequest()
	path, err := st.Create(req)
	if err != nil {
		t.Fatal(err)
	}

	dest, err := st.MoveToResolved(path)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(dest) != st.ResolvedDir() {
		t.Errorf("expected record in resolved area, got %s", dest)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected record gone from waiting area")
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("expected record present in resolved area: %v", err)
	}
}

func TestStore_StampResolved(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	req := sampleRequest()
	req.Status = api.StatusApproved
	path, err := st.Create(req)
	if err != nil {
		t.Fatal(err)
	}
	dest, err := st.MoveToResolved(path)
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if err := st.StampResolved(dest, req, at); err != nil {
		t.Fatal(err)
	}

	got, err := st.Read(dest)
	if err != nil {
		t.Fatal(err)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(at) {
		t.Errorf("expected resolved_at %s, got %v", at, got.ResolvedAt)
	}
	if got.Status != api.StatusApproved {
		t.Errorf("stamp changed status: %s", got.Status)
	}
}

func TestStore_ReadMissing(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.Read(filepath.Join(st.PendingDir(), "nope.md"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
