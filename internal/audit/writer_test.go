package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvandam/office-gate/api"
)

func TestJSONLStore_WriteAndQuery(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()

	record := &api.AuditRecord{
		Timestamp:   time.Now(),
		Event:       api.EventCreated,
		RequestID:   "20260901T101500Z-aaaa",
		ActionType:  "send_email",
		Sensitivity: api.SensitivityHigh,
		Score:       4,
	}
	if err := store.Write(ctx, record); err != nil {
		t.Fatal(err)
	}

	results, err := store.Query(ctx, api.QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RequestID != "20260901T101500Z-aaaa" {
		t.Errorf("unexpected request id %s", results[0].RequestID)
	}
	if results[0].ID == "" {
		t.Error("expected generated record id")
	}
}

func TestJSONLStore_QueryFilter(t *testing.T) {
	store, err := NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	events := []api.AuditEvent{api.EventCreated, api.EventCreated, api.EventApproved, api.EventRejected}
	for i, ev := range events {
		rec := &api.AuditRecord{
			Timestamp:  time.Now(),
			Event:      ev,
			RequestID:  "req",
			ActionType: "send_email",
		}
		if i == 0 {
			rec.ActionType = "post_social"
		}
		if err := store.Write(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	results, err := store.Query(ctx, api.QueryFilter{Event: api.EventCreated})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 created events, got %d", len(results))
	}

	results, err = store.Query(ctx, api.QueryFilter{ActionType: "post_social"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 post_social event, got %d", len(results))
	}

	results, err = store.Query(ctx, api.QueryFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result with limit/offset, got %d", len(results))
	}
}

func TestJSONLStore_Stats(t *testing.T) {
	store, err := NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	records := []*api.AuditRecord{
		{Event: api.EventCreated, RequestID: "a", ActionType: "send_email", Sensitivity: api.SensitivityHigh},
		{Event: api.EventApproved, RequestID: "a", ActionType: "send_email", Sensitivity: api.SensitivityHigh},
		{Event: api.EventCreated, RequestID: "b", ActionType: "send_message", Sensitivity: api.SensitivityMedium},
		{Event: api.EventRejected, RequestID: "b", ActionType: "send_message", Sensitivity: api.SensitivityMedium},
	}
	for _, rec := range records {
		if err := store.Write(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 4 {
		t.Errorf("expected 4 events, got %d", stats.TotalEvents)
	}
	if stats.CreatedCount != 2 || stats.ApprovedCount != 1 || stats.RejectedCount != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.ByActionType["send_email"] != 2 {
		t.Errorf("expected 2 send_email events, got %d", stats.ByActionType["send_email"])
	}
	if stats.BySensitivity["high"] != 2 {
		t.Errorf("expected 2 high events, got %d", stats.BySensitivity["high"])
	}
}

func TestJSONLStore_FileOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := store.Write(context.Background(), &api.AuditRecord{
		Timestamp: now,
		Event:     api.EventCreated,
		RequestID: "a",
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, now.Format("2006-01-02")+".jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected JSONL content on disk")
	}
}

func TestJSONLStore_Replay(t *testing.T) {
	dir := t.TempDir()

	first, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, ev := range []api.AuditEvent{api.EventCreated, api.EventApproved} {
		if err := first.Write(ctx, &api.AuditRecord{Event: ev, RequestID: "a", ActionType: "send_email"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	// A fresh store in a new process sees history only after Replay.
	second, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	stats, err := second.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 0 {
		t.Fatalf("expected empty stats before replay, got %d", stats.TotalEvents)
	}

	if err := second.Replay(); err != nil {
		t.Fatal(err)
	}
	stats, err = second.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 2 {
		t.Errorf("expected 2 events after replay, got %d", stats.TotalEvents)
	}
	if stats.ApprovedCount != 1 {
		t.Errorf("expected 1 approved, got %d", stats.ApprovedCount)
	}
}
