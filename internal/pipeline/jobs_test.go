package pipeline

import (
	"testing"
	"time"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
)

func testRun() *Run {
	return NewRun(Request{
		Query: document.Query{Persona: "researcher", Job: "survey the literature"},
		Inputs: []Input{
			{Filename: "a.pdf"},
			{Filename: "b.pdf"},
		},
	})
}

func TestNewRun_InitialState(t *testing.T) {
	run := testRun()
	if run.ID == "" {
		t.Fatal("expected non-empty run ID")
	}
	if run.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, run.Status)
	}
	if run.Persona != "researcher" {
		t.Errorf("expected persona %q, got %q", "researcher", run.Persona)
	}
	if len(run.Documents) != 2 || run.Documents[0] != "a.pdf" {
		t.Errorf("expected documents [a.pdf b.pdf], got %v", run.Documents)
	}
}

func TestNewRun_UniqueSortableIDs(t *testing.T) {
	a := testRun()
	b := testRun()
	if a.ID == b.ID {
		t.Fatalf("expected unique IDs, both %q", a.ID)
	}
	if len(a.ID) != len(b.ID) {
		t.Errorf("expected fixed-length IDs, got %d and %d", len(a.ID), len(b.ID))
	}
}

func TestRun_StateTransitions(t *testing.T) {
	run := testRun()
	transitions := []RunStatus{
		StatusExtracting,
		StatusSectioning,
		StatusFitting,
		StatusScoring,
		StatusRefining,
		StatusCompleted,
	}
	for _, status := range transitions {
		before := run.Snapshot().UpdatedAt
		// Small sleep to ensure the time difference is detectable.
		time.Sleep(time.Millisecond)
		run.SetStatus(status)

		snap := run.Snapshot()
		if snap.Status != status {
			t.Errorf("expected status %q, got %q", status, snap.Status)
		}
		if !snap.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestRun_FailKeepsPhase(t *testing.T) {
	run := testRun()
	run.SetStatus(StatusScoring)
	run.Fail("vector space: empty corpus")

	snap := run.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Phase != string(StatusScoring) {
		t.Errorf("expected phase to stay %q, got %q", StatusScoring, snap.Phase)
	}
	if snap.Error != "vector space: empty corpus" {
		t.Errorf("unexpected error message %q", snap.Error)
	}
}

func TestRun_CompleteStoresResult(t *testing.T) {
	run := testRun()
	if run.Result() != nil {
		t.Fatal("expected nil result before completion")
	}

	run.Complete(output.Consolidated{
		Metadata: output.Metadata{Persona: "researcher"},
	}, nil)

	if run.Snapshot().Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, run.Snapshot().Status)
	}
	res := run.Result()
	if res == nil {
		t.Fatal("expected stored result")
	}
	if res.Metadata.Persona != "researcher" {
		t.Errorf("unexpected result metadata: %+v", res.Metadata)
	}
}

func TestRun_CompleteWithSkippedIsPartial(t *testing.T) {
	run := testRun()
	run.Complete(output.Consolidated{}, []string{"b.pdf"})

	snap := run.Snapshot()
	if snap.Status != StatusPartial {
		t.Errorf("expected status %q, got %q", StatusPartial, snap.Status)
	}
	if len(snap.Skipped) != 1 || snap.Skipped[0] != "b.pdf" {
		t.Errorf("expected skipped [b.pdf], got %v", snap.Skipped)
	}
	if run.Result() == nil {
		t.Error("partial run must still carry its result")
	}
}

func TestRun_SnapshotDocumentsNotNil(t *testing.T) {
	run := NewRun(Request{})
	snap := run.Snapshot()
	if snap.Documents == nil {
		t.Error("expected non-nil documents slice in snapshot")
	}
}

func TestRunStore_PutGet(t *testing.T) {
	store := NewRunStore(time.Hour)
	run := testRun()
	store.Put(run)

	got := store.Get(run.ID)
	if got == nil {
		t.Fatal("expected to get run back")
	}
	if got.ID != run.ID {
		t.Errorf("expected ID %q, got %q", run.ID, got.ID)
	}
}

func TestRunStore_GetMissing(t *testing.T) {
	store := NewRunStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing run")
	}
}

func TestRunStore_TTLCleanup(t *testing.T) {
	store := NewRunStore(50 * time.Millisecond)

	expired := testRun()
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := testRun()
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired run to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh run to survive cleanup")
	}
}

func TestRunStore_CleanupEmpty(t *testing.T) {
	store := NewRunStore(time.Hour)
	// Should not panic on an empty store.
	store.Cleanup()
}
