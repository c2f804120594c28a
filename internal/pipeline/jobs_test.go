package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dgallion1/mdrecords/internal/records"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	a := NewJob("u1", "a.md", []byte("x"))
	b := NewJob("u1", "a.md", []byte("x"))
	if a.ID == "" || a.DocID == "" {
		t.Fatal("expected generated IDs")
	}
	if a.ID == b.ID || a.DocID == b.DocID {
		t.Error("expected unique IDs per job")
	}
	if a.ID == a.DocID {
		t.Error("job and document IDs should differ")
	}
	if a.Status != StatusQueued {
		t.Errorf("expected queued, got %q", a.Status)
	}
	if string(a.FileData()) != "x" {
		t.Errorf("expected file data to be kept, got %q", a.FileData())
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusConverting, "converting"},
		{StatusExtracting, "extracting"},
		{StatusIndexing, "indexing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusQueued, StatusConverting, StatusExtracting, StatusIndexing} {
		if s.Done() {
			t.Errorf("%q should not be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial, StatusDupSkipped} {
		if !s.Done() {
			t.Errorf("%q should be terminal", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("convert failed")
	job.AddError("index failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "convert failed" {
		t.Errorf("expected first error %q, got %q", "convert failed", snap.Progress.Errors[0])
	}
}

func TestJob_SetRecords(t *testing.T) {
	recs, err := records.Extract("# A\n\nbody\n")
	if err != nil {
		t.Fatal(err)
	}
	job := NewJob("u", "a.md", []byte("# A\n\nbody\n"))
	job.SetRecords("Doc", recs)

	if job.FileData() != nil {
		t.Error("expected file data released after extraction")
	}
	snap := job.Snapshot()
	if snap.Title != "Doc" || snap.Progress.RecordCount != 2 {
		t.Errorf("unexpected snapshot: title=%q count=%d", snap.Title, snap.Progress.RecordCount)
	}
	if snap.Records != nil {
		t.Error("records should be hidden until the job finishes")
	}

	job.SetStatus(StatusCompleted, "done")
	snap = job.Snapshot()
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records in completed snapshot, got %d", len(snap.Records))
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var decoded struct {
		Records []struct {
			Kind string `json:"kind"`
		} `json:"records"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Records) != 2 || decoded.Records[0].Kind != "heading" {
		t.Errorf("unexpected records JSON: %s", data)
	}
}

func TestJob_IndexProgress(t *testing.T) {
	job := &Job{ID: "idx", UpdatedAt: time.Now()}
	job.IncrIndexAttempts()
	job.IncrIndexAttempts()
	job.MarkIndexed()

	snap := job.Snapshot()
	if snap.Progress.IndexAttempts != 2 || !snap.Progress.Indexed {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now().Add(-time.Second)}
	store.Put(expired)
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestHashIndex(t *testing.T) {
	h := NewHashIndex()
	if owner, claimed := h.Claim("u1", "abc", "doc-1"); !claimed || owner != "doc-1" {
		t.Fatalf("first claim: owner=%q claimed=%v", owner, claimed)
	}
	if owner, claimed := h.Claim("u1", "abc", "doc-2"); claimed || owner != "doc-1" {
		t.Errorf("duplicate claim: owner=%q claimed=%v", owner, claimed)
	}
	if _, claimed := h.Claim("u2", "abc", "doc-3"); !claimed {
		t.Error("hashes are per user")
	}

	if !h.Forget("u1", "doc-1") {
		t.Error("expected forget to find doc-1")
	}
	if h.Forget("u1", "doc-1") {
		t.Error("second forget should find nothing")
	}
	if _, claimed := h.Claim("u1", "abc", "doc-4"); !claimed {
		t.Error("expected hash to be claimable after forget")
	}
}
