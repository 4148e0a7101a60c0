package pipeline

import (
	"testing"
	"time"
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

func TestNewJobID_Shape(t *testing.T) {
	id := NewJobID("诡秘之主")
	if len(id) != 20 {
		t.Errorf("expected 20-char job id, got %d chars: %q", len(id), id)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(Task{Book: "test-book"})
	if job.Status != StatusQueued {
		t.Fatalf("expected new job to be queued, got %q", job.Status)
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusReading, "reading"},
		{StatusSegmenting, "segmenting"},
		{StatusBuilding, "building"},
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

func TestJob_AddError(t *testing.T) {
	job := NewJob(Task{Book: "err-book"})
	job.AddError("read part1.txt: timeout")
	job.AddError("read part2.txt: timeout")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "read part1.txt: timeout" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := NewJob(Task{Book: "count-book"})
	job.SetTotalSources(3)
	job.IncrSourcesRead()
	job.IncrSourcesRead()
	job.SetChapters(42)

	snap := job.Snapshot()
	if snap.Progress.TotalSources != 3 {
		t.Errorf("expected 3 total sources, got %d", snap.Progress.TotalSources)
	}
	if snap.Progress.SourcesRead != 2 {
		t.Errorf("expected 2 sources read, got %d", snap.Progress.SourcesRead)
	}
	if snap.Progress.Chapters != 42 {
		t.Errorf("expected 42 chapters, got %d", snap.Progress.Chapters)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob(Task{Book: "snap-book"})
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
	job := NewJob(Task{Book: "store-book"})
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.Book != "store-book" {
		t.Errorf("expected book %q, got %q", "store-book", got.Book)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_ActiveFor(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob(Task{Book: "busy-book"})
	store.Put(job)

	if !store.ActiveFor("busy-book") {
		t.Error("expected queued job to count as active")
	}
	if store.ActiveFor("other-book") {
		t.Error("expected unrelated book to be inactive")
	}

	job.SetStatus(StatusCompleted, "done")
	if store.ActiveFor("busy-book") {
		t.Error("expected completed job to be inactive")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(Task{Book: "old-book"})
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob(Task{Book: "new-book"})
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
