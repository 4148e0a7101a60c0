package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusReading    JobStatus = "reading"
	StatusSegmenting JobStatus = "segmenting"
	StatusBuilding   JobStatus = "building"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusUpToDate   JobStatus = "up_to_date"
)

// Job tracks the state of a single book conversion.
type Job struct {
	mu sync.Mutex

	ID   string `json:"job_id"`
	Book string `json:"book"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	task   Task
	errors []string
}

// NewJob creates a queued job for a scanned task.
func NewJob(task Task) *Job {
	now := time.Now()
	return &Job{
		ID:        NewJobID(task.Book),
		Book:      task.Book,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		task:      task,
	}
}

// Progress tracks conversion progress.
type Progress struct {
	TotalSources int      `json:"total_sources"`
	SourcesRead  int      `json:"sources_read"`
	Chapters     int      `json:"chapters"`
	Errors       []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// ActiveFor reports whether a job for the given book is still queued or
// in flight, so a scan pass does not enqueue the same book twice.
func (s *JobStore) ActiveFor(book string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.Book != book {
			continue
		}
		switch job.snapshotStatus() {
		case StatusQueued, StatusReading, StatusSegmenting, StatusBuilding:
			return true
		}
	}
	return false
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// Task returns the underlying scan task.
func (j *Job) Task() Task {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.task
}

func (j *Job) snapshotStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalSources records the number of source files to read.
func (j *Job) SetTotalSources(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSources = n
	j.UpdatedAt = time.Now()
}

// IncrSourcesRead atomically increments the read counter.
func (j *Job) IncrSourcesRead() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SourcesRead++
	j.UpdatedAt = time.Now()
}

// SetChapters records the segmented chapter count.
func (j *Job) SetChapters(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chapters = n
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Book     string    `json:"book"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Book:   j.Book,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalSources: j.Progress.TotalSources,
			SourcesRead:  j.Progress.SourcesRead,
			Chapters:     j.Progress.Chapters,
			Errors:       errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// NewJobID derives a short job identifier from the book name and the
// submission time.
func NewJobID(book string) string {
	return ContentHashHex(fmt.Appendf(nil, "%s-%d", book, time.Now().UnixNano()))[:20]
}
