package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zz2213/qinglong-txt-to-epub/internal/config"
	"github.com/zz2213/qinglong-txt-to-epub/internal/epubgen"
	"github.com/zz2213/qinglong-txt-to-epub/internal/notify"
	"github.com/zz2213/qinglong-txt-to-epub/internal/segment"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrJobInFlight  = errors.New("book already has a job in flight")
)

// Orchestrator manages the book conversion pipeline: a bounded job
// queue, a fixed worker pool, and a periodic scan of the source folder.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	segmenter *segment.Segmenter
	builder   *epubgen.Builder
	bark      *notify.BarkClient
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipeline; call Start to launch it.
func NewOrchestrator(cfg config.Config, bark *notify.BarkClient, log *slog.Logger) *Orchestrator {
	seg := segment.New(segment.Options{
		Mode:             segment.Mode(cfg.DetectionMode),
		DoubleBlankSplit: cfg.DoubleBlankSplit,
		InsertMarker:     cfg.InsertMarker,
		Marker:           cfg.Marker,
		Sort:             cfg.EnableSorting,
		DedupeWindow:     cfg.DedupeWindow,
	}, log)
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		segmenter: seg,
		builder:   epubgen.New(cfg.Author, cfg.Language, log),
		bark:      bark,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines, the cleanup loop, and the scanner.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.cfg, o.segmenter, o.builder, o.bark, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()

	// Periodic source folder scan.
	if o.cfg.ScanInterval > 0 {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			if _, err := o.ScanAndSubmit(); err != nil {
				o.log.Error("initial scan failed", "error", err)
			}
			ticker := time.NewTicker(o.cfg.ScanInterval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					if _, err := o.ScanAndSubmit(); err != nil {
						o.log.Error("scan failed", "error", err)
					}
				}
			}
		}()
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// ScanAndSubmit scans the source folder and queues a job for every book
// that has no active job. Returns the number of jobs submitted.
func (o *Orchestrator) ScanAndSubmit() (int, error) {
	tasks, err := ScanTasks(o.cfg.SourceDir, o.log)
	if err != nil {
		return 0, err
	}
	submitted := 0
	for _, task := range tasks {
		if o.jobs.ActiveFor(task.Book) {
			continue
		}
		if err := o.Submit(NewJob(task)); err != nil {
			o.log.Warn("submit failed", "book", task.Book, "error", err)
			continue
		}
		submitted++
	}
	if submitted > 0 {
		o.log.Info("scan submitted jobs", "count", submitted, "books", len(tasks))
	}
	return submitted, nil
}

// SubmitBook scans the source folder for one named book and queues it.
func (o *Orchestrator) SubmitBook(book string) (*Job, error) {
	tasks, err := ScanTasks(o.cfg.SourceDir, o.log)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.Book != book {
			continue
		}
		if o.jobs.ActiveFor(book) {
			return nil, fmt.Errorf("%w: %q", ErrJobInFlight, book)
		}
		job := NewJob(task)
		if err := o.Submit(job); err != nil {
			return nil, err
		}
		return job, nil
	}
	return nil, fmt.Errorf("%w: %q under %s", ErrBookNotFound, book, o.cfg.SourceDir)
}

// ActiveFor reports whether the named book has a queued or running job.
func (o *Orchestrator) ActiveFor(book string) bool {
	return o.jobs.ActiveFor(book)
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Books lists the scanned tasks, for the API listing endpoint.
func (o *Orchestrator) Books() ([]Task, error) {
	return ScanTasks(o.cfg.SourceDir, o.log)
}
