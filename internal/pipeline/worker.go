package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zz2213/qinglong-txt-to-epub/internal/config"
	"github.com/zz2213/qinglong-txt-to-epub/internal/epubgen"
	"github.com/zz2213/qinglong-txt-to-epub/internal/notify"
	"github.com/zz2213/qinglong-txt-to-epub/internal/segment"
	"github.com/zz2213/qinglong-txt-to-epub/internal/source"
)

// coverNames are checked, in order, inside each book folder.
var coverNames = []string{"cover.jpg", "cover.jpeg", "cover.png"}

// Worker processes a single book conversion job.
type Worker struct {
	cfg       config.Config
	segmenter *segment.Segmenter
	builder   *epubgen.Builder
	bark      *notify.BarkClient
	log       *slog.Logger
}

func NewWorker(cfg config.Config, seg *segment.Segmenter, builder *epubgen.Builder, bark *notify.BarkClient, log *slog.Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		segmenter: seg,
		builder:   builder,
		bark:      bark,
		log:       log,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "book", job.Book)

	task := job.Task()
	paths := task.SourcePaths()
	dest := DestPath(w.cfg.DestDir, task.Book)

	if !NeedsUpdate(paths, dest) {
		log.Info("output is newer than all sources, skipping", "dest", dest)
		job.SetStatus(StatusUpToDate, "done")
		return
	}

	// Phase 1: read and decode every source file, oldest first.
	job.SetStatus(StatusReading, "reading")
	job.SetTotalSources(len(paths))

	texts := make([]string, 0, len(paths))
	for _, p := range paths {
		text, err := source.Read(p, w.cfg.ReadRetries, log)
		if err != nil {
			log.Error("read failed", "path", p, "error", err)
			job.AddError(fmt.Sprintf("read %s: %s", filepath.Base(p), err))
			continue
		}
		texts = append(texts, text)
		job.IncrSourcesRead()
	}
	if len(texts) == 0 {
		job.SetStatus(StatusFailed, "reading")
		w.notify(ctx, log, "转换失败", fmt.Sprintf("《%s》没有可读取的源文件", task.Book))
		return
	}

	// Phase 2: segment into chapters. Multiple sources are merged with
	// last-content-wins semantics and a forced final sort.
	job.SetStatus(StatusSegmenting, "segmenting")
	var chapters []segment.Chapter
	if len(texts) == 1 {
		chapters = w.segmenter.Segment(texts[0])
	} else {
		chapters = w.segmenter.Merge(texts, true)
	}
	job.SetChapters(len(chapters))
	log.Info("segmented book", "sources", len(texts), "chapters", len(chapters))

	// Phase 3: build the EPUB, retrying transient write failures.
	job.SetStatus(StatusBuilding, "building")
	if err := os.MkdirAll(w.cfg.DestDir, 0o755); err != nil {
		log.Error("create dest dir failed", "error", err)
		job.AddError(fmt.Sprintf("dest dir: %s", err))
		job.SetStatus(StatusFailed, "building")
		return
	}

	full := strings.Join(texts, "\n\n")
	cover := findCover(task.SourceDir)
	err := WithRetry(log, "build epub", w.cfg.WriteRetries, func() error {
		return w.builder.Build(task.Book, chapters, full, cover, dest)
	})
	if err != nil {
		log.Error("build failed", "dest", dest, "error", err)
		job.AddError(fmt.Sprintf("build: %s", err))
		job.SetStatus(StatusFailed, "building")
		w.notify(ctx, log, "转换失败", fmt.Sprintf("《%s》生成出错: %s", task.Book, err))
		return
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete", "dest", dest, "chapters", len(chapters))
	w.notify(ctx, log, "转换完成", fmt.Sprintf("《%s》已生成, 共 %d 章", task.Book, len(chapters)))
}

func (w *Worker) notify(ctx context.Context, log *slog.Logger, title, body string) {
	if err := w.bark.Push(ctx, title, body); err != nil {
		log.Warn("push notification failed", "error", err)
	}
}

// findCover returns the first cover image present in dir, or "".
func findCover(dir string) string {
	for _, name := range coverNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}
