package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zz2213/qinglong-txt-to-epub/internal/config"
	"github.com/zz2213/qinglong-txt-to-epub/internal/epubgen"
	"github.com/zz2213/qinglong-txt-to-epub/internal/segment"
)

func testWorker(cfg config.Config) *Worker {
	log := discardLogger()
	return NewWorker(cfg, segment.New(segment.Options{}, log), epubgen.New("tester", "zh", log), nil, log)
}

func TestWorker_SkipsFreshOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "txts", "book", "part1.txt")
	dest := filepath.Join(dir, "epubs", "book.epub")
	writeFile(t, src, "第一章 起点\n内容")
	writeFile(t, dest, "already built")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(dest, future, future); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		SourceDir: filepath.Join(dir, "txts"),
		DestDir:   filepath.Join(dir, "epubs"),
	}
	job := NewJob(Task{Book: "book", SourceDir: filepath.Dir(src), Files: []string{"part1.txt"}})
	testWorker(cfg).Process(context.Background(), job)

	if job.Status != StatusUpToDate {
		t.Errorf("expected status %q, got %q", StatusUpToDate, job.Status)
	}
}

func TestWorker_FailsWithoutReadableSources(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		SourceDir: dir,
		DestDir:   filepath.Join(dir, "epubs"),
	}
	job := NewJob(Task{Book: "ghost", SourceDir: dir, Files: []string{"missing.txt"}})
	testWorker(cfg).Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
	if snap := job.Snapshot(); len(snap.Progress.Errors) == 0 {
		t.Error("expected read error to be recorded")
	}
}

func TestFindCover(t *testing.T) {
	dir := t.TempDir()
	if findCover(dir) != "" {
		t.Error("expected empty path when no cover exists")
	}
	writeFile(t, filepath.Join(dir, "cover.png"), "png")
	writeFile(t, filepath.Join(dir, "cover.jpg"), "jpg")
	if got := findCover(dir); got != filepath.Join(dir, "cover.jpg") {
		t.Errorf("expected cover.jpg to win, got %q", got)
	}
}
