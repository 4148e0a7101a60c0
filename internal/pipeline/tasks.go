package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/zz2213/qinglong-txt-to-epub/internal/source"
)

// Task is one book folder under the source directory, with its source
// files ordered oldest-to-newest by modification time.
type Task struct {
	Book      string   // folder name, used as the EPUB title
	SourceDir string   // absolute or config-relative folder path
	Files     []string // file names within SourceDir, recency-ordered
}

// SourcePaths returns the full paths of the task's files, in order.
func (t Task) SourcePaths() []string {
	paths := make([]string, len(t.Files))
	for i, f := range t.Files {
		paths[i] = filepath.Join(t.SourceDir, f)
	}
	return paths
}

// DestPath returns the output path for a book under destDir.
func DestPath(destDir, book string) string {
	return filepath.Join(destDir, book+".epub")
}

// ScanTasks walks the first level of sourceDir. Every subdirectory that
// contains at least one supported source file becomes a Task. Files
// directly under sourceDir are ignored; a book is always a folder.
func ScanTasks(sourceDir string, log *slog.Logger) ([]Task, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source dir %s: %w", sourceDir, err)
	}

	var tasks []Task
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(sourceDir, e.Name())
		files, err := listSourceFiles(dir)
		if err != nil {
			log.Warn("skipping unreadable book folder", "dir", dir, "error", err)
			continue
		}
		if len(files) == 0 {
			continue
		}
		tasks = append(tasks, Task{
			Book:      e.Name(),
			SourceDir: dir,
			Files:     orderByRecency(dir, files),
		})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Book < tasks[j].Book })
	return tasks, nil
}

func listSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if source.IsSupportedExtension(e.Name()) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// orderByRecency sorts file names by modification time, oldest first,
// so newer files override earlier ones during chapter merging. Ties
// fall back to a natural-order name comparison ("ch2" before "ch10").
func orderByRecency(dir string, files []string) []string {
	type entry struct {
		name  string
		mtime int64
	}
	ordered := make([]entry, 0, len(files))
	for _, f := range files {
		var mtime int64
		if fi, err := os.Stat(filepath.Join(dir, f)); err == nil {
			mtime = fi.ModTime().UnixNano()
		}
		ordered = append(ordered, entry{name: f, mtime: mtime})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].mtime != ordered[j].mtime {
			return ordered[i].mtime < ordered[j].mtime
		}
		return naturalLess(ordered[i].name, ordered[j].name)
	})
	out := make([]string, len(ordered))
	for i, e := range ordered {
		out[i] = e.name
	}
	return out
}

// naturalLess compares strings treating digit runs as numbers, so
// "part2.txt" sorts before "part10.txt".
func naturalLess(a, b string) bool {
	ta, tb := naturalTokens(a), naturalTokens(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		x, y := ta[i], tb[i]
		if x == y {
			continue
		}
		xn, yn := isDigits(x), isDigits(y)
		if xn && yn {
			// Strip leading zeros; longer run of digits is larger.
			x, y = strings.TrimLeft(x, "0"), strings.TrimLeft(y, "0")
			if len(x) != len(y) {
				return len(x) < len(y)
			}
		}
		return x < y
	}
	return len(ta) < len(tb)
}

func naturalTokens(s string) []string {
	s = strings.ToLower(s)
	var tokens []string
	start := 0
	prevDigit := false
	for i, r := range s {
		digit := unicode.IsDigit(r)
		if i > 0 && digit != prevDigit {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevDigit = digit
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// NeedsUpdate reports whether dest is missing or older than any of the
// source files. Unreadable sources count as changed.
func NeedsUpdate(sources []string, dest string) bool {
	di, err := os.Stat(dest)
	if err != nil {
		return true
	}
	for _, src := range sources {
		si, err := os.Stat(src)
		if err != nil || si.ModTime().After(di.ModTime()) {
			return true
		}
	}
	return false
}
