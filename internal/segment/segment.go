// Package segment converts loosely-structured novel text into an ordered
// list of chapters. It walks the input line by line, splits on recognized
// headings and/or double blank lines, de-duplicates repeated headings,
// assigns each chapter a sortable (volume, chapter) key, and optionally
// reorders by that key.
package segment

import (
	"bufio"
	"log/slog"
	"sort"
	"strings"

	"github.com/zz2213/qinglong-txt-to-epub/internal/classify"
)

// Mode selects how chapter boundaries are detected.
type Mode string

const (
	// ModePatternAndBlank runs heading patterns and double-blank-line
	// splitting together. This is the default.
	ModePatternAndBlank Mode = "pattern+blankline"
	// ModePatternOnly runs heading patterns; blank lines are always
	// intra-chapter spacing and never split.
	ModePatternOnly Mode = "pattern"
	// ModeBlankLineOnly suppresses heading patterns entirely; only double
	// blank lines create boundaries.
	ModeBlankLineOnly Mode = "blankline"
)

// Synthetic titles for content the source never labeled.
const (
	TitleFrontMatter = "前言"
	TitleBody        = "正文"
)

// SortKey orders chapters for reading: volume first, then chapter number.
// Chapter is math.Inf(1) when the title carries no explicit chapter number,
// so unnumbered chapters sort after numbered ones within their volume.
type SortKey struct {
	Volume  int
	Chapter float64
}

// Chapter is one logical chapter: the heading line (possibly with an
// inserted marker), the newline-joined body, and the sort key. Chapters are
// never mutated once returned; dedupe and sort build new slices.
type Chapter struct {
	Title string
	Body  string
	Key   SortKey
}

// Options is the fixed, read-only configuration for one segmentation pass.
type Options struct {
	Mode             Mode
	DoubleBlankSplit bool   // ignored when Mode forbids blank-line splitting
	InsertMarker     bool   // prepend Marker to detected heading titles
	Marker           string // the prefix to insert
	Sort             bool   // reorder output by sort key
	// DedupeWindow collapses a heading line into the previous chapter when
	// it follows the previous heading within this many runes with nothing
	// but whitespace in between. 0 disables the collapse; back-to-back
	// headings then surface as empty chapters and are dropped by dedupe.
	DedupeWindow int
}

// Segmenter runs segmentation passes with a fixed Options bundle.
type Segmenter struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options, log *slog.Logger) *Segmenter {
	if opts.Mode == "" {
		opts.Mode = ModePatternAndBlank
	}
	if opts.Marker == "" {
		opts.Marker = "#"
	}
	return &Segmenter{opts: opts, log: log}
}

// rawChapter is an in-progress buffer flushed by the state machine.
// headed records whether the buffer was seeded by a detected heading line.
type rawChapter struct {
	lines  []string
	headed bool
}

// Segment splits content into chapters, honoring the configured detection
// mode and sort toggle.
func (s *Segmenter) Segment(content string) []Chapter {
	return s.segment(content, s.opts.Sort)
}

func (s *Segmenter) segment(content string, sorted bool) []Chapter {
	if strings.TrimSpace(content) == "" {
		// Degrade to a single placeholder so rendering always has a section.
		return []Chapter{{Title: TitleBody, Key: SortKey{0, 1}}}
	}

	raw := s.split(content)
	chapters := s.finalize(raw)
	s.assignKeys(chapters)
	chapters = dedupe(chapters)

	if len(chapters) == 0 {
		// Every record was empty-bodied (e.g. the input was only heading
		// lines). Fall back to one undifferentiated chapter.
		s.log.Info("no usable chapters after dedupe, using body fallback")
		return []Chapter{{Title: TitleBody, Body: strings.TrimSpace(content), Key: SortKey{0, 1}}}
	}

	if sorted {
		sortChapters(chapters)
	}
	return chapters
}

// split is the line-driven state machine. There is always a current buffer;
// it flushes on a heading match or, when enabled, on exactly two consecutive
// blank lines.
func (s *Segmenter) split(content string) []rawChapter {
	usePattern := s.opts.Mode != ModeBlankLineOnly
	useBlank := s.opts.Mode == ModeBlankLineOnly ||
		(s.opts.Mode == ModePatternAndBlank && s.opts.DoubleBlankSplit)

	var out []rawChapter
	var buf []string
	headed := false
	blankRun := 0

	// Rune distance since the last detected heading, for DedupeWindow.
	sinceHeading := -1

	flush := func() {
		if len(buf) > 0 {
			out = append(out, rawChapter{lines: buf, headed: headed})
		}
		buf = nil
		headed = false
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			blankRun++
			if useBlank && blankRun == 2 && len(buf) > 0 {
				flush()
				blankRun = 0
			} else if len(buf) > 0 {
				// Keep paragraph spacing for the renderer.
				buf = append(buf, "")
			}
			continue
		}

		blankRun = 0
		if usePattern {
			if isHeading, canonical := classify.Classify(line); isHeading {
				if s.opts.DedupeWindow > 0 && sinceHeading >= 0 &&
					sinceHeading <= s.opts.DedupeWindow && bodyEmpty(buf) {
					// A second heading immediately after the previous one:
					// treat it as content of the current chapter.
					buf = append(buf, line)
					sinceHeading += len([]rune(line))
					continue
				}
				title := canonical
				if s.opts.InsertMarker && !strings.HasPrefix(title, s.opts.Marker) {
					title = s.opts.Marker + title
				}
				flush()
				buf = []string{title}
				headed = true
				sinceHeading = 0
				continue
			}
		}

		buf = append(buf, line)
		if sinceHeading >= 0 {
			sinceHeading += len([]rune(line))
		}
	}

	flush()
	return out
}

// bodyEmpty reports whether a heading-seeded buffer has accumulated no
// content beyond its heading line.
func bodyEmpty(buf []string) bool {
	for i, line := range buf {
		if i == 0 {
			continue
		}
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// finalize turns raw buffers into titled chapter records. Heading-seeded
// buffers use the heading as title and the rest as body. The leading buffer
// before the first heading becomes front matter; blank-split buffers are
// labeled by their first line but keep it in the body. When no heading was
// detected anywhere and nothing split, the whole input is one body chapter.
func (s *Segmenter) finalize(raw []rawChapter) []Chapter {
	anyHeaded := false
	for _, r := range raw {
		if r.headed {
			anyHeaded = true
			break
		}
	}

	if !anyHeaded && len(raw) == 1 {
		s.log.Info("no chapter headings detected, using single body chapter")
		return []Chapter{{
			Title: TitleBody,
			Body:  joinBody(raw[0].lines),
			Key:   SortKey{0, 1},
		}}
	}

	chapters := make([]Chapter, 0, len(raw))
	for i, r := range raw {
		var ch Chapter
		switch {
		case r.headed:
			ch = Chapter{Title: r.lines[0], Body: joinBody(r.lines[1:])}
		case i == 0 && anyHeaded:
			ch = Chapter{Title: TitleFrontMatter, Body: joinBody(r.lines), Key: SortKey{0, 0}}
		default:
			// Blank-line split with no heading: label by first line, keep it
			// in the body so no content is lost.
			ch = Chapter{Title: r.lines[0], Body: joinBody(r.lines)}
		}
		chapters = append(chapters, ch)
	}
	return chapters
}

// joinBody joins buffered lines, preserving interior blank lines but
// trimming the trailing ones left behind by blank-line counting.
func joinBody(lines []string) string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}

// dedupe collapses to one record per unique title, keeping the first
// occurrence, and drops records with empty or whitespace-only bodies
// (back-to-back headings are an expected degenerate case, not an error).
func dedupe(chapters []Chapter) []Chapter {
	seen := make(map[string]struct{}, len(chapters))
	out := make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if strings.TrimSpace(ch.Body) == "" {
			continue
		}
		if _, dup := seen[ch.Title]; dup {
			continue
		}
		seen[ch.Title] = struct{}{}
		out = append(out, ch)
	}
	return out
}

// sortChapters stably sorts by volume, then chapter. Stability preserves
// encounter order for chapters sharing the +Inf sentinel.
func sortChapters(chapters []Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		a, b := chapters[i].Key, chapters[j].Key
		if a.Volume != b.Volume {
			return a.Volume < b.Volume
		}
		return a.Chapter < b.Chapter
	})
}
