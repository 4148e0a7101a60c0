package segment

// orderedChapters is an insertion-order-preserving title → chapter map. It
// carries the merge invariant directly: a title's position is fixed by its
// first insertion, while Set on an existing title only replaces the stored
// record.
type orderedChapters struct {
	chapters []Chapter
	index    map[string]int
}

func newOrderedChapters() *orderedChapters {
	return &orderedChapters{index: make(map[string]int)}
}

func (o *orderedChapters) get(title string) (Chapter, bool) {
	i, ok := o.index[title]
	if !ok {
		return Chapter{}, false
	}
	return o.chapters[i], true
}

func (o *orderedChapters) set(ch Chapter) {
	if i, ok := o.index[ch.Title]; ok {
		o.chapters[i] = ch
		return
	}
	o.index[ch.Title] = len(o.chapters)
	o.chapters = append(o.chapters, ch)
}

func (o *orderedChapters) values() []Chapter {
	out := make([]Chapter, len(o.chapters))
	copy(out, o.chapters)
	return out
}

// Merge combines multiple source texts of the same logical book into one
// chapter list. Sources must arrive pre-sorted oldest→newest by the caller;
// each is segmented independently and merged by title: the first source to
// produce a title fixes its position, later sources overwrite its body.
// This lets a newer file replace a chapter an older file already emitted
// while keeping structural order stable.
//
// Output is sorted by sort key when forceSort or the configured sorting
// toggle is set; otherwise it keeps first-seen encounter order.
func (s *Segmenter) Merge(sources []string, forceSort bool) []Chapter {
	merged := newOrderedChapters()
	for _, src := range sources {
		for _, ch := range s.segment(src, false) {
			if existing, ok := merged.get(ch.Title); ok {
				existing.Body = ch.Body // last content wins
				merged.set(existing)
				continue
			}
			merged.set(ch)
		}
	}

	out := merged.values()
	if forceSort || s.opts.Sort {
		sortChapters(out)
	}
	return out
}
