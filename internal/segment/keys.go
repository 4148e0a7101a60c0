package segment

import (
	"math"
	"regexp"

	"github.com/zz2213/qinglong-txt-to-epub/internal/classify"
	"github.com/zz2213/qinglong-txt-to-epub/internal/cnum"
)

// Key sub-patterns are distinct from the classifier's heading rules: they
// capture the numeral token for conversion. Searches are unanchored so an
// inserted marker prefix does not interfere.
var (
	volumeKeyRe  = regexp.MustCompile(`第\s*([0-9` + classify.CJKNumerals + `]+)\s*卷(?:\s|$)`)
	chapterKeyRe = regexp.MustCompile(`第\s*([0-9` + classify.CJKNumerals + `]+)\s*[章回节集](?:\s|$)`)
)

// assignKeys computes each chapter's sort key from its title. A volume match
// sets the carried-forward volume and forces the chapter component to the
// minimum, so volume headers sort before their first chapter. A chapter
// match sets the chapter number. Conversion failures degrade to the
// carried-forward volume or the +Inf sentinel, never abort the pass.
func (s *Segmenter) assignKeys(chapters []Chapter) {
	currentVolume := 0
	for i := range chapters {
		ch := &chapters[i]
		if ch.Title == TitleFrontMatter || ch.Title == TitleBody {
			// Synthetic records keep their fixed keys.
			continue
		}

		volume, chapter := currentVolume, math.Inf(1)

		if m := volumeKeyRe.FindStringSubmatch(ch.Title); m != nil {
			if n, err := cnum.Parse(m[1]); err == nil {
				volume = n
				chapter = 0
			} else {
				s.log.Warn("volume numeral conversion failed",
					"title", ch.Title, "numeral", m[1], "error", err)
			}
		}

		if m := chapterKeyRe.FindStringSubmatch(ch.Title); m != nil {
			if n, err := cnum.Parse(m[1]); err == nil {
				chapter = float64(n)
			} else {
				s.log.Warn("chapter numeral conversion failed",
					"title", ch.Title, "numeral", m[1], "error", err)
			}
		}

		if volume > 0 {
			currentVolume = volume
		}
		ch.Key = SortKey{Volume: volume, Chapter: chapter}
	}
}
