package source

import "strings"

// TextExtractor handles plain text files: decode to UTF-8 and normalize
// line endings, nothing else. Chapter structure is the segmenter's job.
type TextExtractor struct{}

func (e *TextExtractor) Extract(data []byte, filename string) (string, error) {
	text, err := DecodeText(data)
	if err != nil {
		return "", err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
