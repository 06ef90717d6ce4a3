package services

// DefaultSnippetRadius is the number of context runes shown on each side of
// a span.
const DefaultSnippetRadius = 30

// Snippet renders a span in its surrounding context: up to radius runes of
// left context, the span substring bracketed by literal [ and ] markers,
// then up to radius runes of right context. It is derived from the current
// document text at read time and never persisted, so it always reflects the
// latest edits. Out-of-range offsets are clamped to the text bounds.
func Snippet(text string, start, end, radius int) string {
	r := []rune(text)
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start > end {
		start = end
	}

	left := start - radius
	if left < 0 {
		left = 0
	}
	right := end + radius
	if right > len(r) {
		right = len(r)
	}

	return string(r[left:start]) + "[" + string(r[start:end]) + "]" + string(r[end:right])
}
