package content

// Hash32 computes the 32-bit polynomial rolling hash used for all
// deterministic content selection:
//
//	h = h*31 + codepoint, wrapped to a signed 32-bit integer.
//
// The algorithm is fixed on purpose. Selection results must be stable
// across processes, runtimes, and releases because the UI persists and
// re-displays the selected text; a language-default hash would not
// guarantee that.
func Hash32(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// bucketIndex maps a hash onto a bucket slot. Negative hashes index by
// magnitude; the int32 minimum is folded to zero to avoid overflowing
// on negation.
func bucketIndex(h int32, size int) int {
	if size <= 0 {
		return 0
	}
	if h == -2147483648 {
		h = 0
	}
	if h < 0 {
		h = -h
	}
	return int(h) % size
}
