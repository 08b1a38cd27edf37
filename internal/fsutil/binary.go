package fsutil

// BinarySampleSize is how many leading bytes of a file are inspected
// when deciding whether it is safe to treat as UTF-8 text.
const BinarySampleSize = 4096

// IsBinary reports whether a byte sample looks like binary content.
// Any NUL byte means binary; otherwise the sample is binary when more
// than 20% of it is control bytes other than TAB, LF, and CR.
//
// This is a heuristic, not a content-type authority. False positives
// and false negatives are acceptable; it exists to keep binary files
// out of the text editor round trip.
func IsBinary(sample []byte) bool {
	if len(sample) > BinarySampleSize {
		sample = sample[:BinarySampleSize]
	}
	if len(sample) == 0 {
		return false
	}
	nonPrintable := 0
	for _, c := range sample {
		if c == 0 {
			return true
		}
		if c < 32 && c != '\t' && c != '\n' && c != '\r' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.2
}
