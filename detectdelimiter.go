package ibdprep

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// DetectDelimiters returns the candidate runes that consistently delimit the
// lines of sample, most likely first, assuming a CSV-like file. It returns nil
// when nothing stands out.
func DetectDelimiters(sample []byte) []rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')

	out := make([]rune, 0, len(delimiters))
	for _, v := range delimiters {
		if v == "" {
			continue
		}
		out = append(out, rune(v[0]))
	}

	return out
}
