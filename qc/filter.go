package qc

import (
	"bufio"
	"os"

	"github.com/carbocation/ibdprep"
	"github.com/montanaflynn/stats"
)

// Filter copies the segments of inFile that are at least minCM long to
// outFile, unchanged, and summarizes what was kept.
func Filter(inFile, outFile string, minCM float64) (Report, error) {
	report := Report{Source: inFile, MinLengthCM: minCM}

	out, err := os.Create(outFile)
	if err != nil {
		return report, &ibdprep.IOError{Op: "create", Path: outFile, Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	kept := make(stats.Float64Data, 0)
	pairs := make(map[[2]string]struct{})

	err = ScanSegments(inFile, func(s Segment, raw string) error {
		report.SegmentsRead++
		if s.LengthCM < minCM {
			report.SegmentsDropped++
			return nil
		}

		kept = append(kept, s.LengthCM)
		pairs[pairKey(s.Individual1(), s.Individual2())] = struct{}{}

		w.WriteString(raw)
		return w.WriteByte('\n')
	})
	if err != nil {
		return report, err
	}

	if err := w.Flush(); err != nil {
		return report, &ibdprep.IOError{Op: "write", Path: outFile, Err: err}
	}
	if err := out.Close(); err != nil {
		return report, &ibdprep.IOError{Op: "close", Path: outFile, Err: err}
	}

	report.SegmentsKept = len(kept)
	report.RelatedPairs = len(pairs)
	if err := report.summarize(kept); err != nil {
		return report, err
	}

	return report, nil
}

// pairKey orders two labels so that (a, b) and (b, a) are the same pair.
func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
