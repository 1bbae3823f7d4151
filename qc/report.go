package qc

import (
	"os"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
)

// Report summarizes one QC pass over a match file.
type Report struct {
	Source          string  `csv:"source"`
	MinLengthCM     float64 `csv:"min_length_cm"`
	SegmentsRead    int     `csv:"segments_read"`
	SegmentsKept    int     `csv:"segments_kept"`
	SegmentsDropped int     `csv:"segments_dropped"`
	RelatedPairs    int     `csv:"related_pairs"`
	TotalCM         float64 `csv:"total_cm"`
	MeanCM          float64 `csv:"mean_cm"`
	MedianCM        float64 `csv:"median_cm"`
	MaxCM           float64 `csv:"max_cm"`
}

// summarize fills the length statistics. With nothing kept they stay zero.
func (r *Report) summarize(lengths stats.Float64Data) error {
	if len(lengths) == 0 {
		return nil
	}

	var err error
	if r.TotalCM, err = stats.Sum(lengths); err != nil {
		return pfx.Err(err)
	}
	if r.MeanCM, err = stats.Mean(lengths); err != nil {
		return pfx.Err(err)
	}
	if r.MedianCM, err = stats.Median(lengths); err != nil {
		return pfx.Err(err)
	}
	if r.MaxCM, err = stats.Max(lengths); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteReport writes r as a one-row CSV file with a header.
func WriteReport(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: path, Err: err}
	}
	defer f.Close()

	rows := []*Report{&r}
	if err := gocsv.Marshal(&rows, f); err != nil {
		return &ibdprep.IOError{Op: "write", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: path, Err: err}
	}

	return nil
}
