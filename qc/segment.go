package qc

import (
	"bufio"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/ibdprep"
)

// Map columns in an iLASH match file to their positions
const (
	FamilyID1 int = iota
	IndividualID1
	FamilyID2
	IndividualID2
	Chromosome
	StartBP
	EndBP
	StartSNP
	EndSNP
	LengthCM
	Score
)

// Segment is one IBD segment reported by iLASH.
type Segment struct {
	FamilyID1     string
	IndividualID1 string
	FamilyID2     string
	IndividualID2 string
	Chromosome    string
	StartBP       int64
	EndBP         int64
	StartSNP      string
	EndSNP        string
	LengthCM      float64
	Score         float64 // NaN when the column is absent
}

// Individual1 and Individual2 are the "FID:IID" labels of the two sides.
func (s Segment) Individual1() string {
	return s.FamilyID1 + ":" + s.IndividualID1
}

func (s Segment) Individual2() string {
	return s.FamilyID2 + ":" + s.IndividualID2
}

func parseSegment(path string, line int, cols []string) (Segment, error) {
	if len(cols) < LengthCM+1 {
		return Segment{}, ibdprep.NewSchemaError(path, line, "expected at least %d columns, found %d", LengthCM+1, len(cols))
	}

	s := Segment{
		FamilyID1:     cols[FamilyID1],
		IndividualID1: cols[IndividualID1],
		FamilyID2:     cols[FamilyID2],
		IndividualID2: cols[IndividualID2],
		Chromosome:    cols[Chromosome],
		StartSNP:      cols[StartSNP],
		EndSNP:        cols[EndSNP],
	}

	var err error
	if s.StartBP, err = strconv.ParseInt(cols[StartBP], 10, 64); err != nil {
		return s, ibdprep.NewSchemaError(path, line, "start position %q is not an integer", cols[StartBP])
	}
	if s.EndBP, err = strconv.ParseInt(cols[EndBP], 10, 64); err != nil {
		return s, ibdprep.NewSchemaError(path, line, "end position %q is not an integer", cols[EndBP])
	}
	if s.LengthCM, err = strconv.ParseFloat(cols[LengthCM], 64); err != nil {
		return s, ibdprep.NewSchemaError(path, line, "segment length %q is not a number", cols[LengthCM])
	}

	s.Score = nan()
	if len(cols) > Score {
		if s.Score, err = strconv.ParseFloat(cols[Score], 64); err != nil {
			return s, ibdprep.NewSchemaError(path, line, "score %q is not a number", cols[Score])
		}
	}

	return s, nil
}

// ScanSegments calls fn with every segment of a match file and the raw line it
// came from, stopping at the first error.
func ScanSegments(path string, fn func(s Segment, raw string) error) error {
	rc, err := ibdprep.OpenMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		cols := strings.Fields(raw)
		if len(cols) == 0 {
			continue
		}

		s, err := parseSegment(path, line, cols)
		if err != nil {
			return err
		}
		if err := fn(s, raw); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &ibdprep.IOError{Op: "read", Path: path, Err: err}
	}

	return nil
}

// ReadSegments loads every segment of a match file.
func ReadSegments(path string) ([]Segment, error) {
	segments := make([]Segment, 0)
	err := ScanSegments(path, func(s Segment, _ string) error {
		segments = append(segments, s)
		return nil
	})

	return segments, err
}

func nan() float64 {
	return math.NaN()
}
