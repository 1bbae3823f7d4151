package geneticmap

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/ibdprep"
)

// Query is a variant whose genetic distance is wanted.
type Query struct {
	Chromosome string
	ID         string
	Position   int64
}

// BuildQueryPositions writes the chromosome, id and position of every variant
// in hapsFile to queryFile, tab-delimited, in file order. The .haps file is
// assumed to be sorted by position already.
func BuildQueryPositions(hapsFile, queryFile string) error {
	haps, err := ibdprep.OpenHAPS(hapsFile)
	if err != nil {
		return err
	}
	defer haps.Close()

	out, err := os.Create(queryFile)
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: queryFile, Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for row := haps.ReadSite(); row != nil; row = haps.ReadSite() {
		w.WriteString(strings.Join([]string{row.Chromosome, row.VariantID, strconv.FormatInt(row.Position, 10)}, "\t"))
		w.WriteByte('\n')
	}
	if err := haps.Err(); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return &ibdprep.IOError{Op: "write", Path: queryFile, Err: err}
	}

	if err := out.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: queryFile, Err: err}
	}

	return nil
}

// ReadQueryPositions reads a file written by BuildQueryPositions.
func ReadQueryPositions(queryFile string) ([]Query, error) {
	f, err := os.Open(queryFile)
	if err != nil {
		return nil, &ibdprep.IOError{Op: "open", Path: queryFile, Err: err}
	}
	defer f.Close()

	queries := make([]Query, 0)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		cols := strings.Fields(scanner.Text())
		if len(cols) == 0 {
			continue
		}
		if len(cols) != 3 {
			return nil, ibdprep.NewSchemaError(queryFile, line, "expected 3 columns (chromosome, id, position), found %d", len(cols))
		}

		pos, err := strconv.ParseInt(cols[2], 10, 64)
		if err != nil {
			return nil, ibdprep.NewSchemaError(queryFile, line, "position %q is not an integer", cols[2])
		}

		queries = append(queries, Query{Chromosome: cols[0], ID: cols[1], Position: pos})
	}
	if err := scanner.Err(); err != nil {
		return nil, &ibdprep.IOError{Op: "read", Path: queryFile, Err: err}
	}

	return queries, nil
}
