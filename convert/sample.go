package convert

import (
	"bufio"
	"os"
	"strings"

	"github.com/carbocation/ibdprep"
)

// MissingColumn is the per-sample missingness column of a .sample file. It has
// no counterpart in a .fam file.
const MissingColumn = "missing"

// SampleTable is a .sample file with its units row removed.
type SampleTable struct {
	Header []string
	Rows   [][]string
}

// ReadSampleTable reads a whitespace-delimited sample table. The first line is
// the header and the second is a units/type row, which is discarded.
func ReadSampleTable(path string) (*SampleTable, error) {
	rc, err := ibdprep.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table := &SampleTable{}
	scanner := bufio.NewScanner(rc)
	line, nonBlank := 0, 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		nonBlank++

		switch {
		case nonBlank == 1:
			table.Header = fields
		case nonBlank == 2:
			// Units row, e.g. "0 0 0 D"
		case len(fields) != len(table.Header):
			return nil, ibdprep.NewSchemaError(path, line, "expected %d columns like the header, found %d", len(table.Header), len(fields))
		default:
			table.Rows = append(table.Rows, fields)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ibdprep.IOError{Op: "read", Path: path, Err: err}
	}

	if table.Header == nil {
		return nil, ibdprep.NewSchemaError(path, 0, "no header row found")
	}

	return table, nil
}

// Column returns the index of the named header column, or -1.
func (t *SampleTable) Column(name string) int {
	for i, v := range t.Header {
		if v == name {
			return i
		}
	}
	return -1
}

// ProjectSampleToFam writes the rows of sampleFile, minus the "missing"
// column, to famFile as tab-delimited text without a header. Row order is
// preserved.
func ProjectSampleToFam(sampleFile, famFile string) error {
	table, err := ReadSampleTable(sampleFile)
	if err != nil {
		return err
	}

	drop := table.Column(MissingColumn)
	if drop < 0 {
		return ibdprep.NewSchemaError(sampleFile, 1, "column %q not found in header. Saw: %v", MissingColumn, table.Header)
	}

	out, err := os.Create(famFile)
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: famFile, Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)

	projected := make([]string, 0, len(table.Header)-1)
	for _, row := range table.Rows {
		projected = projected[:0]
		projected = append(projected, row[:drop]...)
		projected = append(projected, row[drop+1:]...)
		w.WriteString(strings.Join(projected, "\t"))
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return &ibdprep.IOError{Op: "write", Path: famFile, Err: err}
	}

	if err := out.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: famFile, Err: err}
	}

	return nil
}
