package ibdprep

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	initialLineCapacity = 1 << 20
	maxLineCapacity     = 256 << 20 // a line holds every haplotype of one variant
)

// HAPS streams the rows of a (possibly compressed) .haps file.
type HAPS struct {
	path    string
	rc      io.ReadCloser
	scanner *bufio.Scanner
	line    int
	err     error
}

func OpenHAPS(path string) (*HAPS, error) {
	rc, err := OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}

	return &HAPS{
		path:    path,
		rc:      rc,
		scanner: newLineScanner(rc),
	}, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialLineCapacity), maxLineCapacity)
	return scanner
}

func (h *HAPS) Close() error {
	return h.rc.Close()
}

func (h *HAPS) Path() string {
	return h.path
}

// Line is the 1-based line number of the row most recently returned.
func (h *HAPS) Line() int {
	return h.line
}

func (h *HAPS) Err() error {
	if h.err != nil {
		return h.err
	}

	if err := h.scanner.Err(); err != nil {
		return &IOError{Op: "read", Path: h.path, Err: err}
	}

	return nil
}

// Read returns the next row with all of its haplotype columns, or nil at the
// end of the file or on error. Blank lines are skipped.
func (h *HAPS) Read() *HapsRow {
	fields := h.next()
	if fields == nil {
		return nil
	}

	row := h.parseSite(fields)
	if row == nil {
		return nil
	}
	row.Haplotypes = fields[HapsMetadataColumns:]

	return row
}

// ReadSite is like Read but leaves Haplotypes nil.
func (h *HAPS) ReadSite() *HapsRow {
	fields := h.next()
	if fields == nil {
		return nil
	}

	return h.parseSite(fields)
}

func (h *HAPS) next() []string {
	if h.err != nil {
		return nil
	}

	for h.scanner.Scan() {
		h.line++
		fields := strings.Fields(h.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < HapsMetadataColumns {
			h.err = NewSchemaError(h.path, h.line, "expected at least %d columns, found %d", HapsMetadataColumns, len(fields))
			return nil
		}
		return fields
	}

	return nil
}

func (h *HAPS) parseSite(fields []string) *HapsRow {
	pos, err := strconv.ParseInt(fields[HapsPosition], 10, 64)
	if err != nil {
		h.err = NewSchemaError(h.path, h.line, "position %q is not an integer", fields[HapsPosition])
		return nil
	}

	return &HapsRow{
		Chromosome: fields[HapsChromosome],
		VariantID:  fields[HapsVariantID],
		Position:   pos,
		Allele1:    fields[HapsAllele1],
		Allele2:    fields[HapsAllele2],
	}
}

// CountHaps is the cheap first pass over a .haps file. It counts the
// non-blank lines and the haplotype columns of the first line, and checks that
// every line has the same width, so that a matrix sized from the result can
// hold the whole file.
func CountHaps(path string) (HapsShape, error) {
	rc, err := OpenMaybeCompressed(path)
	if err != nil {
		return HapsShape{}, err
	}
	defer rc.Close()

	shape := HapsShape{}
	scanner := newLineScanner(rc)
	line := 0
	for scanner.Scan() {
		line++
		n := countFields(scanner.Bytes())
		if n == 0 {
			continue
		}

		if shape.Variants == 0 {
			if n < HapsMetadataColumns {
				return shape, NewSchemaError(path, line, "expected at least %d columns, found %d", HapsMetadataColumns, n)
			}
			shape.FieldsPerLine = n
			shape.HaplotypeColumns = n - HapsMetadataColumns
			if shape.HaplotypeColumns%2 != 0 {
				return shape, NewSchemaError(path, line, "found %d haplotype columns; expected an even number (two per individual)", shape.HaplotypeColumns)
			}
		} else if n != shape.FieldsPerLine {
			return shape, NewSchemaError(path, line, "expected %d columns like the first line, found %d", shape.FieldsPerLine, n)
		}

		shape.Variants++
	}
	if err := scanner.Err(); err != nil {
		return shape, &IOError{Op: "read", Path: path, Err: err}
	}

	if shape.Variants == 0 {
		return shape, NewSchemaError(path, 0, "no variants found")
	}

	return shape, nil
}

// countFields counts whitespace-separated tokens without allocating them.
func countFields(b []byte) int {
	n := 0
	inField := false
	for _, c := range b {
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f' {
			inField = false
			continue
		}
		if !inField {
			n++
			inField = true
		}
	}
	return n
}
