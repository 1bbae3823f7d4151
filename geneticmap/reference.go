package geneticmap

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ibdprep"
)

// Entry is one row of a reference genetic map.
type Entry struct {
	ID       string
	Position int64
	Distance float64 // centiMorgans
}

// Reference is a genetic map sorted ascending by position.
type Reference struct {
	Entries []Entry

	// Position to index of its first entry, for exact lookups
	index map[int64]int
}

// NewReference validates that entries are sorted by position and indexes
// them. Entries sharing a position resolve to the first of them.
func NewReference(name string, entries []Entry) (*Reference, error) {
	ref := &Reference{
		Entries: entries,
		index:   make(map[int64]int, len(entries)),
	}

	for i, e := range entries {
		if i > 0 && e.Position < entries[i-1].Position {
			return nil, ibdprep.NewSchemaError(name, 0, "entry %d (%s at %d) precedes entry %d (%s at %d); the map must be sorted by position", i+1, e.ID, e.Position, i, entries[i-1].ID, entries[i-1].Position)
		}
		if _, exists := ref.index[e.Position]; !exists {
			ref.index[e.Position] = i
		}
	}

	return ref, nil
}

func (r *Reference) Len() int {
	return len(r.Entries)
}

// exact returns the index of the entry at position p, if there is one.
func (r *Reference) exact(p int64) (int, bool) {
	i, ok := r.index[p]
	return i, ok
}

// Lookup answers a single query by binary search, independently of any
// cursor. It agrees with Interpolate for every query.
func (r *Reference) Lookup(p int64) (float64, error) {
	if i, ok := r.exact(p); ok {
		return r.Entries[i].Distance, nil
	}

	i := sort.Search(len(r.Entries), func(i int) bool {
		return r.Entries[i].Position >= p
	})

	return r.extrapolate(i, p)
}

// extrapolate derives the distance at p from the two entries immediately
// preceding index i, the first entry at or beyond p.
func (r *Reference) extrapolate(i int, p int64) (float64, error) {
	if i >= len(r.Entries) {
		if len(r.Entries) == 0 {
			return 0, &ibdprep.RangeError{Position: p, Msg: "the reference map is empty"}
		}
		return 0, &ibdprep.RangeError{Position: p, Msg: "beyond the last reference map position " + strconv.FormatInt(r.Entries[len(r.Entries)-1].Position, 10)}
	}
	if i < 2 {
		return 0, &ibdprep.RangeError{Position: p, Msg: "fewer than two reference map entries precede it"}
	}

	behind, further := r.Entries[i-1], r.Entries[i-2]
	if behind.Position == further.Position {
		return 0, &ibdprep.RangeError{Position: p, Msg: "the two preceding reference map entries share position " + strconv.FormatInt(behind.Position, 10)}
	}

	// Multiply before dividing; the order fixes the last bit of the result
	return behind.Distance + float64(p-behind.Position)*(behind.Distance-further.Distance)/float64(behind.Position-further.Position), nil
}

// LoadReference parses a reference map. The delimiter is detected from the
// start of the stream: comma-separated maps are split on commas, anything
// else on runs of whitespace.
func LoadReference(r io.Reader, name string, layout Layout) (*Reference, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	sample, err := br.Peek(32 * 1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, &ibdprep.IOError{Op: "read", Path: name, Err: err}
	}

	split := strings.Fields
	for _, d := range ibdprep.DetectDelimiters(sample) {
		if d == ',' {
			split = splitComma
			break
		}
	}

	entries := make([]Entry, 0)
	scanner := bufio.NewScanner(br)
	line := 0
	sawHeader := !layout.HasHeader
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || (layout.Comment != 0 && strings.HasPrefix(text, string(layout.Comment))) {
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}

		cols := split(text)
		if len(cols) < layout.width() {
			return nil, ibdprep.NewSchemaError(name, line, "expected at least %d columns, found %d", layout.width(), len(cols))
		}

		pos, err := strconv.ParseInt(cols[layout.ColPosition], 10, 64)
		if err != nil {
			return nil, ibdprep.NewSchemaError(name, line, "position %q is not an integer", cols[layout.ColPosition])
		}
		cm, err := strconv.ParseFloat(cols[layout.ColDistance], 64)
		if err != nil {
			return nil, ibdprep.NewSchemaError(name, line, "genetic distance %q is not a number", cols[layout.ColDistance])
		}

		entries = append(entries, Entry{ID: cols[layout.ColID], Position: pos, Distance: cm})
	}
	if err := scanner.Err(); err != nil {
		return nil, &ibdprep.IOError{Op: "read", Path: name, Err: err}
	}

	if len(entries) == 0 {
		return nil, ibdprep.NewSchemaError(name, 0, "no reference map entries found")
	}

	return NewReference(name, entries)
}

// OpenReference loads a local, compressed or gs:// reference map.
func OpenReference(ctx context.Context, path string, layout Layout, client *storage.Client) (*Reference, error) {
	rc, err := ibdprep.OpenInput(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return LoadReference(rc, path, layout)
}

func splitComma(s string) []string {
	cols := strings.Split(s, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}
