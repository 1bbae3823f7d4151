package geneticmap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/tempfile"
	"github.com/carbocation/pfx"
)

// WriteMap writes one "chromosome id distance position" line per query, the
// PLINK .map column order. chromosome labels every line; when it is empty,
// each query's own chromosome is used.
func WriteMap(w io.Writer, chromosome string, queries []Query, distances []float64) error {
	if len(queries) != len(distances) {
		return pfx.Err(fmt.Errorf("%d queries but %d distances", len(queries), len(distances)))
	}

	bw := bufio.NewWriter(w)
	for k, q := range queries {
		chr := chromosome
		if chr == "" {
			chr = q.Chromosome
		}

		bw.WriteString(chr)
		bw.WriteByte(' ')
		bw.WriteString(q.ID)
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(distances[k], 'f', -1, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatInt(q.Position, 10))
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// MapJob derives a genetic map for the variants of a .haps file.
type MapJob struct {
	HapsFile      string
	ReferenceFile string // local, compressed or gs://
	OutputFile    string
	Chromosome    string
	Layout        Layout
	Temp          *tempfile.Allocator
	Storage       *storage.Client
}

// Run extracts the query positions into a scratch file owned by j.Temp,
// interpolates them against the reference map and writes the map. Nothing
// loaded here outlives the call.
func (j MapJob) Run(ctx context.Context) error {
	if j.Temp == nil {
		return pfx.Err(fmt.Errorf("no temporary file allocator was provided"))
	}

	queryFile, err := j.Temp.NewFile(".query.tsv")
	if err != nil {
		return err
	}

	if err := BuildQueryPositions(j.HapsFile, queryFile); err != nil {
		return err
	}

	queries, err := ReadQueryPositions(queryFile)
	if err != nil {
		return err
	}

	ref, err := OpenReference(ctx, j.ReferenceFile, j.Layout, j.Storage)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d reference map entries from %s\n", ref.Len(), j.ReferenceFile)

	distances, err := Interpolate(queries, ref)
	if err != nil {
		return err
	}

	out, err := os.Create(j.OutputFile)
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: j.OutputFile, Err: err}
	}
	defer out.Close()

	if err := WriteMap(out, j.Chromosome, queries, distances); err != nil {
		return &ibdprep.IOError{Op: "write", Path: j.OutputFile, Err: err}
	}
	if err := out.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: j.OutputFile, Err: err}
	}

	log.Printf("Wrote genetic distances for %d variants to %s\n", len(queries), j.OutputFile)

	return nil
}
