package geneticmap

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/tempfile"
)

func threeEntryReference(t *testing.T) *Reference {
	t.Helper()
	ref, err := NewReference("test", []Entry{
		{"rs1", 100, 0.0},
		{"rs2", 200, 1.0},
		{"rs3", 300, 1.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInterpolateExtrapolatesFromPrecedingEntries(t *testing.T) {
	ref := threeEntryReference(t)

	got, err := Interpolate([]Query{{"1", "q", 250}}, ref)
	if err != nil {
		t.Fatal(err)
	}

	// dist[i-1] + (p - pos[i-1]) * (dist[i-1] - dist[i-2]) / (pos[i-1] - pos[i-2])
	expected := 1.0 + (250.0-200.0)*(1.0-0.0)/(200.0-100.0)
	if got[0] != expected {
		t.Errorf("Got %v, expected %v", got[0], expected)
	}
}

func TestInterpolateMultipliesBeforeDividing(t *testing.T) {
	ref, err := NewReference("test", []Entry{
		{"a", 0, 0},
		{"b", 3, 0.1},
		{"c", 1000, 5},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		p        int64
		expected float64
	}{
		{15, 0.5000000000000001},
		{20, 0.6666666666666667},
	}

	for _, v := range cases {
		got, err := Interpolate([]Query{{"1", "q", v.p}}, ref)
		if err != nil {
			t.Fatal(err)
		}
		if got[0] != v.expected {
			t.Errorf("Position %d: got %v, expected %v", v.p, got[0], v.expected)
		}
	}

	// Same evaluation order at run time over every position between b and c
	behind, further := ref.Entries[1], ref.Entries[0]
	for p := int64(4); p < 1000; p++ {
		got, err := ref.Lookup(p)
		if err != nil {
			t.Fatal(err)
		}
		expected := behind.Distance + float64(p-behind.Position)*(behind.Distance-further.Distance)/float64(behind.Position-further.Position)
		if got != expected {
			t.Fatalf("Position %d: got %v, expected %v", p, got, expected)
		}
	}
}

func TestInterpolateExactMatchIsBitForBit(t *testing.T) {
	odd := 0.1 + 0.2
	ref, err := NewReference("test", []Entry{
		{"rs1", 100, 0.0},
		{"rs2", 200, odd},
		{"rs3", 300, 1.0 / 3.0},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Interpolate([]Query{{"1", "a", 100}, {"1", "b", 200}, {"1", "c", 300}}, ref)
	if err != nil {
		t.Fatal(err)
	}
	for k, expected := range []float64{0.0, odd, 1.0 / 3.0} {
		if math.Float64bits(got[k]) != math.Float64bits(expected) {
			t.Errorf("Query %d: got %v, expected exactly %v", k, got[k], expected)
		}
	}
}

func TestInterpolateRangeErrors(t *testing.T) {
	for _, v := range []struct {
		name    string
		queries []int64
	}{
		{"before the first entry", []int64{50}},
		{"between the first and second entries", []int64{150}},
		{"beyond the last entry", []int64{350}},
		{"decreasing queries", []int64{250, 240}},
	} {
		t.Run(v.name, func(t *testing.T) {
			queries := make([]Query, len(v.queries))
			for i, p := range v.queries {
				queries[i] = Query{"1", "q", p}
			}

			_, err := Interpolate(queries, threeEntryReference(t))
			var rangeErr *ibdprep.RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Expected a RangeError, got %v", err)
			}
		})
	}
}

func TestInterpolateRepeatedQueries(t *testing.T) {
	ref := threeEntryReference(t)

	got, err := Interpolate([]Query{{"1", "a", 250}, {"1", "b", 250}, {"1", "c", 300}, {"1", "d", 300}}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != got[1] || got[2] != 1.5 || got[3] != 1.5 {
		t.Errorf("Unexpected distances %v", got)
	}
}

// The cursor is an optimization only: every answer must match an independent
// binary search.
func TestCursorMatchesIndependentLookup(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(200)
		entries := make([]Entry, n)
		pos := int64(rng.Intn(1000))
		cm := 0.0
		for i := range entries {
			pos += 1 + int64(rng.Intn(5000))
			cm += rng.Float64()
			entries[i] = Entry{ID: "rs", Position: pos, Distance: cm}
		}
		ref, err := NewReference("random", entries)
		if err != nil {
			t.Fatal(err)
		}

		// Queries within the answerable range, plus some exact hits
		lo, hi := entries[1].Position, entries[n-1].Position
		positions := make([]int64, 0, 300)
		for k := 0; k < 300; k++ {
			if rng.Intn(4) == 0 {
				positions = append(positions, entries[1+rng.Intn(n-1)].Position)
			} else {
				positions = append(positions, lo+rng.Int63n(hi-lo+1))
			}
		}
		sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

		ip := NewInterpolator(ref)
		for _, p := range positions {
			got, err := ip.Next(p)
			if err != nil {
				t.Fatalf("Trial %d, position %d: %v", trial, p, err)
			}
			expected, err := ref.Lookup(p)
			if err != nil {
				t.Fatalf("Trial %d, position %d: %v", trial, p, err)
			}
			if math.Float64bits(got) != math.Float64bits(expected) {
				t.Fatalf("Trial %d, position %d: cursor gave %v, lookup gave %v", trial, p, got, expected)
			}
		}
	}
}

func TestNewReferenceRejectsUnsorted(t *testing.T) {
	_, err := NewReference("test", []Entry{{"rs1", 200, 1}, {"rs2", 100, 0}})
	var schemaErr *ibdprep.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected a SchemaError, got %v", err)
	}
}

func TestLoadReferenceDelimiters(t *testing.T) {
	for _, v := range []struct {
		name   string
		input  string
		layout string
	}{
		{"spaces", "rs1 100 0.0\nrs2 200 1.0\nrs3 300 1.5\n", "SHAPEIT"},
		{"tabs", "rs1\t100\t0.0\nrs2\t200\t1.0\nrs3\t300\t1.5\n", "SHAPEIT"},
		{"commas", "rs1,100,0.0\nrs2,200,1.0\nrs3,300,1.5\n", "SHAPEIT"},
		{"comments and blanks", "# id pos cm\n\nrs1 100 0.0\nrs2 200 1.0\nrs3 300 1.5\n", "SHAPEIT"},
		{"plink", "1 rs1 0.0 100\n1 rs2 1.0 200\n1 rs3 1.5 300\n", "PLINK"},
		{"hapmap", "Chromosome Position(bp) Rate(cM/Mb) Map(cM)\nchr1 100 10 0.0\nchr1 200 5 1.0\nchr1 300 0 1.5\n", "hapmap"},
	} {
		t.Run(v.name, func(t *testing.T) {
			layout, err := LayoutByName(v.layout)
			if err != nil {
				t.Fatal(err)
			}

			ref, err := LoadReference(strings.NewReader(v.input), "test", layout)
			if err != nil {
				t.Fatal(err)
			}
			if ref.Len() != 3 {
				t.Fatalf("Expected 3 entries, got %d", ref.Len())
			}
			if e := ref.Entries[2]; e.Position != 300 || e.Distance != 1.5 {
				t.Errorf("Unexpected last entry %+v", e)
			}
		})
	}
}

func TestLoadReferenceRejectsMalformed(t *testing.T) {
	layout := Layouts[DefaultLayout]
	for _, input := range []string{
		"rs1 100\n",
		"rs1 abc 0.0\n",
		"rs1 100 x\n",
		"rs1 200 1.0\nrs2 100 0.0\n",
		"",
	} {
		_, err := LoadReference(strings.NewReader(input), "test", layout)
		var schemaErr *ibdprep.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("Input %q: expected a SchemaError, got %v", input, err)
		}
	}
}

func TestLayoutByNameUnknown(t *testing.T) {
	if _, err := LayoutByName("NOPE"); err == nil {
		t.Error("Expected an error for an unknown layout")
	}
}

func TestQueryPositionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	haps := writeFile(t, dir, "in.haps", "20 rs1 100 A G 0 1\n\n20 rs2 250 C T 1 1\n")
	queryFile := filepath.Join(dir, "query.tsv")

	if err := BuildQueryPositions(haps, queryFile); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(queryFile)
	if err != nil {
		t.Fatal(err)
	}
	if got, expected := string(b), "20\trs1\t100\n20\trs2\t250\n"; got != expected {
		t.Errorf("Got %q, expected %q", got, expected)
	}

	queries, err := ReadQueryPositions(queryFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 || queries[1] != (Query{"20", "rs2", 250}) {
		t.Errorf("Unexpected queries %+v", queries)
	}
}

func TestQueryPositionsAreNotQuoted(t *testing.T) {
	dir := t.TempDir()
	haps := writeFile(t, dir, "in.haps", "20 \\. 100 A G 0 1\n20 \"rs2\" 250 C T 1 1\n")
	queryFile := filepath.Join(dir, "query.tsv")

	if err := BuildQueryPositions(haps, queryFile); err != nil {
		t.Fatal(err)
	}

	queries, err := ReadQueryPositions(queryFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 || queries[0].ID != `\.` || queries[1].ID != `"rs2"` {
		t.Errorf("Expected IDs to survive unchanged, got %+v", queries)
	}
}

func TestWriteMapChromosomeLabel(t *testing.T) {
	queries := []Query{{"20", "rs1", 100}, {"20", "rs2", 250}}
	distances := []float64{0, 1.5}

	var b strings.Builder
	if err := WriteMap(&b, "chr20", queries, distances); err != nil {
		t.Fatal(err)
	}
	if got, expected := b.String(), "chr20 rs1 0 100\nchr20 rs2 1.5 250\n"; got != expected {
		t.Errorf("Got %q, expected %q", got, expected)
	}

	b.Reset()
	if err := WriteMap(&b, "", queries, distances); err != nil {
		t.Fatal(err)
	}
	if got, expected := b.String(), "20 rs1 0 100\n20 rs2 1.5 250\n"; got != expected {
		t.Errorf("Got %q, expected %q", got, expected)
	}

	if err := WriteMap(&b, "", queries, distances[:1]); err == nil {
		t.Error("Expected an error when queries and distances differ in length")
	}
}

func TestMapJobRun(t *testing.T) {
	dir := t.TempDir()
	haps := writeFile(t, dir, "in.haps", "1 rs2 200 A G 0 1\n1 rsX 250 C T 1 1\n1 rs3 300 G A 0 0\n")
	refFile := writeFile(t, dir, "ref.map", "rs1 100 0.0\nrs2 200 1.0\nrs3 300 1.5\n")
	out := filepath.Join(dir, "out.map")
	temp := tempfile.New(dir)

	job := MapJob{
		HapsFile:      haps,
		ReferenceFile: refFile,
		OutputFile:    out,
		Chromosome:    "1",
		Layout:        Layouts[DefaultLayout],
		Temp:          temp,
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, expected := string(b), "1 rs2 1 200\n1 rsX 1.5 250\n1 rs3 1.5 300\n"; got != expected {
		t.Errorf("Got map\n%q\nexpected\n%q", got, expected)
	}

	if len(temp.Files()) != 1 {
		t.Errorf("Expected the query file to be owned by the allocator, got %v", temp.Files())
	}
	if err := temp.Purge(); err != nil {
		t.Fatal(err)
	}
}
