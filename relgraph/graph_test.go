package relgraph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/ibdprep/qc"
)

func TestAddSharedAccumulates(t *testing.T) {
	gr := New()
	gr.AddShared("F1:I1", "F2:I2", 5.5)
	gr.AddShared("F2:I2", "F1:I1", 10.5)
	gr.AddShared("F1:I1", "F3:I3", 3)
	gr.AddShared("F4:I4", "F4:I4", 7)

	if gr.Nodes() != 4 {
		t.Errorf("Expected 4 nodes, got %d", gr.Nodes())
	}
	if gr.Edges() != 2 {
		t.Errorf("Expected 2 edges, got %d", gr.Edges())
	}

	if w, ok := gr.SharedCM("F2:I2", "F1:I1"); !ok || w != 16 {
		t.Errorf("Expected 16 cM shared, got %v (%v)", w, ok)
	}
	if _, ok := gr.SharedCM("F2:I2", "F3:I3"); ok {
		t.Error("Expected F2:I2 and F3:I3 to be unconnected")
	}
	if _, ok := gr.SharedCM("F4:I4", "F4:I4"); ok {
		t.Error("Expected no self edge")
	}
}

func TestWritePajek(t *testing.T) {
	gr := New()
	gr.AddShared("F1:I1", "F2:I2", 5.5)
	gr.AddShared("F3:I3", "F1:I1", 3)
	gr.AddShared("F2:I2", "F1:I1", 1)

	var b strings.Builder
	if err := gr.WritePajek(&b); err != nil {
		t.Fatal(err)
	}

	expected := `*Vertices 3
1 "F1:I1"
2 "F2:I2"
3 "F3:I3"
*Edges
1 2 6.5
1 3 3
`
	if got := b.String(); got != expected {
		t.Errorf("Got\n%s\nexpected\n%s", got, expected)
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	match := filepath.Join(dir, "in.match")
	content := "F1\tI1\tF2\tI2\t1\t100\t900\trs1\trs9\t5.5\t0.99\n" +
		"F2\tI2\tF1\tI1\t2\t1000\t5000\trs10\trs50\t10.5\t1\n"
	if err := os.WriteFile(match, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	graphFile := filepath.Join(dir, "out.net")

	gr, err := CompileFile(match, graphFile)
	if err != nil {
		t.Fatal(err)
	}
	if gr.Nodes() != 2 || gr.Edges() != 1 {
		t.Errorf("Expected 2 nodes and 1 edge, got %d and %d", gr.Nodes(), gr.Edges())
	}

	b, err := os.ReadFile(graphFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(b), "*Edges\n1 2 16\n") {
		t.Errorf("Unexpected graph file %q", string(b))
	}
}

func TestCompileSegments(t *testing.T) {
	segments := []qc.Segment{
		{FamilyID1: "F1", IndividualID1: "I1", FamilyID2: "F2", IndividualID2: "I2", LengthCM: 4},
		{FamilyID1: "F2", IndividualID1: "I2", FamilyID2: "F3", IndividualID2: "I3", LengthCM: 2.5},
		{FamilyID1: "F1", IndividualID1: "I1", FamilyID2: "F2", IndividualID2: "I2", LengthCM: 1},
	}

	gr := Compile(segments)
	if gr.Nodes() != 3 || gr.Edges() != 2 {
		t.Fatalf("Expected 3 nodes and 2 edges, got %d and %d", gr.Nodes(), gr.Edges())
	}
	if w, _ := gr.SharedCM("F1:I1", "F2:I2"); w != 5 {
		t.Errorf("Expected 5 cM between F1:I1 and F2:I2, got %v", w)
	}
}
