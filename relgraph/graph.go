// Package relgraph compiles IBD segments into a weighted relatedness graph:
// one node per individual, one edge per related pair, weighted by the total
// centiMorgans the pair shares. The graph is written in Pajek format, which
// Infomap reads directly.
package relgraph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/qc"
	"gonum.org/v1/gonum/graph/simple"
)

type Graph struct {
	g      *simple.WeightedUndirectedGraph
	ids    map[string]int64
	labels []string
}

func New() *Graph {
	return &Graph{
		g:   simple.NewWeightedUndirectedGraph(0, 0),
		ids: make(map[string]int64),
	}
}

// node returns the ID of label, adding a node for it on first sight. IDs are
// dense and follow first appearance.
func (gr *Graph) node(label string) int64 {
	if id, exists := gr.ids[label]; exists {
		return id
	}

	id := int64(len(gr.labels))
	gr.g.AddNode(simple.Node(id))
	gr.ids[label] = id
	gr.labels = append(gr.labels, label)

	return id
}

// AddShared adds cm to the edge between a and b. Segments an individual
// shares with itself carry no relatedness signal and only register the node.
func (gr *Graph) AddShared(a, b string, cm float64) {
	u, v := gr.node(a), gr.node(b)
	if u == v {
		return
	}

	w := cm
	if e := gr.g.WeightedEdge(u, v); e != nil {
		w += e.Weight()
	}
	gr.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
}

func (gr *Graph) AddSegment(s qc.Segment) {
	gr.AddShared(s.Individual1(), s.Individual2(), s.LengthCM)
}

func (gr *Graph) Nodes() int {
	return len(gr.labels)
}

func (gr *Graph) Edges() int {
	return gr.g.Edges().Len()
}

// SharedCM returns the total weight between a and b, and whether they are
// connected at all.
func (gr *Graph) SharedCM(a, b string) (float64, bool) {
	u, ok := gr.ids[a]
	if !ok {
		return 0, false
	}
	v, ok := gr.ids[b]
	if !ok {
		return 0, false
	}

	e := gr.g.WeightedEdge(u, v)
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

type pajekEdge struct {
	u, v int64
	w    float64
}

// WritePajek writes the graph as "*Vertices" and "*Edges" sections. Pajek
// vertex numbers are 1-based. Edges are sorted so the output is stable.
func (gr *Graph) WritePajek(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "*Vertices %d\n", len(gr.labels))
	for id, label := range gr.labels {
		fmt.Fprintf(bw, "%d %s\n", id+1, strconv.Quote(label))
	}

	edges := make([]pajekEdge, 0)
	it := gr.g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		u, v := e.From().ID(), e.To().ID()
		if v < u {
			u, v = v, u
		}
		edges = append(edges, pajekEdge{u, v, e.Weight()})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	fmt.Fprintln(bw, "*Edges")
	for _, e := range edges {
		fmt.Fprintf(bw, "%d %d %s\n", e.u+1, e.v+1, strconv.FormatFloat(e.w, 'f', -1, 64))
	}

	return bw.Flush()
}

// Compile builds the graph of an in-memory segment list.
func Compile(segments []qc.Segment) *Graph {
	gr := New()
	for _, s := range segments {
		gr.AddSegment(s)
	}
	return gr
}

// CompileFile builds the graph of a match file and writes it to graphFile.
func CompileFile(matchFile, graphFile string) (*Graph, error) {
	segments, err := qc.ReadSegments(matchFile)
	if err != nil {
		return nil, err
	}
	gr := Compile(segments)

	out, err := os.Create(graphFile)
	if err != nil {
		return nil, &ibdprep.IOError{Op: "create", Path: graphFile, Err: err}
	}
	defer out.Close()

	if err := gr.WritePajek(out); err != nil {
		return nil, &ibdprep.IOError{Op: "write", Path: graphFile, Err: err}
	}
	if err := out.Close(); err != nil {
		return nil, &ibdprep.IOError{Op: "close", Path: graphFile, Err: err}
	}

	return gr, nil
}
