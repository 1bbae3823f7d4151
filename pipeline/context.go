package pipeline

import (
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ibdprep/geneticmap"
	"github.com/carbocation/ibdprep/ibdtool"
	"github.com/carbocation/ibdprep/tempfile"
)

// Tools names the external binaries. Each may be a bare name resolved
// through PATH.
type Tools struct {
	Ilash   string
	Infomap string
	ShapeIt string
}

func DefaultTools() Tools {
	return Tools{
		Ilash:   "./ilash",
		Infomap: "Infomap",
		ShapeIt: "shapeit",
	}
}

// Context is the state threaded through the stages. Stages receive it by
// value and return an updated copy; a stage only ever fills paths that are
// still empty, so outputs of earlier stages and caller-supplied inputs are
// never replaced.
type Context struct {
	// Prefix of every output this run writes, e.g. "out/cohort"
	OutputPrefix string

	// Label written in the chromosome column of the genetic map. Empty means
	// each variant keeps the chromosome from its .haps row.
	Chromosome string

	SampleFile        string
	HapsFile          string
	FamFile           string
	PedFile           string
	GeneticMap        string // reference map; local, compressed or gs://
	MapFile           string // per-variant map consumed by iLASH and SHAPEIT
	MatchFile         string
	FilteredMatchFile string
	QCReport          string
	GraphFile         string
	ClusterDir        string
	PhasedHaps        string
	PhasedSample      string

	MapLayout    geneticmap.Layout
	MinSegmentCM float64
	IbdConfig    ibdtool.Config
	Tools        Tools

	Skip map[StageName]bool

	Temp    *tempfile.Allocator
	Runner  *ibdtool.Runner
	Storage *storage.Client
}

// NewContext returns a Context with the defaults of a full run.
func NewContext(outputPrefix string, temp *tempfile.Allocator) Context {
	return Context{
		OutputPrefix: outputPrefix,
		MapLayout:    geneticmap.Layouts[geneticmap.DefaultLayout],
		MinSegmentCM: ibdtool.DefaultConfig().MinLength,
		IbdConfig:    ibdtool.DefaultConfig(),
		Tools:        DefaultTools(),
		Skip:         make(map[StageName]bool),
		Temp:         temp,
		Runner:       &ibdtool.Runner{},
	}
}

func (c Context) Skipped(name StageName) bool {
	return c.Skip[name]
}

func (c Context) output(suffix string) string {
	return c.OutputPrefix + suffix
}

// require reports the first empty input of a stage.
func require(stage StageName, inputs ...[2]string) error {
	for _, in := range inputs {
		if in[1] == "" {
			return fmt.Errorf("%s requires %s, which is neither provided nor produced by an earlier stage", stage, in[0])
		}
	}
	return nil
}

func input(name, value string) [2]string {
	return [2]string{name, value}
}

func (c Context) runner() *ibdtool.Runner {
	if c.Runner == nil {
		return &ibdtool.Runner{}
	}
	return c.Runner
}
