package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/convert"
	"github.com/carbocation/ibdprep/geneticmap"
	"github.com/carbocation/ibdprep/ibdtool"
	"github.com/carbocation/ibdprep/qc"
	"github.com/carbocation/ibdprep/relgraph"
)

// A stage is bypassed when the caller asked for it, or when the output it
// would produce is already known. In the latter case the existing path is
// used as is.
func skipped(ctx Context, name StageName, output string) bool {
	return ctx.Skipped(name) || output != ""
}

// SampleConvertStage projects the .sample file onto a .fam file.
type SampleConvertStage struct{}

func (SampleConvertStage) Name() StageName { return SampleConvert }

func (s SampleConvertStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.FamFile)
}

func (s SampleConvertStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(), input("a sample file", ctx.SampleFile)); err != nil {
		return ctx, err
	}

	out := ctx.output(".fam")
	if err := convert.ProjectSampleToFam(ctx.SampleFile, out); err != nil {
		return ctx, err
	}
	ctx.FamFile = out

	return ctx, nil
}

// HapsConvertStage recodes the .haps file into a .ped file.
type HapsConvertStage struct{}

func (HapsConvertStage) Name() StageName { return HapsConvert }

func (s HapsConvertStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.PedFile)
}

func (s HapsConvertStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(),
		input("a haps file", ctx.HapsFile),
		input("a fam file", ctx.FamFile),
	); err != nil {
		return ctx, err
	}

	out := ctx.output(".ped")
	if err := convert.ConvertHaplotypesToPedigree(ctx.HapsFile, ctx.FamFile, out); err != nil {
		return ctx, err
	}
	ctx.PedFile = out

	return ctx, nil
}

// IbdRunStage runs iLASH over the pedigree and the genetic map. The map must
// already be resolved when this stage runs.
type IbdRunStage struct{}

func (IbdRunStage) Name() StageName { return IbdRun }

func (s IbdRunStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.MatchFile)
}

func (s IbdRunStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(),
		input("a ped file", ctx.PedFile),
		input("a genetic map file", ctx.MapFile),
	); err != nil {
		return ctx, err
	}

	if ctx.Temp == nil {
		return ctx, fmt.Errorf("%s requires a temporary file allocator", s.Name())
	}

	out := ctx.output(".match")
	paths := ibdtool.Paths{Map: ctx.MapFile, Ped: ctx.PedFile, Output: out}
	if err := ctx.runner().RunIbdDetection(ctx.Tools.Ilash, paths, ctx.IbdConfig, ctx.Temp); err != nil {
		return ctx, err
	}
	ctx.MatchFile = out

	return ctx, nil
}

// DistConvertStage interpolates genetic distances for every variant of the
// .haps file from a reference map.
type DistConvertStage struct{}

func (DistConvertStage) Name() StageName { return DistConvert }

func (s DistConvertStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.MapFile)
}

func (s DistConvertStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(),
		input("a haps file", ctx.HapsFile),
		input("a reference genetic map", ctx.GeneticMap),
	); err != nil {
		return ctx, err
	}

	out := ctx.output(".map")
	job := geneticmap.MapJob{
		HapsFile:      ctx.HapsFile,
		ReferenceFile: ctx.GeneticMap,
		OutputFile:    out,
		Chromosome:    ctx.Chromosome,
		Layout:        ctx.MapLayout,
		Temp:          ctx.Temp,
		Storage:       ctx.Storage,
	}
	if err := job.Run(context.Background()); err != nil {
		return ctx, err
	}
	ctx.MapFile = out

	return ctx, nil
}

// QcStage drops short segments from the match file and writes a summary.
type QcStage struct{}

func (QcStage) Name() StageName { return Qc }

func (s QcStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.FilteredMatchFile)
}

func (s QcStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(), input("a match file", ctx.MatchFile)); err != nil {
		return ctx, err
	}

	out := ctx.output(".qc.match")
	report, err := qc.Filter(ctx.MatchFile, out, ctx.MinSegmentCM)
	if err != nil {
		return ctx, err
	}
	ctx.FilteredMatchFile = out

	reportFile := ctx.output(".qc.csv")
	if err := qc.WriteReport(reportFile, report); err != nil {
		return ctx, err
	}
	ctx.QCReport = reportFile

	log.Printf("Kept %d of %d segments of at least %g cM across %d pairs\n",
		report.SegmentsKept, report.SegmentsRead, report.MinLengthCM, report.RelatedPairs)

	return ctx, nil
}

// GraphCompileStage sums shared segment length per pair into a Pajek graph.
type GraphCompileStage struct{}

func (GraphCompileStage) Name() StageName { return GraphCompile }

func (s GraphCompileStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.GraphFile)
}

func (s GraphCompileStage) Execute(ctx Context) (Context, error) {
	matches := ctx.FilteredMatchFile
	if matches == "" {
		matches = ctx.MatchFile
	}
	if err := require(s.Name(), input("a match file", matches)); err != nil {
		return ctx, err
	}

	out := ctx.output(".net")
	gr, err := relgraph.CompileFile(matches, out)
	if err != nil {
		return ctx, err
	}
	ctx.GraphFile = out

	log.Printf("Relatedness graph has %d individuals and %d related pairs\n", gr.Nodes(), gr.Edges())

	return ctx, nil
}

// InfoMapStage clusters the relatedness graph with Infomap.
type InfoMapStage struct{}

func (InfoMapStage) Name() StageName { return InfoMap }

func (s InfoMapStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.ClusterDir)
}

func (s InfoMapStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(), input("a graph file", ctx.GraphFile)); err != nil {
		return ctx, err
	}

	out := ctx.output("_infomap")
	if err := os.MkdirAll(out, 0755); err != nil {
		return ctx, &ibdprep.IOError{Op: "mkdir", Path: out, Err: err}
	}

	if err := ctx.runner().Run(ctx.Tools.Infomap, ctx.GraphFile, out); err != nil {
		return ctx, err
	}
	ctx.ClusterDir = out

	return ctx, nil
}

// ShapeItStage phases the pedigree with SHAPEIT.
type ShapeItStage struct{}

func (ShapeItStage) Name() StageName { return ShapeIt }

func (s ShapeItStage) Skipped(ctx Context) bool {
	return skipped(ctx, s.Name(), ctx.PhasedHaps)
}

func (s ShapeItStage) Execute(ctx Context) (Context, error) {
	if err := require(s.Name(),
		input("a ped file", ctx.PedFile),
		input("a genetic map file", ctx.MapFile),
	); err != nil {
		return ctx, err
	}

	haps, sample := ctx.output(".phased.haps"), ctx.output(".phased.sample")
	err := ctx.runner().Run(ctx.Tools.ShapeIt,
		"--input-ped", ctx.PedFile, ctx.MapFile,
		"--output-max", haps, sample,
	)
	if err != nil {
		return ctx, err
	}

	for _, v := range []string{haps, sample} {
		if _, err := os.Stat(v); err != nil {
			return ctx, &ibdprep.IOError{Op: "stat", Path: v, Err: err}
		}
	}
	ctx.PhasedHaps, ctx.PhasedSample = haps, sample

	return ctx, nil
}
