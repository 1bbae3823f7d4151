package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/briandowns/spinner"
	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/compileinfo"
	"github.com/carbocation/ibdprep/geneticmap"
	"github.com/carbocation/ibdprep/ibdtool"
	"github.com/carbocation/ibdprep/pipeline"
	"github.com/carbocation/ibdprep/tempfile"
	"github.com/carbocation/pfx"
	"github.com/fatih/color"
	cli "github.com/urfave/cli/v2"
)

var (
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
)

func stageNames() string {
	names := pipeline.StageNames()
	out := make([]string, len(names))
	for i, v := range names {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the processing stages in order: " + stageNames(),
		Description: "ibd-run reads the per-variant genetic map, which dist-convert only produces later in the\n" +
			"order. Without --map, derive it first, either with a pass that runs\n" +
			"  ibdprep run --skip ibd-run --skip qc --skip graph-compile --skip infomap --skip shapeit ...\n" +
			"or with \"ibdprep interpolate\", then pass the result as --map.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Prefix of every output file, e.g. results/cohort_chr1",
				Required: true,
				Category: "Required",
			},
			&cli.StringFlag{Name: "sample", Usage: "SHAPEIT .sample file", Category: "Inputs"},
			&cli.StringFlag{Name: "haps", Usage: "SHAPEIT .haps file, optionally compressed", Category: "Inputs"},
			&cli.StringFlag{Name: "fam", Usage: "Existing .fam file; skips sample conversion", Category: "Inputs"},
			&cli.StringFlag{Name: "ped", Usage: "Existing .ped file; skips haplotype conversion", Category: "Inputs"},
			&cli.StringFlag{Name: "map", Usage: "Existing per-variant genetic map; skips interpolation. Required by ibd-run", Category: "Inputs"},
			&cli.StringFlag{Name: "match", Usage: "Existing iLASH match file; skips IBD detection", Category: "Inputs"},
			&cli.StringFlag{
				Name:     "genetic-map",
				Usage:    "Reference genetic map to interpolate from. Local, compressed or gs://",
				Category: "Inputs",
			},
			&cli.StringFlag{
				Name:     "map-layout",
				Value:    geneticmap.DefaultLayout,
				Usage:    "Column layout of the reference genetic map. One of: " + geneticmap.LayoutNames(),
				Category: "Inputs",
			},
			&cli.StringFlag{
				Name:     "chromosome",
				Usage:    "Chromosome label for the genetic map. Defaults to the chromosome column of the .haps file",
				Category: "Inputs",
			},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML file with iLASH parameters", Category: "Tuning"},
			&cli.Float64Flag{
				Name:     "min-segment-cm",
				Usage:    "Shortest segment kept by QC. Defaults to the iLASH min_length",
				Category: "Tuning",
			},
			&cli.StringSliceFlag{
				Name:     "skip",
				Usage:    "Stage to skip; may be repeated. One of: " + stageNames(),
				Category: "Tuning",
			},
			&cli.StringFlag{Name: "ilash", Value: pipeline.DefaultTools().Ilash, Usage: "iLASH binary", Category: "Tools"},
			&cli.StringFlag{Name: "infomap", Value: pipeline.DefaultTools().Infomap, Usage: "Infomap binary", Category: "Tools"},
			&cli.StringFlag{Name: "shapeit", Value: pipeline.DefaultTools().ShapeIt, Usage: "SHAPEIT binary", Category: "Tools"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only report errors", Category: "Optional"},
		},
		Action: runPipeline,
	}
}

func runPipeline(c *cli.Context) (err error) {
	quiet := c.Bool("quiet")
	if quiet {
		log.SetOutput(io.Discard)
	} else {
		log.Println(compileinfo.Get())
	}

	prefix, err := ibdprep.ExpandHome(c.String("out"))
	if err != nil {
		return err
	}
	outDir := filepath.Dir(prefix)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &ibdprep.IOError{Op: "mkdir", Path: outDir, Err: err}
	}

	temp := tempfile.New(outDir)
	defer func() {
		if perr := temp.Purge(); perr != nil && err == nil {
			err = perr
		}
	}()

	ctx := pipeline.NewContext(prefix, temp)
	ctx.Chromosome = c.String("chromosome")

	inputs := map[string]*string{
		"sample":      &ctx.SampleFile,
		"haps":        &ctx.HapsFile,
		"fam":         &ctx.FamFile,
		"ped":         &ctx.PedFile,
		"map":         &ctx.MapFile,
		"match":       &ctx.MatchFile,
		"genetic-map": &ctx.GeneticMap,
		"ilash":       &ctx.Tools.Ilash,
		"infomap":     &ctx.Tools.Infomap,
		"shapeit":     &ctx.Tools.ShapeIt,
	}
	for flag, dst := range inputs {
		if *dst, err = ibdprep.ExpandHome(c.String(flag)); err != nil {
			return pfx.Err(fmt.Errorf("--%s: %w", flag, err))
		}
	}

	if ctx.MapLayout, err = geneticmap.LayoutByName(c.String("map-layout")); err != nil {
		return err
	}

	if c.IsSet("config") {
		configFile, err := ibdprep.ExpandHome(c.String("config"))
		if err != nil {
			return err
		}
		if ctx.IbdConfig, err = ibdtool.ReadConfig(configFile); err != nil {
			return err
		}
		ctx.MinSegmentCM = ctx.IbdConfig.MinLength
	}
	if c.IsSet("min-segment-cm") {
		ctx.MinSegmentCM = c.Float64("min-segment-cm")
	}

	for _, name := range c.StringSlice("skip") {
		if !pipeline.ValidStageName(name) {
			return fmt.Errorf("--skip %q is not a stage. Valid stages: %s", name, stageNames())
		}
		ctx.Skip[pipeline.StageName(name)] = true
	}

	if ibdprep.IsGoogleStoragePath(ctx.GeneticMap) {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
		ctx.Storage = client
	}

	chain := pipeline.NewChain()
	if !quiet {
		chain.OnStage = spin
	}

	started := time.Now()
	result, err := chain.Run(ctx)
	if err != nil {
		return err
	}

	if !quiet {
		summarize(os.Stdout, result, time.Since(started))
	}

	return nil
}

// spin shows a spinner on stderr while a stage runs.
func spin(name pipeline.StageName) func() {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + string(name)
	s.Start()
	return s.Stop
}

func summarize(w io.Writer, ctx pipeline.Context, elapsed time.Duration) {
	outputs := []struct {
		label string
		path  string
	}{
		{"fam", ctx.FamFile},
		{"ped", ctx.PedFile},
		{"genetic map", ctx.MapFile},
		{"matches", ctx.MatchFile},
		{"filtered matches", ctx.FilteredMatchFile},
		{"QC report", ctx.QCReport},
		{"graph", ctx.GraphFile},
		{"clusters", ctx.ClusterDir},
		{"phased haps", ctx.PhasedHaps},
		{"phased sample", ctx.PhasedSample},
	}

	fmt.Fprintf(w, "%s in %s\n", green("Finished"), elapsed.Round(time.Millisecond))
	for _, v := range outputs {
		if v.path == "" {
			continue
		}
		fmt.Fprintf(w, "  %-17s %s\n", v.label+":", cyan(v.path))
	}
}
