// Package pipeline sequences the processing stages of an IBD run. The stages
// form a fixed, straight-line list; each one may be bypassed, but none
// branches or loops.
package pipeline

import (
	"fmt"
	"log"
)

type StageName string

const (
	SampleConvert StageName = "sample-convert"
	HapsConvert   StageName = "haps-convert"
	IbdRun        StageName = "ibd-run"
	DistConvert   StageName = "dist-convert"
	Qc            StageName = "qc"
	GraphCompile  StageName = "graph-compile"
	InfoMap       StageName = "infomap"
	ShapeIt       StageName = "shapeit"
)

// Stage is one unit of work. Skipped reports whether the stage should be
// bypassed for this context; Execute does the work and returns the context
// extended with whatever the stage produced.
type Stage interface {
	Name() StageName
	Skipped(ctx Context) bool
	Execute(ctx Context) (Context, error)
}

// Chain runs its stages in order, one at a time.
type Chain struct {
	Stages []Stage

	// OnStage, if set, is called before a stage executes; the returned
	// function is called once it has finished.
	OnStage func(name StageName) (done func())
}

// NewChain returns the stages of a full run in their fixed order.
func NewChain() *Chain {
	return &Chain{
		Stages: []Stage{
			SampleConvertStage{},
			HapsConvertStage{},
			IbdRunStage{},
			DistConvertStage{},
			QcStage{},
			GraphCompileStage{},
			InfoMapStage{},
			ShapeItStage{},
		},
	}
}

// StageNames lists the stages of NewChain in order.
func StageNames() []StageName {
	stages := NewChain().Stages
	out := make([]StageName, len(stages))
	for i, s := range stages {
		out[i] = s.Name()
	}
	return out
}

func ValidStageName(name string) bool {
	for _, v := range StageNames() {
		if string(v) == name {
			return true
		}
	}
	return false
}

// Run executes every stage that is not skipped. The first error stops the
// run; nothing is retried.
func (c *Chain) Run(ctx Context) (Context, error) {
	for i, stage := range c.Stages {
		name := stage.Name()
		if stage.Skipped(ctx) {
			log.Printf("[%d/%d] Skipping %s\n", i+1, len(c.Stages), name)
			continue
		}

		log.Printf("[%d/%d] Running %s\n", i+1, len(c.Stages), name)
		next, err := c.execute(stage, ctx)
		if err != nil {
			return ctx, fmt.Errorf("%s: %w", name, err)
		}
		ctx = next
	}

	return ctx, nil
}

func (c *Chain) execute(stage Stage, ctx Context) (Context, error) {
	if c.OnStage != nil {
		done := c.OnStage(stage.Name())
		defer done()
	}

	return stage.Execute(ctx)
}
