// ibdprep converts phased haplotypes into the inputs of the iLASH IBD
// detector, derives a per-variant genetic map, and drives the stages that
// follow IBD detection.
package main

import (
	"log"
	"os"

	"github.com/carbocation/ibdprep/compileinfo"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:            "ibdprep",
		Usage:           "Prepare phased haplotypes for IBD detection and run the stages that follow",
		HideHelpCommand: true,
		Version:         compileinfo.Get().Version(),
		Commands: []*cli.Command{
			runCommand(),
			interpolateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
