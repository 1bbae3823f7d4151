package main

import (
	"context"
	"log"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/geneticmap"
	"github.com/carbocation/ibdprep/tempfile"
	"github.com/carbocation/pfx"
	cli "github.com/urfave/cli/v2"
)

func interpolateCommand() *cli.Command {
	return &cli.Command{
		Name:  "interpolate",
		Usage: "Derive the genetic map of a .haps file from a reference map",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "haps", Usage: "SHAPEIT .haps file", Required: true, Category: "Required"},
			&cli.StringFlag{
				Name:     "genetic-map",
				Usage:    "Reference genetic map. Local, compressed or gs://",
				Required: true,
				Category: "Required",
			},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output map file", Required: true, Category: "Required"},
			&cli.StringFlag{
				Name:     "map-layout",
				Value:    geneticmap.DefaultLayout,
				Usage:    "Column layout of the reference genetic map. One of: " + geneticmap.LayoutNames(),
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "chromosome",
				Usage:    "Chromosome label for the output. Defaults to the chromosome column of the .haps file",
				Category: "Optional",
			},
		},
		Action: interpolate,
	}
}

func interpolate(c *cli.Context) (err error) {
	job := geneticmap.MapJob{Chromosome: c.String("chromosome")}

	for dst, flag := range map[*string]string{
		&job.HapsFile:      "haps",
		&job.ReferenceFile: "genetic-map",
		&job.OutputFile:    "out",
	} {
		if *dst, err = ibdprep.ExpandHome(c.String(flag)); err != nil {
			return err
		}
	}

	if job.Layout, err = geneticmap.LayoutByName(c.String("map-layout")); err != nil {
		return err
	}

	job.Temp = tempfile.New(filepath.Dir(job.OutputFile))
	defer func() {
		if perr := job.Temp.Purge(); perr != nil && err == nil {
			err = perr
		}
	}()

	if ibdprep.IsGoogleStoragePath(job.ReferenceFile) {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
		job.Storage = client
	}

	if err := job.Run(context.Background()); err != nil {
		return err
	}

	log.Println("Wrote", job.OutputFile)
	return nil
}
