package main

import (
	"strings"
	"testing"

	cli "github.com/urfave/cli/v2"
)

func TestRunUsageExplainsMapOrder(t *testing.T) {
	cmd := runCommand()

	for _, want := range []string{"--skip ibd-run", "ibdprep interpolate", "--map"} {
		if !strings.Contains(cmd.Description, want) {
			t.Errorf("Expected %q in the run description, got %q", want, cmd.Description)
		}
	}

	for _, f := range cmd.Flags {
		sf, ok := f.(*cli.StringFlag)
		if !ok || sf.Name != "map" {
			continue
		}
		if !strings.Contains(sf.Usage, "ibd-run") {
			t.Errorf("Expected --map usage to mention ibd-run, got %q", sf.Usage)
		}
		return
	}
	t.Error("No --map flag found")
}
