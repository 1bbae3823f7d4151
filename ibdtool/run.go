package ibdtool

import (
	"errors"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/ibdprep/tempfile"
)

const stderrTailBytes = 4096

// Runner runs external binaries to completion. Output is discarded when the
// corresponding writer is nil. A Runner never retries: the exit status of the
// binary is the result.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts name with args and blocks until it exits. A non-zero exit, or a
// failure to start, is reported as an *ibdprep.ExternalToolError that carries
// the last few kilobytes of the tool's stderr.
func (r *Runner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)

	tail := &tailBuffer{max: stderrTailBytes}
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	toolErr := &ibdprep.ExternalToolError{
		Tool:     name,
		Args:     args,
		ExitCode: -1,
		Stderr:   tail.String(),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}

	return toolErr
}

// RunIbdDetection writes an iLASH configuration into a scratch file owned by
// temp and runs "binary <config>". The match file must exist once the tool
// reports success.
func (r *Runner) RunIbdDetection(binary string, paths Paths, c Config, temp *tempfile.Allocator) error {
	configFile, err := temp.NewFile(".ilash.cfg")
	if err != nil {
		return err
	}

	f, err := os.Create(configFile)
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: configFile, Err: err}
	}
	if err := WriteConfig(f, paths, c); err != nil {
		f.Close()
		return &ibdprep.IOError{Op: "write", Path: configFile, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: configFile, Err: err}
	}

	log.Printf("Running %s %s\n", binary, configFile)
	if err := r.Run(binary, configFile); err != nil {
		return err
	}

	if _, err := os.Stat(paths.Output); err != nil {
		return &ibdprep.IOError{Op: "stat", Path: paths.Output, Err: err}
	}

	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
