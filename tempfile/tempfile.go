// Package tempfile hands out uniquely named scratch files for the duration of
// one run and removes all of them with a single Purge.
package tempfile

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/carbocation/pfx"
)

const maxNameAttempts = 100

// Allocator owns every file it creates until Purge is called. The zero value
// is not usable; call New.
type Allocator struct {
	dir    string
	prefix string

	mu    sync.Mutex
	rng   *rand.Rand
	files []string
}

// New returns an Allocator that creates files in dir, or in os.TempDir() when
// dir is empty.
func New(dir string) *Allocator {
	if dir == "" {
		dir = os.TempDir()
	}

	return &Allocator{
		dir:    dir,
		prefix: "ibdprep_",
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewFile creates an empty file with a fresh name ending in suffix and returns
// its path. The file is closed; callers reopen it for writing.
func (a *Allocator) NewFile(suffix string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		// Inject randomness into the filename so that several runs can share
		// one temp directory.
		name := filepath.Join(a.dir, a.prefix+randHeteroglyphs(a.rng, 20)+suffix)

		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
		if os.IsExist(err) {
			continue
		} else if err != nil {
			return "", pfx.Err(err)
		}
		if err := f.Close(); err != nil {
			return "", pfx.Err(err)
		}

		a.files = append(a.files, name)
		return name, nil
	}

	return "", pfx.Err(errors.New("could not find an unused temporary file name in " + a.dir))
}

// Files lists the paths currently owned by the allocator.
func (a *Allocator) Files() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(a.files))
	copy(out, a.files)
	return out
}

// Purge removes every file handed out so far. Files that were already removed
// are not an error. The allocator can be reused afterwards.
func (a *Allocator) Purge() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	for _, name := range a.files {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = pfx.Err(err)
		}
	}
	a.files = nil

	return firstErr
}

// RandHeteroglyphs produces a string of n symbols which do not look like one
// another. (Derived to be the opposite of homoglyphs, which are symbols which
// look similar to one another and cannot be quickly distinguished.)
func RandHeteroglyphs(n int) string {
	return randHeteroglyphs(nil, n)
}

func randHeteroglyphs(rng *rand.Rand, n int) string {
	var letters = []rune("abcdefghkmnpqrstwxyz")
	lenLetters := len(letters)
	b := make([]rune, n)
	for i := range b {
		if rng == nil {
			b[i] = letters[rand.Intn(lenLetters)]
		} else {
			b[i] = letters[rng.Intn(lenLetters)]
		}
	}
	return string(b)
}
