package ibdtool

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/carbocation/ibdprep"
	"gopkg.in/yaml.v2"
)

// Config holds the iLASH tuning parameters. Field tags are the iLASH
// configuration keys.
type Config struct {
	SliceSize         int     `yaml:"slice_size"`
	StepSize          int     `yaml:"step_size"`
	PermCount         int     `yaml:"perm_count"`
	ShingleSize       int     `yaml:"shingle_size"`
	ShingleOverlap    int     `yaml:"shingle_overlap"`
	BucketCount       int     `yaml:"bucket_count"`
	MaxThread         int     `yaml:"max_thread"`
	MatchThreshold    float64 `yaml:"match_threshold"`
	InterestThreshold float64 `yaml:"interest_threshold"`
	MinLength         float64 `yaml:"min_length"` // centiMorgans
	AutoSlice         int     `yaml:"auto_slice"`
	SliceLength       float64 `yaml:"slice_length"` // centiMorgans
	CMOverlap         float64 `yaml:"cm_overlap"`
	MinhashThreshold  int     `yaml:"minhash_threshold"`
}

func DefaultConfig() Config {
	return Config{
		SliceSize:         350,
		StepSize:          350,
		PermCount:         20,
		ShingleSize:       15,
		ShingleOverlap:    0,
		BucketCount:       5,
		MaxThread:         20,
		MatchThreshold:    0.99,
		InterestThreshold: 0.70,
		MinLength:         2.9,
		AutoSlice:         1,
		SliceLength:       2.9,
		CMOverlap:         1,
		MinhashThreshold:  55,
	}
}

// ReadConfig overlays the YAML file at path on DefaultConfig. Keys missing
// from the file keep their defaults.
func ReadConfig(path string) (Config, error) {
	config := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return config, &ibdprep.IOError{Op: "read", Path: path, Err: err}
	}

	if err := yaml.UnmarshalStrict(b, &config); err != nil {
		return config, fmt.Errorf("Failed to parse the config file %s: %w", path, err)
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	for _, v := range []struct {
		key   string
		value int
	}{
		{"slice_size", c.SliceSize},
		{"step_size", c.StepSize},
		{"perm_count", c.PermCount},
		{"shingle_size", c.ShingleSize},
		{"bucket_count", c.BucketCount},
		{"max_thread", c.MaxThread},
	} {
		if v.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", v.key, v.value)
		}
	}

	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be within [0, 1], got %v", c.MatchThreshold)
	}
	if c.InterestThreshold < 0 || c.InterestThreshold > 1 {
		return fmt.Errorf("interest_threshold must be within [0, 1], got %v", c.InterestThreshold)
	}

	return nil
}

type param struct {
	key   string
	value string
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Paths are the files an iLASH run reads and writes.
type Paths struct {
	Map    string
	Ped    string
	Output string
}

func (c Config) params(paths Paths) []param {
	return []param{
		{"map", paths.Map},
		{"ped", paths.Ped},
		{"output", paths.Output},
		{"slice_size", itoa(c.SliceSize)},
		{"step_size", itoa(c.StepSize)},
		{"perm_count", itoa(c.PermCount)},
		{"shingle_size", itoa(c.ShingleSize)},
		{"shingle_overlap", itoa(c.ShingleOverlap)},
		{"bucket_count", itoa(c.BucketCount)},
		{"max_thread", itoa(c.MaxThread)},
		{"match_threshold", ftoa(c.MatchThreshold)},
		{"interest_threshold", ftoa(c.InterestThreshold)},
		{"min_length", ftoa(c.MinLength)},
		{"auto_slice", itoa(c.AutoSlice)},
		{"slice_length", ftoa(c.SliceLength)},
		{"cm_overlap", ftoa(c.CMOverlap)},
		{"minhash_threshold", itoa(c.MinhashThreshold)},
	}
}

// WriteConfig writes the iLASH configuration file: one "key value" pair per
// line, the three paths first.
func WriteConfig(w io.Writer, paths Paths, c Config) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.params(paths) {
		bw.WriteString(p.key)
		bw.WriteByte(' ')
		bw.WriteString(p.value)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
