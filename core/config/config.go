package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"example.com/fanctl/core/fls"
)

const (
	DefaultListenAddr       = "127.0.0.1:8080"
	DefaultMaxBatch         = 1024
	DefaultBatchParallelism = 8
)

var errIncompleteRule = errors.New("rule must name an input and an output set")

type ServiceConfig struct {
	ListenAddr       string `toml:"listen_address,omitempty"`
	MaxBatch         int    `toml:"max_batch,omitempty"`
	BatchParallelism int    `toml:"batch_parallelism,omitempty"`
}

type SetConfig struct {
	Name   string     `toml:"name"`
	Points [3]float64 `toml:"points"`
}

type InputSetConfig struct {
	Name       string     `toml:"name"`
	Points     [3]float64 `toml:"points"`
	LowerDelta float64    `toml:"lower_delta"`
	UpperDelta float64    `toml:"upper_delta"`
}

type RuleConfig struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

type File struct {
	Service      ServiceConfig    `toml:"service,omitempty"`
	UnboundedFOU bool             `toml:"unbounded_fou,omitempty"`
	Inputs       []InputSetConfig `toml:"input"`
	Outputs      []SetConfig      `toml:"output"`
	Rules        []RuleConfig     `toml:"rule"`
}

// Default returns the temperature to fan speed system: Cold, Neutral and Hot
// drive Slow, Medium and Fast.
func Default() File {
	return File{
		Inputs: []InputSetConfig{
			{Name: "Cold", Points: [3]float64{0, 10, 20}, LowerDelta: 0.2, UpperDelta: 0.3},
			{Name: "Neutral", Points: [3]float64{15, 25, 35}, LowerDelta: 0.3, UpperDelta: 0.4},
			{Name: "Hot", Points: [3]float64{30, 40, 50}, LowerDelta: 0.2, UpperDelta: 0.3},
		},
		Outputs: []SetConfig{
			{Name: "Slow", Points: [3]float64{0, 25, 50}},
			{Name: "Medium", Points: [3]float64{25, 50, 75}},
			{Name: "Fast", Points: [3]float64{50, 75, 100}},
		},
		Rules: []RuleConfig{
			{Input: "Cold", Output: "Slow"},
			{Input: "Neutral", Output: "Medium"},
			{Input: "Hot", Output: "Fast"},
		},
	}
}

func Decode(r io.Reader) (File, error) {
	var f File
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f)
	if err != nil {
		return File{}, err
	}
	return f, nil
}

func Load(configFile string) (File, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return File{}, err
	}
	return Decode(bytes.NewReader(raw))
}

// WithDefaults fills in unset service settings.
func (s ServiceConfig) WithDefaults() ServiceConfig {
	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if s.MaxBatch <= 0 {
		s.MaxBatch = DefaultMaxBatch
	}
	if s.BatchParallelism <= 0 {
		s.BatchParallelism = DefaultBatchParallelism
	}
	return s
}

func (f File) ServiceSettings() ServiceConfig {
	return f.Service.WithDefaults()
}

func triangle(p [3]float64) fls.Triangle {
	return fls.Triangle{A: p[0], B: p[1], C: p[2]}
}

// FLS converts the file into the construction interface of an inference
// system. Input and output sets keep their file order.
func (f File) FLS() (fls.Config, error) {
	c := fls.Config{
		Inputs:       make([]fls.Set, len(f.Inputs)),
		Outputs:      make([]fls.Set, len(f.Outputs)),
		FOUs:         make(map[string]fls.FOU, len(f.Inputs)),
		Rules:        make(fls.RuleTable, len(f.Rules)),
		UnboundedFOU: f.UnboundedFOU,
	}
	for i, s := range f.Inputs {
		c.Inputs[i] = fls.Set{Name: s.Name, Triangle: triangle(s.Points)}
		c.FOUs[s.Name] = fls.FOU{LowerDelta: s.LowerDelta, UpperDelta: s.UpperDelta}
	}
	for i, s := range f.Outputs {
		c.Outputs[i] = fls.Set{Name: s.Name, Triangle: triangle(s.Points)}
	}
	for _, r := range f.Rules {
		if r.Input == "" || r.Output == "" {
			return fls.Config{}, fmt.Errorf("%w: %+v", errIncompleteRule, r)
		}
		if prev, ok := c.Rules[r.Input]; ok {
			return fls.Config{}, fmt.Errorf("%w: input %q has rules for %q and %q",
				fls.ErrDuplicateSet, r.Input, prev, r.Output)
		}
		c.Rules[r.Input] = r.Output
	}
	return c, nil
}
