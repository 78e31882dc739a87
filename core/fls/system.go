package fls

import (
	"fmt"

	"go.uber.org/zap"
)

// Config is the construction interface of a System. Set order is kept: it
// fixes the evaluation order of the inputs and the summation order of the
// outputs.
type Config struct {
	Inputs  []Set
	Outputs []Set
	FOUs    map[string]FOU
	Rules   RuleTable

	// UnboundedFOU applies the footprint of uncertainty outside the support
	// of the input sets as well.
	UnboundedFOU bool
}

// System is a single-input single-output interval type-2 fuzzy inference
// system. It is immutable once built and safe for concurrent use.
type System struct {
	log     *zap.Logger
	inputs  *Domain
	outputs *Domain
	widener *Widener
	engine  *RuleEngine
	defuzz  *Defuzzifier
}

// Trace describes one inference step by step.
type Trace struct {
	Temperature float64
	Activations []Activation
	Strengths   Strengths
	Output      float64
}

func (t Trace) Fired() bool { return t.Strengths.Fired() }

func New(cfg Config, log *zap.Logger) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	inputs, err := NewDomain(cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("input domain: %w", err)
	}
	for _, s := range inputs.sets {
		if s.Degenerate() {
			return nil, fmt.Errorf("input domain: %w: %q = (%v, %v, %v)",
				ErrDegenerateSet, s.Name, s.A, s.B, s.C)
		}
	}
	outputs, err := NewDomain(cfg.Outputs)
	if err != nil {
		return nil, fmt.Errorf("output domain: %w", err)
	}
	w, err := NewWidener(cfg.FOUs, cfg.UnboundedFOU)
	if err != nil {
		return nil, err
	}
	e, err := NewRuleEngine(inputs, outputs, w, cfg.Rules)
	if err != nil {
		return nil, err
	}
	return &System{
		log:     log,
		inputs:  inputs,
		outputs: outputs,
		widener: w,
		engine:  e,
		defuzz:  NewDefuzzifier(outputs),
	}, nil
}

func (s *System) Inputs() *Domain { return s.inputs }

func (s *System) Outputs() *Domain { return s.outputs }

func (s *System) Widener() *Widener { return s.widener }

func (s *System) RuleEngine() *RuleEngine { return s.engine }

func (s *System) Defuzzifier() *Defuzzifier { return s.defuzz }

func (s *System) Explain(temperature float64) (Trace, error) {
	acts, err := s.engine.Activations(temperature)
	if err != nil {
		return Trace{}, err
	}
	strengths := s.engine.aggregate(acts)
	out, err := s.defuzz.Defuzzify(strengths)
	if err != nil {
		return Trace{}, err
	}
	if ce := s.log.Check(zap.DebugLevel, "inferred output"); ce != nil {
		fields := make([]zap.Field, 0, 2+len(strengths))
		fields = append(fields, zap.Float64("temperature", temperature))
		for _, x := range strengths {
			fields = append(fields, zap.Float64(x.Set, x.Value))
		}
		fields = append(fields, zap.Float64("output", out))
		ce.Write(fields...)
	}
	return Trace{
		Temperature: temperature,
		Activations: acts,
		Strengths:   strengths,
		Output:      out,
	}, nil
}

// Run maps a crisp temperature to a crisp output. It returns 0 if no rule
// fires.
func (s *System) Run(temperature float64) (float64, error) {
	t, err := s.Explain(temperature)
	if err != nil {
		return 0, err
	}
	return t.Output, nil
}
