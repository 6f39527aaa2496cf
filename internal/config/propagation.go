package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Propagation selects how generated tests handle their body's outcome.
type Propagation string

const (
	// PropagationOff runs bodies directly; failures propagate natively.
	PropagationOff Propagation = "off"
	// PropagationOn lets bodies return an error, which fails the case.
	PropagationOn Propagation = "on"
)

// ParsePropagation accepts on/off and the YAML 1.1 boolean spellings.
func ParsePropagation(s string) (Propagation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "false", "no":
		return PropagationOff, nil
	case "on", "true", "yes":
		return PropagationOn, nil
	default:
		return "", fmt.Errorf("invalid propagation %q: want on or off", s)
	}
}

// Enabled reports whether propagation is on.
func (p Propagation) Enabled() bool {
	return p == PropagationOn
}

// UnmarshalYAML implements yaml.Unmarshaler. A bare on/off scalar is a bool
// in YAML 1.1 and a string in 1.2; both are accepted.
func (p *Propagation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: propagation must be on or off", value.Line)
	}

	v, err := ParsePropagation(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*p = v

	return nil
}

// String implements pflag.Value.
func (p *Propagation) String() string {
	if *p == "" {
		return string(PropagationOff)
	}

	return string(*p)
}

// Set implements pflag.Value.
func (p *Propagation) Set(s string) error {
	v, err := ParsePropagation(s)
	if err != nil {
		return err
	}

	*p = v

	return nil
}

// Type implements pflag.Value.
func (p *Propagation) Type() string {
	return "on|off"
}
