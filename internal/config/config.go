// Package config loads the generation settings of paramtest-gen from
// paramtest.yaml:
//
//	version: "1"
//	# off (default): bodies return nothing and fail through t.Fatal or panics.
//	# on: bodies return error; a non-nil error fails the case.
//	propagation: off
//	# every generated case calls t.Parallel
//	parallel: false
//	# name of the generated file, replacing .go of the directive file
//	suffix: _paramtest_test.go
//	# build tag guarding directive files
//	tag: paramtest
//
// Command-line flags override the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"paramtest-generator/paramtest"
)

// DefaultFilename is looked up in the working directory when no config file
// is given.
const DefaultFilename = "paramtest.yaml"

// Config holds the settings of a generation run.
type Config struct {
	Version     string      `yaml:"version"`
	Propagation Propagation `yaml:"propagation"`
	Parallel    bool        `yaml:"parallel"`
	Suffix      string      `yaml:"suffix"`
	Tag         string      `yaml:"tag"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// LoadFile loads and parses a config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Discover loads DefaultFilename from dir if it exists, and the defaults
// otherwise. The returned path is empty when no file was found.
func Discover(dir string) (*Config, string, error) {
	path := filepath.Join(dir, DefaultFilename)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}

	c, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}

	return c, path, nil
}

// Parse parses YAML data into a Config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = "1"
	}

	if c.Propagation == "" {
		c.Propagation = PropagationOff
	}

	if c.Suffix == "" {
		c.Suffix = "_paramtest_test.go"
	}

	if c.Tag == "" {
		c.Tag = paramtest.BuildTag
	}
}

// Validate reports settings the generator cannot honour.
func (c *Config) Validate() error {
	if c.Version != "1" {
		return fmt.Errorf("unsupported config version %q", c.Version)
	}

	if _, err := ParsePropagation(string(c.Propagation)); err != nil {
		return err
	}

	if !strings.HasSuffix(c.Suffix, "_test.go") {
		return fmt.Errorf("suffix %q must end in _test.go", c.Suffix)
	}

	if strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("suffix %q must not contain a path separator", c.Suffix)
	}

	if strings.ContainsAny(c.Tag, " ,!") {
		return fmt.Errorf("tag %q must be a single build tag", c.Tag)
	}

	return nil
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
