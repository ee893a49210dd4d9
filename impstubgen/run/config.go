package run

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"

	"gopkg.in/yaml.v3"

	detect "github.com/toejough/impstub/impstubgen/run/3_detect"
)

// Config lists the doubles to generate in one invocation.
//
//	package: store_test
//	doubles:
//	  - interface: store.Repo
//	  - interface: Clock
//	    name: FakeClock
type Config struct {
	// Package overrides $GOPACKAGE as the package clause of the generated files.
	Package string         `yaml:"package"`
	Doubles []DoubleConfig `yaml:"doubles"`
}

// DoubleConfig is one entry of Config.Doubles.
type DoubleConfig struct {
	Interface string `yaml:"interface"`
	Name      string `yaml:"name"`
}

// LoadConfig decodes a YAML config and validates it. Unknown keys are rejected.
func LoadConfig(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every entry and reports all problems found.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Doubles) == 0 {
		errs = append(errs, errNoDoubles)
	}

	names := make(map[string]int, len(c.Doubles))

	for i, double := range c.Doubles {
		_, local, err := detect.SplitQualified(double.Interface)
		if err != nil {
			errs = append(errs, fmt.Errorf("doubles[%d].interface: %w", i, err))

			continue
		}

		name := double.name(local)

		if double.Name != "" && !token.IsIdentifier(double.Name) {
			errs = append(errs, fmt.Errorf("doubles[%d].name %q is not an identifier", i, double.Name))
		}

		if prev, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("doubles[%d] and doubles[%d] both generate %sDouble", prev, i, name))
		}

		names[name] = i
	}

	return errors.Join(errs...)
}

// unexported variables.
var (
	errNoDoubles = errors.New("config lists no doubles")
)

func (d DoubleConfig) name(local string) string {
	if d.Name != "" {
		return d.Name
	}

	return local
}
