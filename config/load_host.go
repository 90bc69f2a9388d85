//go:build !rp2040 && !rp2350

package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"miniconsole-go/errcode"
)

// Load reads a YAML file and overlays it on the "host" board profile.
// Keys absent from the file keep their defaults. Unknown keys are an error.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	c, _ := ForBoard("host")
	if path == "" {
		return c, c.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, errcode.Wrap(errcode.InvalidConfig, "config.load", path, err)
	}
	return Parse(raw, c)
}

// Parse overlays YAML onto base and validates the result.
func Parse(raw []byte, base Config) (Config, error) {
	c := base
	if err := yaml.UnmarshalStrict(raw, &c); err != nil {
		return base, errcode.Wrap(errcode.InvalidConfig, "config.parse", "", err)
	}
	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}
