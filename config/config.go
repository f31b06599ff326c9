package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/coreos/pkg/capnslog"
	"gopkg.in/yaml.v2"
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = "wrig.yml"

type Config struct {
	// Prompt is printed before every line read by the REPL.
	Prompt string `yaml:"prompt"`
	// BlankLines consecutive empty lines submit the REPL buffer.
	BlankLines int `yaml:"blank_lines"`
	// PersistEnvironment keeps variables alive between REPL submissions.
	PersistEnvironment bool   `yaml:"persist_environment"`
	Color              bool   `yaml:"color"`
	LogLevel           string `yaml:"log_level"`
	// Output is the default binary name for wrig build.
	Output string `yaml:"output,omitempty"`
}

func Default() Config {
	return Config{
		Prompt:             "> ",
		BlankLines:         3,
		PersistEnvironment: true,
		Color:              true,
		LogLevel:           "INFO",
	}
}

func (c Config) Validate() error {
	if c.BlankLines < 1 {
		return fmt.Errorf("blank_lines must be at least 1, got %d", c.BlankLines)
	}
	if _, err := capnslog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Load reads path on top of the defaults. A missing file at the default
// path is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error reading %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func Write(path string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	fi, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer fi.Close()

	if _, err := fi.Write(out); err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	return nil
}
