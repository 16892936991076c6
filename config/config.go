// Package config holds runtime settings: defaults, an optional YAML file,
// environment overrides and validation.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format selects what extract writes.
type Format string

const (
	FormatText      Format = "text"      // per-measure names and a comma-separated line
	FormatPositions Format = "positions" // name, measure:beat and tick per line
	FormatMidi      Format = "midi"      // Standard MIDI File
)

type Config struct {
	OutputDir string  `yaml:"output_dir"`
	MidiDir   string  `yaml:"midi_dir"`
	Format    Format  `yaml:"format"`
	Tempo     float64 `yaml:"tempo"`
	Addr      string  `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		OutputDir: constants.GetOutputDir(),
		MidiDir:   constants.GetMidiDir(),
		Format:    FormatText,
		Tempo:     constants.DefaultTempo,
		Addr:      constants.GetAddr(),
	}
}

// DefaultPath is where Load looks when no file is named.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pitchnamer", "config.yml")
}

// Load builds the configuration. A named file must exist; the default file is
// read only when present. Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(raw); err != nil {
				return nil, errors.Wrapf(err, "could not read config %v", path)
			}
		case explicit || !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "could not open config %v", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(raw []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	err := decoder.Decode(c)
	if err == io.EOF {
		return nil
	}
	return err
}

func (c *Config) applyEnv() {
	if os.Getenv("OUTPUT_PATH") != "" {
		c.OutputDir = constants.GetOutputDir()
	}
	if os.Getenv("MIDI_OUTPUT_PATH") != "" {
		c.MidiDir = constants.GetMidiDir()
	}
	if os.Getenv("PITCHNAMER_ADDR") != "" {
		c.Addr = constants.GetAddr()
	}
}

func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatPositions, FormatMidi:
	default:
		return errors.Errorf("unknown format %q (want text, positions or midi)", c.Format)
	}
	if c.Tempo <= 0 {
		return errors.Errorf("tempo must be positive, got %v", c.Tempo)
	}
	return nil
}

// Dir is the directory a format writes to.
func (c *Config) Dir(f Format) string {
	if f == FormatMidi {
		return c.MidiDir
	}
	return c.OutputDir
}
