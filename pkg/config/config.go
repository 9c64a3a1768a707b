// Package config reads and writes the synthgraph JSON configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/debug"
)

// DirName is the per-user configuration directory under the home directory
var DirName = ".synthgraph"

// FileName is the configuration file inside DirName
var FileName = "config.json"

// Audio backends
const (
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
	BackendNone      = "none"
)

type Config struct {
	Backend  string  `json:"backend"`
	Frames   int     `json:"frames"`
	Script   string  `json:"script,omitempty"`
	Tick     float64 `json:"tick,omitempty"`
	Stream   string  `json:"stream,omitempty"`
	LogLevel string  `json:"log_level"`
	LogFile  string  `json:"log_file,omitempty"`
	MidiIn   string  `json:"midi_in,omitempty"`
	MidiOut  string  `json:"midi_out,omitempty"`
	Console  bool    `json:"console"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendOto,
		Frames:   512,
		LogLevel: "info",
	}
}

// DefaultPath returns ~/.synthgraph/config.json
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate home directory")
	}
	return filepath.Join(home, DirName, FileName), nil
}

// ReadConfig decodes the file at path over the defaults. Fields missing from
// the file keep their default values.
func ReadConfig(path string) (*Config, error) {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand config path '%s'", path)
	}

	f, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file '%s'", fpath)
	}
	defer f.Close()

	conf := DefaultConfig()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(conf); err != nil {
		return nil, errors.Wrapf(err, "failed to decode configuration file '%s'", fpath)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration file '%s'", fpath)
	}
	return conf, nil
}

// WriteConfig encodes conf to path, creating parent directories
func WriteConfig(path string, conf *Config) error {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "failed to expand config path '%s'", path)
	}

	dir := filepath.Dir(fpath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to mkdir '%s' for config", dir)
	}

	f, err := os.Create(fpath)
	if err != nil {
		return errors.Wrapf(err, "failed to create configuration file '%s'", fpath)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(conf); err != nil {
		return errors.Wrapf(err, "failed to encode configuration '%+v'", conf)
	}
	return nil
}

// Validate checks field values
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOto, BackendPortAudio, BackendNone:
	default:
		return errors.Errorf("unknown backend '%s'", c.Backend)
	}
	if c.Frames <= 0 {
		return errors.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.Tick < 0 {
		return errors.Errorf("tick must not be negative, got %g", c.Tick)
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ExpandPaths resolves a leading ~ in every path field
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Script, &c.Stream, &c.LogFile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return errors.Wrapf(err, "failed to expand path '%s'", *p)
		}
		*p = expanded
	}
	return nil
}
