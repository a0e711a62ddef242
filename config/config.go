// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package config loads the artifactstore configuration.
package config

import (
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/forensicanalysis/artifactstore"
)

// Config holds all artifactstore settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LogConfig configures logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DisplayConfig limits the text results.
type DisplayConfig struct {
	MaxMatches    int `yaml:"max_matches"`
	TopCategories int `yaml:"top_categories"`
	Highlights    int `yaml:"highlights"`
	URLWidth      int `yaml:"url_width"`
}

// IngestConfig configures how upstream output is located.
type IngestConfig struct {
	// OutputNames are tried in order as "<name>.jsonl" in an output
	// directory.
	OutputNames []string `yaml:"output_names"`
}

// Default returns the built in configuration.
func Default() Config {
	opts := artifactstore.DefaultSummaryOptions()
	return Config{
		Server: ServerConfig{Name: "hindsight-artifactstore", Version: "0.0.1"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Display: DisplayConfig{
			MaxMatches:    artifactstore.DefaultMatchLimit,
			TopCategories: opts.TopCategories,
			Highlights:    opts.Highlights,
			URLWidth:      opts.URLWidth,
		},
		Ingest: IngestConfig{OutputNames: []string{"analysis", "profile_analysis"}},
	}
}

// Load reads a YAML file and fills unset values from Default. An empty path
// returns the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		b, err := afero.ReadFile(fs, path)
		if err != nil {
			return Config{}, errors.Wrap(err, "could not read config")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "could not parse config %s", path)
		}
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, errors.Wrap(err, "could not merge defaults")
	}
	if err := cfg.Display.validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// ErrInvalidSize is returned for display sizes below one.
var ErrInvalidSize = errors.New("display sizes must be positive")

func (d DisplayConfig) validate() error {
	sizes := []struct {
		name  string
		value int
	}{
		{"max_matches", d.MaxMatches},
		{"top_categories", d.TopCategories},
		{"highlights", d.Highlights},
		{"url_width", d.URLWidth},
	}
	for _, size := range sizes {
		if size.value <= 0 {
			return errors.Wrapf(ErrInvalidSize, "display.%s is %d", size.name, size.value)
		}
	}
	return nil
}

// SummaryOptions returns the summarizer settings.
func (c Config) SummaryOptions() artifactstore.SummaryOptions {
	return artifactstore.SummaryOptions{
		TopCategories: c.Display.TopCategories,
		Highlights:    c.Display.Highlights,
		URLWidth:      c.Display.URLWidth,
	}
}
