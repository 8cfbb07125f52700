// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// configFile is the global config filename set by SetGlobalConfig.
	configFile string
)

// SetGlobalConfig sets the global config filename.
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file previously set by SetGlobalConfig.
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the settings of one run of the analyzer. If a field is not
// set in the YAML file it loaded from, it keeps its NewDefault value.
type Config struct {
	// LogLevel controls the verbosity of the LogGroup this config produces.
	LogLevel int `yaml:"log-level"`

	// ContractSpecs lists paths to JSON contract-description files consumed
	// by ContractEngine (LoadContractDescriptions), resolved relative to
	// this config's own file.
	ContractSpecs []string `yaml:"contract-specs"`

	// MaxImplicationChainDepth bounds LogicSystem.ApproveOperationStatement's
	// transitive closure walk. Default is DefaultMaxImplicationChainDepth.
	MaxImplicationChainDepth int `yaml:"max-implication-chain-depth"`

	// SilenceWarn suppresses the Warnf calls the engine makes when a fact
	// cannot be derived (spec §7: soundness over completeness, observed
	// through logging rather than a returned error).
	SilenceWarn bool `yaml:"silence-warn"`

	sourceFile string
}

// DefaultMaxImplicationChainDepth bounds the transitive implication closure
// LogicSystem walks per approval, when a config does not set one.
const DefaultMaxImplicationChainDepth = 64

// NewDefault returns a Config with every field at its default value.
func NewDefault() *Config {
	return &Config{
		LogLevel:                 int(InfoLevel),
		ContractSpecs:            []string{},
		MaxImplicationChainDepth: DefaultMaxImplicationChainDepth,
		SilenceWarn:              false,
	}
}

// Load reads and validates a YAML configuration file.
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", filename)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling config file %s", filename)
	}
	cfg.sourceFile = filename

	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.MaxImplicationChainDepth <= 0 {
		cfg.MaxImplicationChainDepth = DefaultMaxImplicationChainDepth
	}
	return cfg, nil
}

// RelPath returns filename resolved relative to the directory this config
// was loaded from.
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// Verbose reports whether the configured verbosity is Debug or above.
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
