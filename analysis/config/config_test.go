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
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(filename, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return filename
}

func TestNewDefault(t *testing.T) {
	c := NewDefault()
	if c.LogLevel != int(InfoLevel) {
		t.Errorf("expected default LogLevel %d, got %d", InfoLevel, c.LogLevel)
	}
	if c.MaxImplicationChainDepth != DefaultMaxImplicationChainDepth {
		t.Errorf("expected default MaxImplicationChainDepth %d, got %d", DefaultMaxImplicationChainDepth, c.MaxImplicationChainDepth)
	}
	if c.SilenceWarn {
		t.Errorf("expected SilenceWarn to default to false")
	}
	if len(c.ContractSpecs) != 0 {
		t.Errorf("expected no contract specs by default, got %v", c.ContractSpecs)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	filename := writeTempConfig(t, `
log-level: 5
contract-specs:
  - contracts/std.json
  - contracts/collections.json
max-implication-chain-depth: 8
silence-warn: true
`)
	c, err := Load(filename)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.LogLevel != int(TraceLevel) {
		t.Errorf("expected LogLevel %d, got %d", TraceLevel, c.LogLevel)
	}
	if len(c.ContractSpecs) != 2 || c.ContractSpecs[0] != "contracts/std.json" {
		t.Errorf("unexpected ContractSpecs: %v", c.ContractSpecs)
	}
	if c.MaxImplicationChainDepth != 8 {
		t.Errorf("expected MaxImplicationChainDepth 8, got %d", c.MaxImplicationChainDepth)
	}
	if !c.SilenceWarn {
		t.Errorf("expected SilenceWarn true")
	}
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	filename := writeTempConfig(t, `
silence-warn: true
`)
	c, err := Load(filename)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.LogLevel != int(InfoLevel) {
		t.Errorf("expected untouched LogLevel to default to %d, got %d", InfoLevel, c.LogLevel)
	}
	if c.MaxImplicationChainDepth != DefaultMaxImplicationChainDepth {
		t.Errorf("expected untouched MaxImplicationChainDepth to default to %d, got %d", DefaultMaxImplicationChainDepth, c.MaxImplicationChainDepth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error loading a missing file")
	}
}

func TestLoadInvalidYaml(t *testing.T) {
	filename := writeTempConfig(t, "not: [valid: yaml")
	if _, err := Load(filename); err == nil {
		t.Errorf("expected an error loading invalid yaml")
	}
}

func TestVerbose(t *testing.T) {
	c := NewDefault()
	c.LogLevel = int(InfoLevel)
	if c.Verbose() {
		t.Errorf("expected Info level to not be verbose")
	}
	c.LogLevel = int(DebugLevel)
	if !c.Verbose() {
		t.Errorf("expected Debug level to be verbose")
	}
}

func TestRelPath(t *testing.T) {
	filename := writeTempConfig(t, "log-level: 4")
	c, err := Load(filename)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got := c.RelPath("contracts/std.json")
	want := filepath.Join(filepath.Dir(filename), "contracts/std.json")
	if got != want {
		t.Errorf("RelPath: got %s, want %s", got, want)
	}
}
