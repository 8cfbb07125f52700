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

package dataflow

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/aster-lang/aster/analysis/config"
)

// contractEffectJSON is the on-disk shape of one ContractEffect. ConditionType
// is a type name resolved by the caller-supplied resolveType, since this
// package never constructs a concrete Type itself (spec §1's out-of-scope
// list names type resolution as TypeContext's job).
type contractEffectJSON struct {
	Kind                string `json:"kind"`
	Mode                string `json:"mode,omitempty"`
	ConditionParamIndex int    `json:"conditionParamIndex"`
	ConditionIsInstance bool   `json:"conditionIsInstance,omitempty"`
	ConditionType       string `json:"conditionType,omitempty"`
	LambdaParamIndex    int    `json:"lambdaParamIndex,omitempty"`
}

type contractDescriptionJSON struct {
	Effects []contractEffectJSON `json:"effects"`
}

// LoadContractDescriptions reads a JSON contract-description file keyed by
// callee name. resolveType turns the file's type names into this repo's
// Type values; a name resolveType cannot handle, or a "kind"/"mode" string
// this loader does not recognize, drops the effect that named it and warns
// through logger (nil is fine; the caller then gets no diagnostic, only a
// shorter ContractDescription than the file's own effect count).
func LoadContractDescriptions(path string, resolveType func(name string) (Type, bool), logger *config.LogGroup) (map[string]ContractDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading contract spec %s", path)
	}
	var raw map[string]contractDescriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing contract spec %s", path)
	}

	out := make(map[string]ContractDescription, len(raw))
	for callee, desc := range raw {
		var effects []ContractEffect
		for _, e := range desc.Effects {
			kind, ok := parseEffectKind(e.Kind)
			if !ok {
				if logger != nil {
					logger.Warnf("dataflow: %s: dropping effect of %s with unrecognized kind %q", path, callee, e.Kind)
				}
				continue
			}
			eff := ContractEffect{
				Kind:                kind,
				ConditionParamIndex: e.ConditionParamIndex,
				ConditionIsInstance: e.ConditionIsInstance,
				LambdaParamIndex:    e.LambdaParamIndex,
			}
			if e.Mode != "" {
				mode, ok := parseMode(e.Mode)
				if !ok {
					if logger != nil {
						logger.Warnf("dataflow: %s: dropping effect of %s with unrecognized mode %q", path, callee, e.Mode)
					}
					continue
				}
				eff.Mode = mode
			}
			if e.ConditionType != "" {
				if resolveType == nil {
					continue
				}
				t, ok := resolveType(e.ConditionType)
				if !ok {
					if logger != nil {
						logger.Warnf("dataflow: %s: dropping effect of %s with unresolved condition type %q", path, callee, e.ConditionType)
					}
					continue
				}
				eff.ConditionType = t
			}
			effects = append(effects, eff)
		}
		out[callee] = ContractDescription{Effects: effects}
	}
	return out, nil
}

func parseEffectKind(s string) (ContractEffectKind, bool) {
	switch s {
	case "CONDITIONAL":
		return ConditionalEffect, true
	case "RETURNS_FOR_EACH":
		return ReturnsForEachEffect, true
	case "FOR_EACH_RETURN_VALUE":
		return ForEachReturnValueEffect, true
	default:
		return 0, false
	}
}

func parseMode(s string) (ConditionalContractMode, bool) {
	switch s {
	case "WILDCARD":
		return ModeWildcard, true
	case "TRUE":
		return ModeTrue, true
	case "FALSE":
		return ModeFalse, true
	case "NULL":
		return ModeNull, true
	case "NOT_NULL":
		return ModeNotNull, true
	default:
		return 0, false
	}
}
