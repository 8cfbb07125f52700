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

import "github.com/pkg/errors"

// Spec §7 names exactly two internal fatal conditions; every other anomaly
// is logged at Warn and produces a comma-ok false, never an error. These two
// stop analysis of the current top-level declaration because they indicate
// an upstream bug rather than an ordinary missing fact.

// errUnsupportedOperation is returned when an exhaustive switch over
// Operation or over a contract's ConditionalContractMode reaches a branch it
// was not built to expect.
func errUnsupportedOperation(where string, op any) error {
	return errors.Errorf("dataflow: unsupported operation %v in %s", op, where)
}

// errInconsistentStorage is returned when a state invariant VariableStorage
// or Flow are supposed to maintain is violated, for instance an
// alias-chain cycle, which AddLocalVariableAlias's remove-before-add rule is
// supposed to make unreachable (see VariableStorage.unwrapAlias).
func errInconsistentStorage(msg string) error {
	return errors.Errorf("dataflow: inconsistent variable storage state: %s", msg)
}

// wrapFatal adds the analyzer's current position context to a fatal error
// on its way out to the resolver.
func wrapFatal(err error, node Node) error {
	if err == nil {
		return nil
	}
	if node == nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(err, "at node %d", node.ID())
}
