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

package functional

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SetToOrderedSlice converts a set represented as a map from elements to
// booleans into a slice, in increasing order. Used by cmd/aster-dfa's
// -dump-cfg to print a block's successor IDs deterministically.
func SetToOrderedSlice[T constraints.Ordered](set map[T]bool) []T {
	var s []T
	for r, b := range set {
		if b {
			s = append(s, r)
		}
	}
	sort.Slice(s, func(i int, j int) bool { return s[i] < s[j] })
	return s
}
