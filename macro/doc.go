// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package macro expands macro invocations in an ast.Root in place.
//
// Expand builds a name -> definition map from the root's macro list (on
// a duplicate name, the later definition wins), then repeatedly scans
// the line stream replacing each Instruction whose name matches a macro
// with a deep copy of the macro's body, substituting ReplaceSymbol
// parameters for the actual parameters of the invocation. The
// invocation line itself is replaced with an ast.Redact tombstone so
// that line insertion never perturbs the position of the scan in
// progress; tombstones are swept away once a pass performs zero
// replacements.
//
// Expansion therefore supports macros that expand to invocations of
// other macros, at the cost of non-termination if two macros invoke
// each other recursively. Expand does not detect that cycle; a source
// file that defines mutually recursive macros will not terminate.
package macro
