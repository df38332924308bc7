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

// Package asmtree transforms a macro-expanded ast.Root into a flat,
// numbered instruction stream ready for emission.
//
// Transform runs three ordered sub-phases: a label scan (so the
// instruction decoder can tell a label reference apart from an
// undefined symbol), line translation (ast.Line nodes become typed
// Node variants, with per-mnemonic arity and parameter-kind checks),
// and numbering (a section-scoped offset counter assigns every Label
// its (section, offset) and back-patches any LoadImmediate, LoadDirect
// or StoreDirect that referenced one).
//
// Node variants are plain Go types implementing Node, one per
// instruction kind, mirroring the shape of package ast rather than a
// single kind-tagged struct: the emitter and numbering pass dispatch
// on them with a type switch.
package asmtree
