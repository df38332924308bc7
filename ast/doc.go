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

// Package ast defines the abstract syntax tree produced by the cs8
// assembly parser (package parse) and consumed by the macro expander
// (package macro) and the asm-tree transformer (package asmtree).
//
// A Root owns an ordered list of Lines and an ordered list of Macro
// definitions. A Line is one of Instruction, Directive, Label or Redact
// (a tombstone the macro expander inserts in place of an expanded macro
// invocation). A Parameter is one of Register, Number, Symbol,
// ReplaceSymbol or String.
//
// Ownership is strictly hierarchical: a Root owns its Lines and Macros,
// a Line owns its Parameters. Nodes are plain Go values; there is no
// shared pointer graph to manage, so Clone (used by the macro expander
// when it duplicates a macro body) is a simple deep copy.
package ast
